package testing_assert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// Assert fails the test if the condition is false.
func Assert(tb testing.TB, condition bool, msg string, v ...interface{}) {
	tb.Helper()
	require.Truef(tb, condition, msg, v...)
}

// SimpleAssert fails the test if the condition is false.
func SimpleAssert(tb testing.TB, condition bool) {
	tb.Helper()
	require.True(tb, condition)
}

// Ok fails the test if an err is not nil.
func Ok(tb testing.TB, err error) {
	tb.Helper()
	require.NoError(tb, err)
}

// Equals fails the test if exp is not equal to act.
func Equals(tb testing.TB, exp, act interface{}) {
	tb.Helper()
	require.Equal(tb, exp, act)
}

// ErrorIs fails the test unless err wraps target.
func ErrorIs(tb testing.TB, err error, target error) {
	tb.Helper()
	require.ErrorIs(tb, err, target, fmt.Sprintf("expected %v", target))
}

// Panics fails the test unless f panics.
func Panics(tb testing.TB, f func()) {
	tb.Helper()
	require.Panics(tb, f)
}
