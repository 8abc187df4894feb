package common

import (
	"fmt"
	"runtime"

	"github.com/devlights/gomy/output"
)

func SH_Assert(condition bool, msg string) {
	if !condition {
		if EnableDebug && ActiveLogKindSetting&DEBUGGING > 0 {
			RuntimeStack()
		}
		panic(msg)
	}
}

// SH_Assertf is SH_Assert with a formatted message. The message is built
// only when the assertion fails.
func SH_Assertf(condition bool, format string, a ...interface{}) {
	if !condition {
		SH_Assert(false, fmt.Sprintf(format, a...))
	}
}

// REFERENCES
//   - https://pkg.go.dev/runtime#Stack
//   - https://stackoverflow.com/questions/19094099/how-to-dump-goroutine-stacktraces
func RuntimeStack() error {
	var (
		chAll = make(chan []byte, 1)
	)

	var (
		getStack = func(all bool) []byte {
			// From src/runtime/debug/stack.go
			var (
				buf = make([]byte, 1024)
			)

			for {
				n := runtime.Stack(buf, all)
				if n < len(buf) {
					return buf[:n]
				}
				buf = make([]byte, 2*len(buf))
			}
		}
	)

	go func(ch chan<- []byte) {
		defer close(ch)
		ch <- getStack(true)
	}(chAll)

	for v := range chAll {
		output.Stdoutl("=== stack-all   ", string(v))
	}

	return nil
}
