package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type LogLevel int32

const (
	DEBUG_INFO_DETAIL     LogLevel = 1
	DEBUG_INFO                     = 2
	RDB_OP_FUNC_CALL               = 4
	BUFFER_INTERNAL_STATE          = 8
	PIN_COUNT_ASSERT               = 16
	DEBUGGING                      = 32
	INFO                           = 64
	WARN                           = 128
	ERROR                          = 256
	FATAL                          = 512
)

var logger = newLogger("info", os.Stdout)

type plainFormatter struct{}

func (f *plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}
	return []byte(fmt.Sprintf("[%s] [%s] %s", entry.Time.Format("15:04:05.000"), level, entry.Message)), nil
}

func parseLogLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func newLogger(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&plainFormatter{})
	l.SetLevel(parseLogLevel(level))
	l.SetOutput(out)
	return l
}

// InitLogger replaces the logger used by ShPrintf. A nil out keeps stdout.
func InitLogger(level string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	logger = newLogger(level, out)
}

// ShPrintf prints when logLevel is enabled in ActiveLogKindSetting.
// Debugging kinds go out at logrus debug level, the rest at the matching level.
func ShPrintf(logLevel LogLevel, fmtStl string, a ...interface{}) {
	if logLevel&ActiveLogKindSetting == 0 {
		return
	}
	switch {
	case logLevel&FATAL > 0, logLevel&ERROR > 0:
		logger.Errorf(fmtStl, a...)
	case logLevel&WARN > 0:
		logger.Warnf(fmtStl, a...)
	case logLevel&INFO > 0:
		logger.Infof(fmtStl, a...)
	default:
		logger.Debugf(fmtStl, a...)
	}
}
