package gologger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const ReqIDKey ctxKey = "reqID"

func init() {
	l := NewLogger()
	zerolog.DefaultContextLogger = &l
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		function := ""
		fun := runtime.FuncForPC(pc)
		if fun != nil {
			funName := fun.Name()
			slash := strings.LastIndex(funName, "/")
			if slash > 0 {
				funName = funName[slash+1:]
			}
			function = " " + funName + "()"
		}
		return file + ":" + strconv.Itoa(line) + function
	}
}

// NewLogger builds the process logger: JSON on stdout, or a console writer on
// stderr when SHEETLENS_PRETTY_LOGS=1.
func NewLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "time"

	var out io.Writer = os.Stdout
	if os.Getenv("SHEETLENS_PRETTY_LOGS") == "1" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return newLogger(out)
}

func newLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(out).With().Timestamp().Logger().Hook(CallerHook{})
}

// Configure applies the configured level and output style and installs the
// result as the default context logger.
func Configure(level string, pretty bool) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("log level: %w", err)
		}
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	l := newLogger(out)
	zerolog.DefaultContextLogger = &l
	return l, nil
}

type CallerHook struct{}

func (h CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Caller(3)
}
