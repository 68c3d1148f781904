package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// TrySetupGlobalLevel sets the level of all loggers, e.g. "debug" to see frame pushes and pops.
func TrySetupGlobalLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

func bold(str any, noColor bool) string {
	const colorBold = 1

	if noColor {
		return fmt.Sprintf("%v", str)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", colorBold, str)
}

// NewLogger creates a console logger for the component writing to stderr. Colors are off
// when stdout is not a terminal or NO_COLOR is set.
func NewLogger(component string) zerolog.Logger {
	noColor := os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd()))
	return NewLoggerWithWriter(component, os.Stderr, noColor)
}

func NewLoggerWithWriter(component string, out io.Writer, noColor bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			FieldComponent,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{FieldComponent},
		FormatFieldValue: func(v any) string {
			return bold(v, noColor)
		},
		NoColor: noColor,
	}).
		With().
		Str(FieldComponent, component).
		Timestamp().
		Logger()
}
