// 29 Apr 2020
// Things shared by the commands and the tests.

package common

import (
	"fmt"
	"io"
	"log"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// Verbosity levels. Anything at or below the configured level is printed.
const (
	VbstyQuiet = iota
	VbstyNormal
	VbstyChatty
	VbstyDebug
)

// Logger writes progress messages to stderr if the verbosity is high
// enough. A nil *Logger is silent, so library code can take one without
// checking.
type Logger struct {
	lg    *log.Logger
	vbsty int
}

// NewLogger returns a logger printing to w. If w is nil, stderr is used.
func NewLogger(w io.Writer, prefix string, vbsty int) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{lg: log.New(w, prefix, log.LstdFlags), vbsty: vbsty}
}

// At prints if the logger's verbosity is at least level.
func (l *Logger) At(level int, format string, v ...any) {
	if l == nil || l.vbsty < level {
		return
	}
	l.lg.Printf(format, v...)
}

// Infof is At(VbstyNormal, ...)
func (l *Logger) Infof(format string, v ...any) { l.At(VbstyNormal, format, v...) }

// Warnf is always printed unless the logger is quiet.
func (l *Logger) Warnf(format string, v ...any) { l.At(VbstyNormal, "warning: "+format, v...) }

// Debugf
func (l *Logger) Debugf(format string, v ...any) { l.At(VbstyDebug, format, v...) }

// Vbsty returns the verbosity level
func (l *Logger) Vbsty() int {
	if l == nil {
		return VbstyQuiet
	}
	return l.vbsty
}

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}

	if _, err := io.WriteString(f_tmp, s); err != nil {
		return "", fmt.Errorf("writing string to temp file %v", f_tmp.Name())
	}
	name := f_tmp.Name()
	f_tmp.Close()
	return name, nil
}
