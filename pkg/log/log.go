// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 45 // Base width for source path
	actionWidth = 10 // Width for action name
)

// 🎯 FileOperation represents one file action for console display
type FileOperation struct {
	Requested string // Filename as requested
	Path      string // Absolute source path
	Action    string // copy/move/delete
	Failed    bool   // Whether the action failed
}

// 🎯 Logger handles human-readable console output mirrored to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	sinks   []Sink
}

// 📥 Sink receives every console line, already rendered. The per-run log
// file is attached as a sink.
type Sink interface {
	WriteLine(line string) error
}

// 🏭 New creates a new logger writing human output to console
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔗 AttachSink mirrors all subsequent console lines to the given sink
func (l *Logger) AttachSink(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// emit writes one line to the console and every attached sink. Sink write
// failures are reported to zerolog only, the run keeps going.
func (l *Logger) emit(line string) {
	fmt.Fprintln(l.console, line)
	for _, s := range l.sinks {
		if err := s.WriteLine(line); err != nil {
			l.zlog.Warn().Err(err).Msg("writing log sink")
		}
	}
}

// 📝 formatFileOperation formats a file action for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	if op.Failed {
		symbol = '✗'
		symbolColor = color.FgRed
	} else {
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", actionWidth, op.Action)),
		color.New(color.Faint).Sprint(op.Requested))
}

// 📝 LogFileOperation logs one file action
func (l *Logger) LogFileOperation(op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.emit(l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("requested", op.Requested).
		Str("action", op.Action).
		Bool("failed", op.Failed).
		Msg("file operation")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emit("")
}

// 📝 Header logs a run header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	title := color.New(color.Bold, color.FgCyan).Sprint("esbatch")
	l.emit("")
	l.emit(fmt.Sprintf("%s %s", title, color.New(color.Faint).Sprint("• "+msg)))
	l.emit("")
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emit(fmt.Sprintf("✅ %s", color.New(color.FgGreen).Sprint(msg)))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emit(fmt.Sprintf("⚠️  %s", color.New(color.FgYellow).Sprint(msg)))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emit(fmt.Sprintf("❌ %s", color.New(color.FgRed).Sprint(msg)))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emit(fmt.Sprintf("ℹ️  %s", color.New(color.FgCyan).Sprint(msg)))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
