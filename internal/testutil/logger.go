package testutil

import "fmt"

// RecordingLogger captures log messages by level for assertions.
type RecordingLogger struct {
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func format(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf("%s %v", msg, args)
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.Debugs = append(l.Debugs, format(msg, args...)) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.Infos = append(l.Infos, format(msg, args...)) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.Warns = append(l.Warns, format(msg, args...)) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.Errors = append(l.Errors, format(msg, args...)) }
