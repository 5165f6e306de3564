package internal

import (
	"io"
	"log"

	"github.com/fatih/color"
)

const (
	ActionCreate = "create"
	ActionMkdir  = "mkdir"
	ActionUpdate = "update"
	ActionInvoke = "invoke"
)

var actionColors = map[string]*color.Color{
	ActionCreate: color.New(color.FgGreen),
	ActionMkdir:  color.New(color.FgGreen),
	ActionUpdate: color.New(color.FgYellow),
	ActionInvoke: color.New(color.FgCyan),
}

// Logger reports what the generator does to the project, one line per
// action.
type Logger struct {
	*log.Logger
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{Logger: log.New(w, "", 0)}
}

// Action logs action applied to target.  A nil Logger discards the line.
func (l *Logger) Action(action string, target string) {
	if l == nil {
		return
	}
	verb := action
	if c, ok := actionColors[action]; ok {
		verb = c.Sprint(action)
	}
	l.Printf("    %s  %s", verb, target)
}
