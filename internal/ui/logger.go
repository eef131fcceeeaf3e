package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// NewLogger returns a logger writing one line per entry to w: the message
// followed by its key/value pairs. Entries above verbosity are dropped.
func NewLogger(w io.Writer, verbosity int) logr.Logger {
	return logr.New(&sink{
		Formatter: funcr.NewFormatter(funcr.Options{
			Verbosity:          verbosity,
			RenderBuiltinsHook: dropMessage,
		}),
		out:    &lockedWriter{w: w},
		styles: newStyles(w),
	})
}

// dropMessage removes the builtins printed separately by the sink.
func dropMessage(kvList []any) []any {
	out := make([]any, 0, len(kvList))
	for i := 0; i+1 < len(kvList); i += 2 {
		if k, ok := kvList[i].(string); ok && (k == "msg" || k == "level") {
			continue
		}
		out = append(out, kvList[i], kvList[i+1])
	}
	return out
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.w, line)
}

type sink struct {
	funcr.Formatter
	out    *lockedWriter
	styles styles
}

var _ logr.LogSink = (*sink)(nil)

func (s *sink) Info(level int, msg string, kvList ...any) {
	_, args := s.FormatInfo(level, msg, kvList)
	style := s.styles.message
	if level > 0 {
		style = s.styles.dim
	}
	s.write(style.Render(msg), args)
}

func (s *sink) Error(err error, msg string, kvList ...any) {
	_, args := s.FormatError(err, msg, kvList)
	s.write(s.styles.failed.Render(crossMark+" "+msg), args)
}

func (s *sink) write(msg, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		s.out.println(msg)
		return
	}
	s.out.println(msg + " " + s.styles.dim.Render(args))
}

func (s *sink) WithValues(kvList ...any) logr.LogSink {
	n := *s
	n.AddValues(kvList)
	return &n
}

func (s *sink) WithName(name string) logr.LogSink {
	n := *s
	n.AddName(name)
	return &n
}
