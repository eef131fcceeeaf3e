package ui

import (
	"fmt"
	"io"
	"strings"
)

// Report prints a checklist such as the doctor output.
type Report struct {
	w      io.Writer
	styles styles
}

// NewReport creates a report writing to w.
func NewReport(w io.Writer) *Report {
	return &Report{w: w, styles: newStyles(w)}
}

// Title prints an underlined heading.
func (r *Report) Title(title string) {
	_, _ = fmt.Fprintln(r.w)
	_, _ = fmt.Fprintf(r.w, "  %s\n", r.styles.title.Render(title))
	_, _ = fmt.Fprintln(r.w, "  "+r.styles.dim.Render(strings.Repeat("=", len(title))))
}

// Section prints a group heading.
func (r *Report) Section(name string) {
	_, _ = fmt.Fprintln(r.w)
	_, _ = fmt.Fprintln(r.w, "  "+r.styles.section.Render(name))
}

// Row prints one check with an optional detail.
func (r *Report) Row(ok bool, name, detail string) {
	indicator := r.styles.ready.Render(checkMark)
	if !ok {
		indicator = r.styles.failed.Render(crossMark)
	}
	r.row(indicator, name, detail)
}

// Warn prints a check that did not fail but needs attention.
func (r *Report) Warn(name, detail string) {
	r.row(r.styles.warning.Render(warnMark), name, detail)
}

func (r *Report) row(indicator, name, detail string) {
	if detail != "" {
		_, _ = fmt.Fprintf(r.w, "  %s  %-20s %s\n", indicator, name, r.styles.dim.Render(detail))
		return
	}
	_, _ = fmt.Fprintf(r.w, "  %s  %s\n", indicator, name)
}
