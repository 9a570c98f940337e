package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"iql/internal/diag"
	"iql/internal/source"
)

// Pretty formats diagnostics in a human-readable way. It walks bag.Items()
// (bag.Sort() is expected beforehand). Each diagnostic prints as
//
//	<name>:<line>:<col>: <severity> <code>: <message>
//	  <source line>
//	  <caret underline>
//
// followed by notes and suggestions when enabled.
func Pretty(w io.Writer, bag *diag.Bag, text *source.Text, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printOne(w, d, text, opts)
	}
}

func printOne(w io.Writer, d diag.Diagnostic, text *source.Text, opts PrettyOpts) {
	start, end := text.Resolve(d.Primary)

	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = color.New(color.Bold).Sprint(code)
	}

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		text.Name, start.Line, start.Col, sev, code, d.Message)

	printContext(w, text, start, end, d.Severity, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := text.Resolve(n.Span)
			fmt.Fprintf(w, "  note: %s (at %d:%d)\n", n.Msg, ns.Line, ns.Col)
		}
	}
	if opts.ShowSuggestions && len(d.Suggestions) > 0 {
		fmt.Fprintf(w, "  did you mean: %s?\n", strings.Join(d.Suggestions, ", "))
	}
}

// printContext shows the source line with a caret underline covering the
// span. Multi-line spans underline to the end of the first line.
func printContext(w io.Writer, text *source.Text, start, end source.LineCol, sev diag.Severity, opts PrettyOpts) {
	line := text.Line(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", line)

	// Underline width is measured in display cells so wide runes line up.
	before := substrCols(line, start.Col-1)
	pad := runewidth.StringWidth(before)

	endCol := end.Col
	if end.Line != start.Line {
		endCol = uint32(len(line)) + 1
	}
	covered := substrRange(line, start.Col-1, endCol-1)
	width := runewidth.StringWidth(covered)
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = severityColor(sev).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
}

// substrCols returns the first n bytes of s, clamped.
func substrCols(s string, n uint32) string {
	if int(n) >= len(s) {
		return s
	}
	return s[:n]
}

// substrRange returns s[from:to] in bytes, clamped.
func substrRange(s string, from, to uint32) string {
	if int(from) >= len(s) {
		return ""
	}
	if int(to) > len(s) {
		to = uint32(len(s))
	}
	if to <= from {
		return ""
	}
	return s[from:to]
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
