// Package output provides terminal-aware rendering for CLI commands.
//
// The renderer adapts to its environment: styled text on a TTY,
// markdown when piped, and JSON on request. Commands pick the layout,
// the renderer picks the dressing.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode controls how command output is formatted.
type OutputMode string

const (
	// ModeAuto selects text on a TTY and markdown otherwise.
	ModeAuto OutputMode = "auto"
	// ModeText is styled terminal output.
	ModeText OutputMode = "text"
	// ModeMarkdown is plain markdown, suitable for pipes and agents.
	ModeMarkdown OutputMode = "markdown"
	// ModeJSON is machine-readable JSON.
	ModeJSON OutputMode = "json"
)

// Mode parses a mode string, defaulting to auto for unknown values.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes formatted command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	width  int
	color  *termenv.Output
}

// NewRenderer creates a renderer, detecting TTY state from the writer.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Used by tests to pin down the effective mode.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	width := 100
	profile := termenv.Ascii
	if isTTY {
		profile = termenv.ColorProfile()
		if f, ok := out.(*os.File); ok {
			if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
				width = w
			}
		}
	}

	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		width:  width,
		color:  termenv.NewOutput(out, termenv.WithProfile(profile)),
	}
}

// EffectiveMode resolves auto to a concrete mode.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Writer returns the underlying output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the underlying error writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Width returns the detected terminal width.
func (r *Renderer) Width() int {
	return r.width
}

// Println writes a line to the output writer.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.color.String("✓ " + msg).Foreground(r.color.Color("2")).String())
		return
	}
	r.Println("**" + msg + "**")
}

// Warning writes a warning message to the error writer.
func (r *Renderer) Warning(msg string) {
	if r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.errOut, r.color.String("! "+msg).Foreground(r.color.Color("3")).String())
		return
	}
	_, _ = fmt.Fprintln(r.errOut, "Warning: "+msg)
}

// Header writes a section header at the given level.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.color.String(text).Bold().String())
		return
	}
	r.Println(FormatHeader(level, text))
}

// KeyValue writes an aligned key: value line.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() == ModeText {
		r.Printf("%-14s %s\n", key+":", value)
		return
	}
	r.Println(FormatKeyValue(key, value))
}

// StatusLine writes a name with a status marker and optional detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	marker := "-"
	colorCode := "7"
	switch status {
	case "success":
		marker, colorCode = "✓", "2"
	case "warning":
		marker, colorCode = "!", "3"
	case "error":
		marker, colorCode = "✗", "1"
	}

	line := marker + " " + name
	if detail != "" {
		line += " (" + detail + ")"
	}

	if r.EffectiveMode() == ModeText {
		r.Println(r.color.String(line).Foreground(r.color.Color(colorCode)).String())
		return
	}
	r.Println("- " + name + statusSuffix(status, detail))
}

func statusSuffix(status, detail string) string {
	var parts []string
	if status != "" && status != "success" {
		parts = append(parts, status)
	}
	if detail != "" {
		parts = append(parts, detail)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// Table writes a table, styled on a TTY and as markdown otherwise.
func (r *Renderer) Table(headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleRounded)
		t.SetAllowedRowLength(r.width)
		t.Render()
		return
	}
	t.RenderMarkdown()
}

// FormatHeader formats a markdown header.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a markdown key-value line.
func FormatKeyValue(key, value string) string {
	return "- **" + key + "**: " + value
}
