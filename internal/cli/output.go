// Package cli provides the command-line interface for the diary application.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer   io.Writer
	jsonMode bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	bold   *color.Color
	dim    *color.Color
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	o := &Output{
		writer:   cmd.OutOrStdout(),
		jsonMode: jsonMode,
		green:    color.New(color.FgGreen),
		red:      color.New(color.FgRed),
		yellow:   color.New(color.FgYellow),
		cyan:     color.New(color.FgCyan),
		bold:     color.New(color.Bold),
		dim:      color.New(color.Faint),
	}
	if jsonMode || !isTerminal() {
		for _, c := range []*color.Color{o.green, o.red, o.yellow, o.cyan, o.bold, o.dim} {
			c.DisableColor()
		}
	}
	return o
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.green.Sprintf(format, args...))
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.red.Sprintf(format, args...))
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.yellow.Sprintf(format, args...))
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.cyan.Sprintf(format, args...))
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.bold.Sprintf(format, args...))
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.dim.Sprintf(format, args...))
}

// FormatMove colors a percentage move green/red by sign.
func (o *Output) FormatMove(pct float64) string {
	s := fmt.Sprintf("%+.2f%%", pct)
	if pct > 0 {
		return o.green.Sprint(s)
	}
	if pct < 0 {
		return o.red.Sprint(s)
	}
	return s
}

// Table renders simple aligned tables.
type Table struct {
	out     *Output
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given headers.
func NewTable(out *Output, headers ...string) *Table {
	return &Table{out: out, headers: headers}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render prints the table.
func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	t.out.Printf("  ")
	for i, h := range t.headers {
		t.out.Printf("%-*s  ", widths[i], h)
	}
	t.out.Println()

	for _, row := range t.rows {
		t.out.Printf("  ")
		for i, cell := range row {
			pad := 0
			if i < len(widths) {
				pad = widths[i] - visibleLen(cell)
			}
			t.out.Printf("%s%s  ", cell, strings.Repeat(" ", pad))
		}
		t.out.Println()
	}
}

// visibleLen ignores ANSI color sequences when measuring cell width.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			n++
		}
	}
	return n
}
