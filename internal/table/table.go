// Package table renders rows of text as an aligned ASCII table.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Alignment of text within a column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Table accumulates a header and rows and writes them with Render.
type Table struct {
	writer          io.Writer
	header          []string
	rows            [][]string
	alignment       []Alignment
	headerAlignment []Alignment
}

// NewTable returns an empty table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{writer: w}
}

func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

func (t *Table) WithColumnAlignment(alignment []Alignment) *Table {
	t.alignment = alignment
	return t
}

func (t *Table) WithHeaderAlignment(alignment []Alignment) *Table {
	t.headerAlignment = alignment
	return t
}

func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

// Append adds one row.
func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

// Render writes the table. Column widths ignore ANSI color sequences, so
// colored cells stay aligned.
func (t *Table) Render() {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return
	}
	separator := t.separator(widths)
	fmt.Fprintln(t.writer, separator)
	if t.header != nil {
		fmt.Fprintln(t.writer, t.line(t.header, widths, t.headerAlignment))
		fmt.Fprintln(t.writer, separator)
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.writer, t.line(row, widths, t.alignment))
	}
	fmt.Fprintln(t.writer, separator)
}

func (t *Table) columnWidths() []int {
	var widths []int
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) separator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	return b.String()
}

func (t *Table) line(row []string, widths []int, alignment []Alignment) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		align := AlignLeft
		if i < len(alignment) {
			align = alignment[i]
		}
		b.WriteByte(' ')
		b.WriteString(pad(cell, w, align))
		b.WriteString(" |")
	}
	return b.String()
}

func pad(cell string, width int, align Alignment) string {
	n := width - visibleWidth(cell)
	if n <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", n) + cell
	case AlignCenter:
		left := n / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", n-left)
	default:
		return cell + strings.Repeat(" ", n)
	}
}

func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansiEscape.ReplaceAllString(s, ""))
}
