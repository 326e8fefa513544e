// Package diff renders unified diffs between the existing output file and a
// freshly rendered one, styled for the terminal.
package diff

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const noNewline = `\ No newline at end of file`

// Limits beyond which a line diff is not attempted.
const (
	maxLines   = 10000
	binaryScan = 8192
)

// Options configures how diffs are generated and displayed.
// All fields are optional.
type Options struct {
	// Context is the number of unchanged lines shown around changes. Default: 3
	Context int

	// TabWidth is the number of spaces a tab expands to. Default: 4
	TabWidth int

	// LineNumbers prefixes each line with its number in the old file.
	LineNumbers bool

	// Width is the maximum rendered line width. Default: terminal width or 80.
	Width int
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
)

// Unified returns a unified diff from old to newer, or "" when they are equal.
func Unified(oldName, newName string, old, newer []byte, opts *Options) string {
	o := withDefaults(opts)

	if bytes.Equal(old, newer) {
		return ""
	}
	if isBinary(old) || isBinary(newer) {
		return "Binary files differ\n"
	}

	a, b := splitLines(string(old)), splitLines(string(newer))
	if len(a) > maxLines || len(b) > maxLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	hunks := group(editScript(a, b), o.Context)
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("--- "+oldName) + "\n")
	sb.WriteString(headerStyle.Render("+++ "+newName) + "\n")
	for _, h := range hunks {
		writeHunk(&sb, h, o)
	}
	return sb.String()
}

func withDefaults(opts *Options) Options {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Context <= 0 {
		o.Context = 3
	}
	if o.TabWidth <= 0 {
		o.TabWidth = 4
	}
	if o.Width <= 0 {
		o.Width = terminalWidth()
	}
	return o
}

type kind int

const (
	same kind = iota
	added
	removed
)

// line is one entry of the edit script. Line numbers are 1-based; zero means
// the line does not exist on that side.
type line struct {
	kind    kind
	oldNum  int
	newNum  int
	content string
}

// editScript computes the shortest edit script from a to b using Myers'
// O(ND) algorithm, keeping one V array per edit distance for backtracking.
func editScript(a, b []string) []line {
	n, m := len(a), len(b)
	limit := n + m
	offset := limit + 1
	v := make([]int, 2*limit+3)
	var trace [][]int

search:
	for d := 0; d <= limit; d++ {
		trace = append(trace, append([]int(nil), v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	script := make([]line, 0, n+m)
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		vd := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && vd[offset+k-1] < vd[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := vd[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			script = append(script, line{kind: same, oldNum: x + 1, newNum: y + 1, content: a[x]})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			script = append(script, line{kind: added, newNum: y + 1, content: b[y]})
		} else {
			x--
			script = append(script, line{kind: removed, oldNum: x + 1, content: a[x]})
		}
	}

	for i, j := 0, len(script)-1; i < j; i, j = i+1, j-1 {
		script[i], script[j] = script[j], script[i]
	}
	return script
}

// hunk is a run of changes plus surrounding context.
type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []line
}

// group splits an edit script into hunks. Changes separated by at most
// 2*context unchanged lines share a hunk.
func group(script []line, context int) []hunk {
	var hunks []hunk
	start, end := -1, -1

	flush := func() {
		if start < 0 {
			return
		}
		lo := max(0, start-context)
		hi := min(len(script), end+context+1)
		hunks = append(hunks, newHunk(script[lo:hi]))
		start, end = -1, -1
	}

	for i, l := range script {
		if l.kind == same {
			continue
		}
		if start >= 0 && i-end-1 > 2*context {
			flush()
		}
		if start < 0 {
			start = i
		}
		end = i
	}
	flush()

	return hunks
}

func newHunk(lines []line) hunk {
	h := hunk{lines: lines}
	for _, l := range lines {
		if l.oldNum > 0 && h.oldStart == 0 {
			h.oldStart = l.oldNum
		}
		if l.newNum > 0 && h.newStart == 0 {
			h.newStart = l.newNum
		}
		if l.kind != added {
			h.oldCount++
		}
		if l.kind != removed {
			h.newCount++
		}
	}
	return h
}

func writeHunk(sb *strings.Builder, h hunk, o Options) {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
	sb.WriteString(hunkStyle.Render(header) + "\n")

	for _, l := range h.lines {
		body, eol := strings.CutSuffix(l.content, "\n")
		content := truncate(expandTabs(body, o.TabWidth), o.Width-10)

		var text string
		switch l.kind {
		case added:
			text = addedStyle.Render("+" + content)
		case removed:
			text = removedStyle.Render("-" + content)
		default:
			text = " " + content
		}

		if o.LineNumbers {
			num := "    "
			if l.oldNum > 0 {
				num = fmt.Sprintf("%4d", l.oldNum)
			}
			text = lineNumStyle.Render(num) + " " + text
		}

		sb.WriteString(text + "\n")
		if !eol {
			sb.WriteString(headerStyle.Render(noNewline) + "\n")
		}
	}
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), binaryScan)], 0) != -1
}

// splitLines splits s after each newline. Every line keeps its terminator, so
// a last line without one never matches the same text with one.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func expandTabs(s string, width int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}

	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if width <= 0 {
		width = 80
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width < 3 {
		return "..."[:width]
	}
	return string([]rune(s)[:width-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
