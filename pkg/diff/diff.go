// Package diff renders line-based unified diffs between two texts.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// Op is the kind of a diff line.
type Op int

// Diff line kinds.
const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of a hunk. Text keeps its trailing newline, if any.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a group of nearby changes with surrounding context. Starts are
// 1-indexed; a start of 0 with a count of 0 denotes an empty side.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Header returns the "@@ -a,b +c,d @@" line without a newline.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// Unified returns the unified diff of oldText and newText, labelled with
// name, or "" when the texts are identical.
func Unified(name, oldText, newText string) string {
	var b strings.Builder
	_ = Write(&b, name, Hunks(oldText, newText), false)
	return b.String()
}

// Write renders hunks as a unified diff. Nothing is written when there are
// no hunks. With colorize set, headers are bold, hunk ranges cyan,
// deletions red and insertions green.
func Write(w io.Writer, name string, hunks []Hunk, colorize bool) error {
	if len(hunks) == 0 {
		return nil
	}

	p := newPalette(colorize)
	out := &errWriter{w: w}

	out.print(p.header, fmt.Sprintf("--- a/%s\n+++ b/%s\n", name, name))
	for _, h := range hunks {
		out.print(p.hunk, h.Header()+"\n")
		for _, l := range h.Lines {
			text := strings.TrimSuffix(l.Text, "\n")
			switch l.Op {
			case Delete:
				out.print(p.del, "-"+text+"\n")
			case Insert:
				out.print(p.ins, "+"+text+"\n")
			default:
				out.print(nil, " "+text+"\n")
			}
		}
	}
	return out.err
}

type palette struct {
	header, hunk, del, ins *color.Color
}

func newPalette(colorize bool) palette {
	if !colorize {
		return palette{}
	}
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		c.EnableColor()
		return c
	}
	return palette{
		header: mk(color.Bold),
		hunk:   mk(color.FgCyan),
		del:    mk(color.FgRed),
		ins:    mk(color.FgGreen),
	}
}

// errWriter stops writing after the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) print(c *color.Color, s string) {
	if e.err != nil {
		return
	}
	if c == nil {
		_, e.err = io.WriteString(e.w, s)
		return
	}
	// Colour the text but not the newline so terminals reset cleanly.
	body, nl := strings.CutSuffix(s, "\n")
	if _, e.err = c.Fprint(e.w, body); e.err == nil && nl {
		_, e.err = io.WriteString(e.w, "\n")
	}
}

// Hunks computes the changes between oldText and newText grouped into
// hunks with context lines.
func Hunks(oldText, newText string) []Hunk {
	if oldText == newText {
		return nil
	}
	a, b := splitLines(oldText), splitLines(newText)
	return group(shortestEdit(a, b), a, b)
}

// splitLines splits text after each newline. An empty string has no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// step is one entry of an edit script: a line kept, inserted or deleted.
// ai and bi index the old and new line slices; the unused one is -1.
type step struct {
	op     Op
	ai, bi int
}

// shortestEdit computes a minimal edit script with the Myers algorithm.
func shortestEdit(a, b []string) []step {
	n, m := len(a), len(b)
	limit := n + m
	if limit == 0 {
		return nil
	}

	// frontier[k+limit] is the furthest x reached on diagonal k = x - y.
	frontier := make([]int, 2*limit+1)
	var history [][]int

	down := func(v []int, k, d int) bool {
		return k == -d || (k != d && v[k-1+limit] < v[k+1+limit])
	}

	for d := 0; d <= limit; d++ {
		history = append(history, append([]int(nil), frontier...))

		for k := -d; k <= d; k += 2 {
			x := frontier[k-1+limit] + 1
			if down(frontier, k, d) {
				x = frontier[k+1+limit]
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x, y = x+1, y+1
			}
			frontier[k+limit] = x

			if x < n || y < m {
				continue
			}

			// Walk the saved frontiers back from (n, m) to (0, 0).
			var rev []step
			for s := d; s > 0; s-- {
				v := history[s]
				k := x - y
				prevK := k - 1
				if down(v, k, s) {
					prevK = k + 1
				}
				prevX := v[prevK+limit]
				prevY := prevX - prevK

				for x > prevX && y > prevY {
					x, y = x-1, y-1
					rev = append(rev, step{op: Equal, ai: x, bi: y})
				}
				if prevK == k+1 {
					y--
					rev = append(rev, step{op: Insert, ai: -1, bi: y})
				} else {
					x--
					rev = append(rev, step{op: Delete, ai: x, bi: -1})
				}
			}
			for x > 0 && y > 0 {
				x, y = x-1, y-1
				rev = append(rev, step{op: Equal, ai: x, bi: y})
			}

			script := make([]step, len(rev))
			for i, st := range rev {
				script[len(rev)-1-i] = st
			}
			return script
		}
	}
	return nil
}

// group splits an edit script into hunks. Changes separated by no more
// than twice the context share a hunk.
func group(script []step, a, b []string) []Hunk {
	var hunks []Hunk
	for i := 0; i < len(script); {
		if script[i].op == Equal {
			i++
			continue
		}

		start := max(i-contextLines, 0)
		end := i
		for j := i; j < len(script); j++ {
			if script[j].op == Equal {
				continue
			}
			if j-end > 2*contextLines {
				break
			}
			end = j
		}
		stop := min(end+contextLines+1, len(script))

		hunks = append(hunks, newHunk(script[start:stop], a, b))
		i = stop
	}
	return hunks
}

func newHunk(steps []step, a, b []string) Hunk {
	var h Hunk
	for _, st := range steps {
		switch st.op {
		case Equal:
			h.OldCount++
			h.NewCount++
			h.Lines = append(h.Lines, Line{Op: Equal, Text: a[st.ai]})
		case Delete:
			h.OldCount++
			h.Lines = append(h.Lines, Line{Op: Delete, Text: a[st.ai]})
		case Insert:
			h.NewCount++
			h.Lines = append(h.Lines, Line{Op: Insert, Text: b[st.bi]})
		}
		if st.ai >= 0 && h.OldStart == 0 {
			h.OldStart = st.ai + 1
		}
		if st.bi >= 0 && h.NewStart == 0 {
			h.NewStart = st.bi + 1
		}
	}
	return h
}
