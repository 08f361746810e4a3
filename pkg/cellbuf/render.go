package cellbuf

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Render converts the buffer into a styled string. The caller provides
// a mapping from StyleKey to lipgloss.Style.
//
// Consecutive cells with the same StyleKey are merged into runs and
// rendered with a single Style.Render() call per run, which is
// significantly faster than per-cell rendering on large buffers.
//
// Rows are joined with "\n". An empty buffer returns "".
func (b *Buffer) Render(styles map[StyleKey]lipgloss.Style) string {
	if b.w == 0 || b.h == 0 {
		return ""
	}

	lines := make([]string, b.h)
	chunk := make([]rune, 0, b.w)

	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		row := b.cells[y*b.w : (y+1)*b.w]

		runStart := 0
		runStyle := row[0].Style

		flush := func(end int) {
			chunk = chunk[:0]
			for i := runStart; i < end; i++ {
				chunk = append(chunk, row[i].Ch)
			}
			if s, ok := styles[runStyle]; ok {
				sb.WriteString(s.Render(string(chunk)))
			} else {
				sb.WriteString(string(chunk))
			}
		}

		for x := 1; x < b.w; x++ {
			if row[x].Style != runStyle {
				flush(x)
				runStart = x
				runStyle = row[x].Style
			}
		}
		flush(b.w)

		lines[y] = sb.String()
	}

	return strings.Join(lines, "\n")
}
