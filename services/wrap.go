package services

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapText breaks text into lines of at most columns display cells. Explicit
// newlines start a new paragraph; a word wider than a whole line is split
// across lines. Blank text yields no lines.
func WrapText(text string, columns int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if columns < 1 {
		columns = 1
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var cur strings.Builder
		width := 0
		for _, word := range words {
			for _, chunk := range splitWord(word, columns) {
				cw := runewidth.StringWidth(chunk)
				switch {
				case width == 0:
					cur.WriteString(chunk)
					width = cw
				case width+1+cw <= columns:
					cur.WriteByte(' ')
					cur.WriteString(chunk)
					width += 1 + cw
				default:
					lines = append(lines, cur.String())
					cur.Reset()
					cur.WriteString(chunk)
					width = cw
				}
			}
		}
		lines = append(lines, cur.String())
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitWord hard-splits a word that does not fit on one line, never cutting
// inside a rune.
func splitWord(word string, columns int) []string {
	if runewidth.StringWidth(word) <= columns {
		return []string{word}
	}
	var out []string
	var b strings.Builder
	width := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if width > 0 && width+rw > columns {
			out = append(out, b.String())
			b.Reset()
			width = 0
		}
		b.WriteRune(r)
		width += rw
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
