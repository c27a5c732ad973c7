package parser

import "strings"

type Line struct {
	File    string
	Number  int
	Content string
}

func normalize(raw string) string {
	if after, ok := strings.CutPrefix(raw, "\uFEFF"); ok {
		return after
	}
	return raw
}

func toLines(file, raw string) []Line {
	norm := normalize(raw)
	norm = strings.ReplaceAll(norm, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")
	parts := strings.Split(norm, "\n")
	out := make([]Line, 0, len(parts))
	for i, p := range parts {
		out = append(out, Line{File: file, Number: i + 1, Content: p})
	}
	return out
}

// preprocess strips comments and surrounding whitespace and drops blank lines.
func preprocess(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		line := l
		line.Content = strings.TrimSpace(stripComment(line.Content))
		if line.Content == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func stripComment(raw string) string {
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		return raw[:i]
	}
	return raw
}
