package conflict

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// markerSize is git's default conflict-marker-size
const markerSize = 7

// ErrMalformed is returned when conflict markers are not properly nested or terminated
var ErrMalformed = errors.New("malformed conflict markers")

// Hunk is one conflicting region
type Hunk struct {
	LocalLabel    string
	IncomingLabel string
	Local         []string
	// Base holds the common ancestor lines when git wrote diff3-style markers
	Base     []string
	HasBase  bool
	Incoming []string
}

// Resolve returns the lines that replace the hunk under policy
func (h *Hunk) Resolve(p Policy) []string {
	switch p {
	case KeepIncoming:
		return h.Incoming
	case Union:
		if slices.Equal(h.Local, h.Incoming) {
			return h.Local
		}
		out := make([]string, 0, len(h.Local)+len(h.Incoming))
		out = append(out, h.Local...)
		return append(out, h.Incoming...)
	default:
		return h.Local
	}
}

// Segment is either plain text or a hunk
type Segment struct {
	Text []string
	Hunk *Hunk
}

// Document is a file split into plain segments and conflict hunks
type Document struct {
	Segments        []Segment
	newline         string
	trailingNewline bool
}

type parseState int

const (
	inText parseState = iota
	inLocal
	inBase
	inIncoming
)

// isMarker reports whether line is a marker made of ch, returning its label
func isMarker(line string, ch byte) (string, bool) {
	if len(line) < markerSize {
		return "", false
	}
	for i := 0; i < markerSize; i++ {
		if line[i] != ch {
			return "", false
		}
	}
	if len(line) == markerSize {
		return "", true
	}
	if line[markerSize] != ' ' {
		return "", false
	}
	return strings.TrimSpace(line[markerSize+1:]), true
}

func isSeparator(line string) bool {
	return strings.TrimRight(line, " \t") == strings.Repeat("=", markerSize)
}

// splitLines splits content into lines, remembering the line ending style
func splitLines(content string) (lines []string, newline string, trailing bool) {
	newline = "\n"
	if strings.Contains(content, "\r\n") {
		newline = "\r\n"
	}
	if content == "" {
		return nil, newline, false
	}
	trailing = strings.HasSuffix(content, "\n")
	body := strings.TrimSuffix(content, "\n")
	lines = strings.Split(body, "\n")
	if newline == "\r\n" {
		for i, l := range lines {
			lines[i] = strings.TrimSuffix(l, "\r")
		}
	}
	return lines, newline, trailing
}

// Parse splits content into text segments and conflict hunks
func Parse(content string) (*Document, error) {
	lines, newline, trailing := splitLines(content)
	doc := &Document{newline: newline, trailingNewline: trailing}

	state := inText
	var text []string
	var hunk *Hunk
	start := 0

	flushText := func() {
		if len(text) > 0 {
			doc.Segments = append(doc.Segments, Segment{Text: text})
			text = nil
		}
	}

	for i, line := range lines {
		switch state {
		case inText:
			if label, ok := isMarker(line, '<'); ok {
				flushText()
				hunk = &Hunk{LocalLabel: label}
				state = inLocal
				start = i + 1
				continue
			}
			text = append(text, line)

		case inLocal:
			if _, ok := isMarker(line, '|'); ok {
				hunk.HasBase = true
				state = inBase
				continue
			}
			if isSeparator(line) {
				state = inIncoming
				continue
			}
			if err := unexpected(line, i); err != nil {
				return nil, err
			}
			hunk.Local = append(hunk.Local, line)

		case inBase:
			if isSeparator(line) {
				state = inIncoming
				continue
			}
			if err := unexpected(line, i); err != nil {
				return nil, err
			}
			hunk.Base = append(hunk.Base, line)

		case inIncoming:
			if label, ok := isMarker(line, '>'); ok {
				hunk.IncomingLabel = label
				doc.Segments = append(doc.Segments, Segment{Hunk: hunk})
				hunk = nil
				state = inText
				continue
			}
			if _, ok := isMarker(line, '<'); ok {
				return nil, fmt.Errorf("%w: nested conflict start at line %d", ErrMalformed, i+1)
			}
			if _, ok := isMarker(line, '|'); ok {
				return nil, fmt.Errorf("%w: base marker after separator at line %d", ErrMalformed, i+1)
			}
			hunk.Incoming = append(hunk.Incoming, line)
		}
	}

	if state != inText {
		return nil, fmt.Errorf("%w: conflict starting at line %d is not terminated", ErrMalformed, start)
	}
	flushText()
	return doc, nil
}

// unexpected rejects start and end markers inside the local or base section
func unexpected(line string, i int) error {
	if _, ok := isMarker(line, '<'); ok {
		return fmt.Errorf("%w: nested conflict start at line %d", ErrMalformed, i+1)
	}
	if _, ok := isMarker(line, '>'); ok {
		return fmt.Errorf("%w: conflict end without separator at line %d", ErrMalformed, i+1)
	}
	return nil
}

// Hunks returns the conflict hunks in file order
func (d *Document) Hunks() []*Hunk {
	var hunks []*Hunk
	for _, s := range d.Segments {
		if s.Hunk != nil {
			hunks = append(hunks, s.Hunk)
		}
	}
	return hunks
}

// Render reassembles the document with every hunk resolved under policy
func (d *Document) Render(p Policy) string {
	var lines []string
	for _, s := range d.Segments {
		if s.Hunk != nil {
			lines = append(lines, s.Hunk.Resolve(p)...)
			continue
		}
		lines = append(lines, s.Text...)
	}
	if len(lines) == 0 {
		return ""
	}
	out := strings.Join(lines, d.newline)
	if d.trailingNewline {
		out += d.newline
	}
	return out
}

// Resolve rewrites content with every conflict hunk resolved under policy
func Resolve(content string, p Policy) (string, error) {
	doc, err := Parse(content)
	if err != nil {
		return "", err
	}
	return doc.Render(p), nil
}

// HasMarkers reports whether content still contains a conflict start or end marker
func HasMarkers(content string) bool {
	lines, _, _ := splitLines(content)
	for _, line := range lines {
		if _, ok := isMarker(line, '<'); ok {
			return true
		}
		if _, ok := isMarker(line, '>'); ok {
			return true
		}
	}
	return false
}

// Count returns the number of conflict hunks in content
func Count(content string) (int, error) {
	doc, err := Parse(content)
	if err != nil {
		return 0, err
	}
	return len(doc.Hunks()), nil
}
