package util

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseSourceFile represents a source file
type ParseSourceFile struct {
	Content string
	URL     string
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content: content,
		URL:     url,
	}
}

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation resolves a byte offset into a zero-based line and column.
// Offsets past the end of the content are clamped.
func NewParseLocation(file *ParseSourceFile, offset int) *ParseLocation {
	content := file.Content
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		return &ParseLocation{File: file, Offset: -1, Line: -1, Col: -1}
	}
	line := strings.Count(content[:offset], "\n")
	col := offset
	if i := strings.LastIndexByte(content[:offset], '\n'); i >= 0 {
		col = offset - i - 1
	}
	return &ParseLocation{File: file, Offset: offset, Line: line, Col: col}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// WarningMessage is a compiler diagnostic. Start and End are optional byte
// offsets into the source the message was produced for.
type WarningMessage struct {
	Msg   string `json:"msg" msgpack:"msg"`
	Start *int   `json:"start,omitempty" msgpack:"start,omitempty"`
	End   *int   `json:"end,omitempty" msgpack:"end,omitempty"`
}

// UnmarshalJSON accepts either a message object or a plain string, the
// form diagnostics without a range take in serialized descriptors.
func (w *WarningMessage) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var msg string
		if err := json.Unmarshal(b, &msg); err != nil {
			return err
		}
		*w = WarningMessage{Msg: msg}
		return nil
	}
	type plain WarningMessage
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*w = WarningMessage(p)
	return nil
}

// Shift returns a copy of w with its range moved by n bytes.
func (w WarningMessage) Shift(n int) WarningMessage {
	if w.Start != nil {
		start := *w.Start + n
		w.Start = &start
	}
	if w.End != nil {
		end := *w.End + n
		w.End = &end
	}
	return w
}

// NewWarning creates a WarningMessage without a source range.
func NewWarning(msg string) WarningMessage {
	return WarningMessage{Msg: msg}
}

// NewRangedWarning creates a WarningMessage spanning [start, end).
func NewRangedWarning(msg string, start, end int) WarningMessage {
	return WarningMessage{Msg: msg, Start: &start, End: &end}
}

// HasRange reports whether the message carries a start offset.
func (w WarningMessage) HasRange() bool {
	return w.Start != nil
}

// Error implements the error interface
func (w WarningMessage) Error() string {
	return w.Msg
}

// ContextualMessage returns the message followed by the code frame of its
// range within source, when it has one.
func (w WarningMessage) ContextualMessage(source string) string {
	if w.Start == nil {
		return w.Msg
	}
	end := len(source)
	if w.End != nil {
		end = *w.End
	}
	frame := GenerateCodeFrame(source, *w.Start, end)
	if frame == "" {
		return w.Msg
	}
	return w.Msg + "\n\n" + frame
}

// Location resolves the start offset against file.
func (w WarningMessage) Location(file *ParseSourceFile) *ParseLocation {
	if w.Start == nil {
		return NewParseLocation(file, -1)
	}
	return NewParseLocation(file, *w.Start)
}

const codeFrameRange = 2

var lineBreak = regexp.MustCompile(`\r?\n`)

// GenerateCodeFrame renders the lines of source around [start, end) with the
// range underlined by carets. Up to two lines of context are shown on each
// side; a range spanning several lines underlines every line it covers.
func GenerateCodeFrame(source string, start, end int) string {
	lines := lineBreak.Split(source, -1)
	count := 0
	var res []string
	for i := 0; i < len(lines); i++ {
		count += len(lines[i]) + 1
		if count < start {
			continue
		}
		for j := i - codeFrameRange; (j <= i+codeFrameRange || end > count) && j < len(lines); j++ {
			if j < 0 {
				continue
			}
			lineNo := fmt.Sprint(j + 1)
			res = append(res, lineNo+repeat(" ", 3-len(lineNo))+"|  "+lines[j])
			lineLength := len(lines[j])
			if j == i {
				pad := start - (count - lineLength) + 1
				length := end - start
				if end > count {
					length = lineLength - pad
				}
				res = append(res, "   |  "+repeat(" ", pad)+repeat("^", length))
			} else if j > i {
				if end > count {
					res = append(res, "   |  "+repeat("^", min(end-count, lineLength)))
				}
				count += lineLength + 1
			}
		}
		break
	}
	return strings.Join(res, "\n")
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
