package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrNotText = errors.New("not valid UTF-8 text")

const maxLineSize = 512 * 1024

// ParseFile reads and parses the .env file at path. Any read failure is
// returned as an error; no partial result is produced.
func ParseFile(path string) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	lines, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

func Parse(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxLineSize)
	scanner.Buffer(buf, maxLineSize)

	var lines []Line
	num := 0
	for scanner.Scan() {
		num++
		text := scanner.Text()
		if !utf8.ValidString(text) {
			return nil, fmt.Errorf("line %d: %w", num, ErrNotText)
		}
		lines = append(lines, parseLine(text, num))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return lines, nil
}

// ParseString parses in-memory content. Lines are split on "\n" with a
// trailing "\r" removed, matching Parse.
func ParseString(s string) []Line {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]Line, 0, len(raw))
	for i, text := range raw {
		lines = append(lines, parseLine(strings.TrimSuffix(text, "\r"), i+1))
	}
	return lines
}

func parseLine(raw string, num int) Line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty{Num: num}
	}

	if strings.HasPrefix(trimmed, "#") {
		return Comment{Num: num, Text: trimmed}
	}

	content, comment := SplitInlineComment(trimmed)

	key, value, ok := strings.Cut(content, "=")
	if !ok {
		return Invalid{Num: num, Raw: trimmed}
	}

	if strings.TrimSpace(key) == "" || (strings.TrimSpace(value) == "" && comment == "") {
		return Invalid{Num: num, Raw: trimmed}
	}

	return KeyValue{
		Num:           num,
		Key:           key,
		Value:         value,
		InlineComment: comment,
		References:    ExtractReferences(content),
		HasExport:     strings.HasPrefix(trimmed, exportPrefix),
	}
}

// SplitInlineComment splits line at the first '#' that is neither escaped
// nor inside a quoted span. content is right-trimmed and comment, which
// keeps its '#', is trimmed. comment is empty when there is none.
func SplitInlineComment(line string) (content, comment string) {
	inQuote := false
	quoteChar := rune(0)
	escaped := false

	for i, c := range line {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"' || c == '\'':
			if !inQuote {
				inQuote = true
				quoteChar = c
			} else if c == quoteChar {
				inQuote = false
			}
		case c == '#' && !inQuote:
			return strings.TrimRightFunc(line[:i], isSpace), strings.TrimSpace(line[i:])
		}
	}

	return line, ""
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
