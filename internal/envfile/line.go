package envfile

import "strings"

const exportPrefix = "export "

// Line is one parsed physical line of a .env file. The set of
// implementations is closed: Empty, Comment, KeyValue and Invalid.
type Line interface {
	Line() int
	isLine()
}

type Empty struct {
	Num int
}

type Comment struct {
	Num  int
	Text string
}

type KeyValue struct {
	Num           int
	Key           string
	Value         string
	InlineComment string
	References    []string
	HasExport     bool
}

type Invalid struct {
	Num int
	Raw string
}

func (l Empty) Line() int    { return l.Num }
func (l Comment) Line() int  { return l.Num }
func (l KeyValue) Line() int { return l.Num }
func (l Invalid) Line() int  { return l.Num }

func (Empty) isLine()    {}
func (Comment) isLine()  {}
func (KeyValue) isLine() {}
func (Invalid) isLine()  {}

// Name returns the key without a leading export prefix and surrounding
// whitespace.
func (kv KeyValue) Name() string {
	key := kv.Key
	if kv.HasExport {
		key = strings.TrimPrefix(key, exportPrefix)
	}
	return strings.TrimSpace(key)
}

func (kv KeyValue) HasInlineComment() bool {
	return kv.InlineComment != ""
}

// Keys returns the names of all key/value lines in file order.
func Keys(lines []Line) []string {
	var keys []string
	for _, l := range lines {
		if kv, ok := l.(KeyValue); ok {
			keys = append(keys, kv.Name())
		}
	}
	return keys
}

// KeySet returns the names of all key/value lines as a set.
func KeySet(lines []Line) map[string]bool {
	set := make(map[string]bool)
	for _, key := range Keys(lines) {
		set[key] = true
	}
	return set
}

func ContainsSpace(s string) bool {
	return strings.IndexFunc(s, isSpace) >= 0
}
