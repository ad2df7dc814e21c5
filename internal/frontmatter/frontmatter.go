// Package frontmatter reads and writes the flat key:value metadata block
// used by memnet markdown files.
package frontmatter

import (
	"encoding/json"
	"strings"
)

const fence = "---"

// Field is a single key: value pair. Order is preserved so a rewrite
// only touches the fields it means to.
type Field struct {
	Key   string
	Value string
}

// Doc is a parsed markdown file: an optional metadata block plus the body.
type Doc struct {
	Fields []Field
	Body   string
}

// Parse splits content into frontmatter fields and body. A file without a
// leading fence is legal: the whole content becomes the body.
func Parse(content string) *Doc {
	d := &Doc{Body: content}

	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != fence {
		return d
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == fence {
			end = i
			break
		}
	}
	if end < 0 {
		return d
	}

	body := strings.Join(lines[end+1:], "\n")
	d.Body = strings.TrimPrefix(body, "\n")
	for _, line := range lines[1:end] {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		d.Fields = append(d.Fields, Field{Key: key, Value: val})
	}
	return d
}

// Get returns the value for key, or "" if absent.
func (d *Doc) Get(key string) string {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Set updates the value for key in place, appending the field if absent.
func (d *Doc) Set(key, value string) {
	for i, f := range d.Fields {
		if f.Key == key {
			d.Fields[i].Value = value
			return
		}
	}
	d.Fields = append(d.Fields, Field{Key: key, Value: value})
}

// GetJSON decodes the value for key into out. Missing or malformed values
// are tolerated: out is left untouched and no error is returned.
func (d *Doc) GetJSON(key string, out any) {
	v := d.Get(key)
	if v == "" {
		return
	}
	json.Unmarshal([]byte(v), out)
}

// SetJSON encodes v as single-line JSON and stores it under key.
func (d *Doc) SetJSON(key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	d.Set(key, string(b))
}

// Render serializes the document back to markdown text. A document with
// no fields renders as the bare body.
func (d *Doc) Render() string {
	if len(d.Fields) == 0 {
		return d.Body
	}

	var b strings.Builder
	b.WriteString(fence + "\n")
	for _, f := range d.Fields {
		b.WriteString(f.Key + ": " + f.Value + "\n")
	}
	b.WriteString(fence + "\n\n")
	b.WriteString(d.Body)
	return b.String()
}

// IsTrue reports whether a frontmatter or metadata value represents a
// boolean true. Older files stored the flag as the string "true"; both
// encodings are accepted.
func IsTrue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}
