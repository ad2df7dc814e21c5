// Package chunker splits long markdown notes into upload-sized parts.
package chunker

import "strings"

const (
	// DefaultTargetSize is the preferred part size for remote uploads.
	DefaultTargetSize = 4000
	// DefaultMaxSize is the hard cap before a single-part note is split.
	DefaultMaxSize = 6000
)

// Options configures splitting behavior.
type Options struct {
	TargetSize int
	MaxSize    int
}

// DefaultOptions returns default splitting options.
func DefaultOptions() Options {
	return Options{TargetSize: DefaultTargetSize, MaxSize: DefaultMaxSize}
}

// Split breaks text into parts on markdown block boundaries. Text within
// the max size returns a single part.
func Split(text string, opts Options) []string {
	if opts.TargetSize == 0 {
		opts = DefaultOptions()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= opts.MaxSize {
		return []string{text}
	}

	return merge(blocks(text), opts)
}

// blocks splits text on heading lines and blank-line gaps.
func blocks(text string) []string {
	lines := strings.Split(text, "\n")
	var out []string
	var current []string

	flush := func() {
		t := strings.TrimSpace(strings.Join(current, "\n"))
		if t != "" {
			out = append(out, t)
		}
		current = nil
	}

	prevEmpty := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") && len(current) > 0 {
			flush()
		}
		if trimmed == "" {
			if prevEmpty && len(current) > 0 {
				flush()
			}
			prevEmpty = true
			current = append(current, line)
			continue
		}
		prevEmpty = false
		current = append(current, line)
	}
	flush()
	return out
}

// merge packs blocks up to the target size, hard-splitting any single
// block that exceeds the max on line boundaries.
func merge(bs []string, opts Options) []string {
	var parts []string
	accum := ""

	flush := func() {
		t := strings.TrimSpace(accum)
		if t == "" {
			accum = ""
			return
		}
		if len(t) > opts.MaxSize {
			parts = append(parts, hardSplit(t, opts.TargetSize)...)
		} else {
			parts = append(parts, t)
		}
		accum = ""
	}

	for _, b := range bs {
		if accum == "" {
			accum = b
			continue
		}
		if len(accum)+len(b)+2 <= opts.TargetSize {
			accum += "\n\n" + b
		} else {
			flush()
			accum = b
		}
	}
	flush()
	return parts
}

// hardSplit breaks oversized text on line boundaries near the target size.
func hardSplit(text string, target int) []string {
	var parts []string
	var current []string
	curLen := 0

	for _, line := range strings.Split(text, "\n") {
		if curLen+len(line) > target && len(current) > 0 {
			if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
				parts = append(parts, t)
			}
			current = nil
			curLen = 0
		}
		current = append(current, line)
		curLen += len(line) + 1
	}
	if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
		parts = append(parts, t)
	}
	return parts
}
