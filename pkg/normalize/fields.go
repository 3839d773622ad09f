package normalize

import (
	"strconv"
	"strings"
)

// Palette is the set of colors derived for categories and tags that come
// without one
var Palette = [8]string{
	"#3B82F6",
	"#10B981",
	"#F59E0B",
	"#EF4444",
	"#8B5CF6",
	"#EC4899",
	"#06B6D4",
	"#84CC16",
}

// ColorFor returns the palette entry at the sum of name's code points
// modulo the palette size. The mapping never changes between runs.
func ColorFor(name string) string {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return Palette[sum%len(Palette)]
}

// ParseTags accepts a JSON array of strings or a Postgres array literal
// such as "{fastn,api, testing}". Entries are trimmed and empty ones
// dropped. The result is never nil.
func ParseTags(v interface{}) []string {
	tags := []string{}

	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				tags = appendTag(tags, s)
			}
		}
	case []string:
		for _, s := range t {
			tags = appendTag(tags, s)
		}
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "{")
		s = strings.TrimSuffix(s, "}")
		for _, part := range strings.Split(s, ",") {
			tags = appendTag(tags, strings.Trim(strings.TrimSpace(part), `"`))
		}
	}
	return tags
}

func appendTag(tags []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return tags
	}
	return append(tags, s)
}

// str returns the first present field among keys rendered as a string.
// Numeric ids are written without a fractional part.
func (r Record) str(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

func (r Record) strOr(def string, keys ...string) string {
	if s := r.str(keys...); s != "" {
		return s
	}
	return def
}

// count reads a non-negative integer counter
func (r Record) count(keys ...string) int {
	for _, k := range keys {
		switch v := r[k].(type) {
		case float64:
			if v < 0 {
				return 0
			}
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
				return n
			}
		}
	}
	return 0
}

func (r Record) flag(keys ...string) bool {
	for _, k := range keys {
		switch v := r[k].(type) {
		case bool:
			return v
		case string:
			b, err := strconv.ParseBool(v)
			if err == nil {
				return b
			}
		case float64:
			return v != 0
		}
	}
	return false
}

// raw returns the first non-null value among keys
func (r Record) raw(keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
