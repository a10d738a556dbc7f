package suppliers

import (
	"encoding/json"
	"strconv"
	"strings"

	"hotels_merge/internal/domain"
)

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "". Non-string values count as absent.
func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return s
	}
	return ""
}

// stringify renders a scalar the way it appeared in the payload.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// truthyStr stringifies the value at path, or returns "" for missing, empty,
// zero and false values.
func truthyStr(m map[string]any, path string) string {
	switch t := lookupAny(m, path).(type) {
	case nil:
		return ""
	case bool:
		if !t {
			return ""
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	}
	return stringify(lookupAny(m, path))
}

// intNumber reads a JSON number at path; anything else is 0.
func intNumber(m map[string]any, path string) int {
	switch t := lookupAny(m, path).(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(t)
	case int:
		return t
	}
	return 0
}

// intFlexible is intNumber that also accepts numeric strings.
func intFlexible(m map[string]any, path string) int {
	if s, ok := lookupAny(m, path).(string); ok {
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	}
	return intNumber(m, path)
}

// stringList reads a list of scalars at path; objects and nulls are skipped.
func stringList(m map[string]any, path string) []string {
	raw, ok := lookupAny(m, path).([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		switch it.(type) {
		case nil, map[string]any, []any:
			continue
		}
		out = append(out, stringify(it))
	}
	return out
}

// uniqueStrings drops exact duplicates, keeping first occurrences.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// images maps a list of {linkKey, descKey} objects at path into canonical images.
func images(m map[string]any, path, linkKey, descKey string) []domain.Image {
	raw, ok := lookupAny(m, path).([]any)
	if !ok {
		return []domain.Image{}
	}
	out := make([]domain.Image, 0, len(raw))
	for _, it := range raw {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, domain.Image{
			Link:        lookupStr(obj, linkKey),
			Description: lookupStr(obj, descKey),
		})
	}
	return out
}
