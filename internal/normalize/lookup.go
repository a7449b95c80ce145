package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// foldKey canonicalizes a field label for matching: lowercased, inner and
// outer whitespace collapsed. "Vendor GSTIN " and "vendor gstin" fold equal.
func foldKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// lookup resolves the first alias that matches a populated field in raw.
// Exact label hits win; otherwise labels are compared folded, scanning map
// keys in sorted order so resolution stays deterministic. Nil and
// empty-string values do not count as matches.
func lookup(raw map[string]any, aliases []string) (any, bool) {
	for _, a := range aliases {
		if v, ok := raw[a]; ok && populated(v) {
			return v, true
		}
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, a := range aliases {
		fa := foldKey(a)
		for _, k := range keys {
			if foldKey(k) != fa {
				continue
			}
			if v := raw[k]; populated(v) {
				return v, true
			}
		}
	}
	return nil, false
}

func populated(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// asString renders an extracted value as trimmed text.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// rawString renders a value without trimming, for pre-normalization
// traceability fields.
func rawString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
