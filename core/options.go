package core

import (
	"fmt"
	"sort"
	"strings"
)

// Options is the renderer option bag read from the pdf_option section of
// the configuration. Keys follow wkhtmltopdf naming (page-size,
// margin-top, custom-header, ...). Values are either scalars, nil for
// bare flags, or lists of [name, value] pairs.
type Options map[string]any

// Pair is one entry of a list-of-pairs option such as custom-header.
type Pair struct {
	Name  string
	Value string
}

// String returns a scalar option as text. Lists, maps and nil values
// report ok=false.
func (o Options) String(key string) (string, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v), true
	case []any, map[string]any:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// Flag reports whether a bare option is switched on. A key present with a
// nil value (no-outline: null) counts as set, as does any truthy scalar.
func (o Options) Flag(key string) bool {
	v, ok := o[key]
	if !ok {
		return false
	}
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "true", "yes", "on", "1":
			return true
		}
		return false
	default:
		return true
	}
}

// Pairs returns a list-of-pairs option. Both [[name, value], ...] and the
// mapping form {name: value} are accepted; the mapping form is returned in
// key order.
func (o Options) Pairs(key string) ([]Pair, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}

	switch v := v.(type) {
	case []any:
		pairs := make([]Pair, 0, len(v))
		for i, item := range v {
			tuple, ok := item.([]any)
			if !ok || len(tuple) != 2 {
				return nil, fmt.Errorf("option %s: entry %d is not a [name, value] pair", key, i)
			}
			pairs = append(pairs, Pair{Name: fmt.Sprint(tuple[0]), Value: fmt.Sprint(tuple[1])})
		}
		return pairs, nil
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]Pair, 0, len(v))
		for _, name := range names {
			pairs = append(pairs, Pair{Name: name, Value: fmt.Sprint(v[name])})
		}
		return pairs, nil
	default:
		return nil, fmt.Errorf("option %s: expected a list of pairs, got %T", key, v)
	}
}
