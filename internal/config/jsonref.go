package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const jsonMarkerPrefix = "%{JSON:"

var jsonRefPattern = regexp.MustCompile(`%\{JSON:([^}]*)\}`)

// ResolveJSONRefs rewrites every string value containing %{JSON:path}
// markers, walking nested objects but not lists.
func ResolveJSONRefs(cfg Config) error {
	return rewriteObject(cfg, cfg, "")
}

func rewriteObject(root, obj map[string]any, prefix string) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if !strings.Contains(v, jsonMarkerPrefix) {
				continue
			}
			expanded, err := expandRefs(root, v)
			if err != nil {
				return fmt.Errorf("%w: key '%s%s': %w", ErrConfigParse, prefix, k, err)
			}
			obj[k] = expanded
		case map[string]any:
			if err := rewriteObject(root, v, prefix+k+"."); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandRefs replaces each marker in s with the formatted value found at
// its path, keeping the literal text around it.
func expandRefs(root map[string]any, s string) (string, error) {
	var b strings.Builder
	last := 0
	for _, m := range jsonRefPattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:m[0]])
		path := s[m[2]:m[3]]
		v, err := Lookup(root, path)
		if err != nil {
			return "", err
		}
		formatted, err := formatValue(v)
		if err != nil {
			return "", err
		}
		b.WriteString(formatted)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// Lookup walks a dotted path through nested objects. Numeric segments index
// into lists.
func Lookup(root map[string]any, path string) (any, error) {
	var cur any = root
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("unresolved reference %q: no key %q", path, seg)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("unresolved reference %q: bad index %q", path, seg)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("unresolved reference %q: %q is not a container", path, seg)
		}
	}
	return cur, nil
}

func formatValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case nil:
		return "null", nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
