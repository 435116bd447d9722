package a2ui

import (
	"strconv"
	"strings"
)

// Property cells arrive in several interchangeable shapes: a raw literal, a
// typed-literal wrapper ({literalString: ...} and friends), or a bound
// reference ({path: ...}) into the surface's data model. The resolvers
// below accept any of them and always produce a scalar of the expected
// kind, falling back to the kind's zero value rather than failing.

// ResolvePath makes a property path absolute with respect to the base path
// of the enclosing scope (a template instance's element, or "/" at the top
// level).
//
// Authors inside a template write paths both as if scoped ("/name" meaning
// "this element's name") and fully qualified, so a leading slash alone
// cannot be trusted to mean absolute: only a path that already carries the
// base path as a prefix is left alone.
func ResolvePath(path, basePath string) string {
	if basePath == "" || basePath == "/" {
		return path
	}
	if strings.HasPrefix(path, basePath) {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return basePath + path
	}
	return basePath + "/" + path
}

// ResolveString resolves cell to a string, or "" when it can't.
func ResolveString(cell any, store *ReactiveStore, basePath string) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if lit, ok := v["literalString"].(string); ok {
			return lit
		}
		if path, ok := v["path"].(string); ok {
			return stringify(store.Get(ResolvePath(path, basePath)))
		}
	}
	return ""
}

// ResolveBool resolves cell to a bool, or false when it can't. Bound values
// follow truthiness: anything but nil, false, "" and 0 is true.
func ResolveBool(cell any, store *ReactiveStore, basePath string) bool {
	switch v := cell.(type) {
	case nil:
		return false
	case bool:
		return v
	case map[string]any:
		if lit, ok := v["literalBoolean"].(bool); ok {
			return lit
		}
		if path, ok := v["path"].(string); ok {
			return truthy(store.Get(ResolvePath(path, basePath)))
		}
	}
	return false
}

// ResolveNumber resolves cell to a number, or 0 when it can't. Bound values
// must already be numbers; no parsing of numeric strings.
func ResolveNumber(cell any, store *ReactiveStore, basePath string) float64 {
	switch v := cell.(type) {
	case nil:
		return 0
	case float64:
		return v
	case int:
		return float64(v)
	case map[string]any:
		if lit, ok := numeric(v["literalNumber"]); ok {
			return lit
		}
		if path, ok := v["path"].(string); ok {
			if n, ok := numeric(store.Get(ResolvePath(path, basePath))); ok {
				return n
			}
		}
	}
	return 0
}

// stringify renders a bound value for display. nil maps to "", numbers drop
// a trailing ".0" so integral floats read naturally.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	default:
		// objects and arrays
		return true
	}
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
