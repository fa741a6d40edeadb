package configfile

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/spf13/cast"

	"github.com/thoreinstein/groundwork/internal/deepmerge"
)

// normalize rewrites parser output into the loader's canonical shapes:
// map[string]any mappings, []any sequences and int64 integers. Equal
// documents in different formats normalize to equal values.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = normalize(child)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[keyString(k)] = normalize(child)
		}
		return out
	case []any:
		for i, child := range val {
			val[i] = normalize(child)
		}
		return val
	case deepmerge.Set:
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return normalizeUint(uint64(val))
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return normalizeUint(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}

func normalizeUint(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

// keyString renders a mapping key as a string. YAML permits non-string keys
// such as integers and booleans.
func keyString(k any) string {
	if s, err := cast.ToStringE(k); err == nil {
		return s
	}
	return fmt.Sprint(k)
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}
