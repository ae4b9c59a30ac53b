package audiotags

import (
	"fmt"
	"slices"
	"strconv"
)

// normalize turns whatever shape a codec returns into a Value.
//
// Strings become singletons, string slices are copied, numbers and
// Stringers are rendered, byte slices are taken as text. Bytes that are not
// valid UTF-8 are passed through unchanged rather than rejected.
func normalize(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return Value{v}
	case Value:
		return v.Clone()
	case []string:
		return slices.Clone(v)
	case []byte:
		return Value{string(v)}
	case int:
		return Value{strconv.Itoa(v)}
	case int64:
		return Value{strconv.FormatInt(v, 10)}
	case uint32:
		return Value{strconv.FormatUint(uint64(v), 10)}
	case uint64:
		return Value{strconv.FormatUint(v, 10)}
	case float64:
		return Value{strconv.FormatFloat(v, 'f', -1, 64)}
	case bool:
		return Value{strconv.FormatBool(v)}
	case fmt.Stringer:
		return Value{v.String()}
	case []any:
		var out Value
		for _, elem := range v {
			out = append(out, normalize(elem)...)
		}
		return out
	default:
		return Value{fmt.Sprint(v)}
	}
}
