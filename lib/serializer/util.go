package serializer

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/ValentinKolb/mongoBridge/lib/dynval"
)

// --------------------------------------------------------------------------
// Dynamic Value <-> Native Go Value Translation
// --------------------------------------------------------------------------

// toNative converts a dynamic value into the native Go representation the
// encoding libraries understand (nil, bool, int32, float64, string, []any,
// map[string]any).
func toNative(v dynval.Value) any {
	switch v.Kind() {
	case dynval.KindNull:
		return nil
	case dynval.KindBool:
		return v.Bool()
	case dynval.KindInt:
		return v.Int()
	case dynval.KindDouble:
		return v.Double()
	case dynval.KindString:
		return v.Str()
	case dynval.KindSequence:
		elems := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			elems = append(elems, toNative(v.Index(i)))
		}
		return elems
	case dynval.KindMapping:
		m := make(map[string]any, v.Len())
		for _, key := range v.Keys() {
			val, _ := v.Get(key)
			m[key] = toNative(val)
		}
		return m
	default:
		return nil
	}
}

// fromNative converts a decoded native Go value into a dynamic value. The
// boolean return value is false for native types without a counterpart;
// such values are dropped silently inside composites.
func fromNative(x any) (dynval.Value, bool) {
	switch n := x.(type) {
	case nil:
		return dynval.Null(), true
	case bool:
		return dynval.Bool(n), true
	case string:
		return dynval.String(n), true
	case float32:
		return dynval.Double(float64(n)), true
	case float64:
		return dynval.Double(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return intValue(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return dynval.Value{}, false
		}
		return dynval.Double(f), true
	case int:
		return intValue(int64(n)), true
	case int8:
		return dynval.Int(int32(n)), true
	case int16:
		return dynval.Int(int32(n)), true
	case int32:
		return dynval.Int(n), true
	case int64:
		return intValue(n), true
	case uint:
		return uintValue(uint64(n)), true
	case uint8:
		return dynval.Int(int32(n)), true
	case uint16:
		return dynval.Int(int32(n)), true
	case uint32:
		return uintValue(uint64(n)), true
	case uint64:
		return uintValue(n), true
	case []any:
		elems := make([]dynval.Value, 0, len(n))
		for _, e := range n {
			if val, ok := fromNative(e); ok {
				elems = append(elems, val)
			}
		}
		return dynval.Sequence(elems...), true
	case map[string]any:
		return mappingFromNative(stringKeyed(n)), true
	case map[any]any:
		// CBOR and YAML may decode maps with untyped keys; only string
		// keys survive
		m := make(map[string]any, len(n))
		for k, val := range n {
			if key, ok := k.(string); ok {
				m[key] = val
			}
		}
		return mappingFromNative(stringKeyed(m)), true
	default:
		return dynval.Value{}, false
	}
}

// intValue narrows an integer to the 32 bit wire width, falling back to a
// double for out-of-range values so no magnitude is lost.
func intValue(i int64) dynval.Value {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return dynval.Int(int32(i))
	}
	return dynval.Double(float64(i))
}

func uintValue(u uint64) dynval.Value {
	if u <= math.MaxInt32 {
		return dynval.Int(int32(u))
	}
	return dynval.Double(float64(u))
}

// stringKeyed returns the map keys in sorted order so deserialization is
// deterministic regardless of Go map iteration.
func stringKeyed(m map[string]any) ([]string, map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, m
}

func mappingFromNative(keys []string, m map[string]any) dynval.Value {
	members := make([]dynval.Member, 0, len(keys))
	for _, key := range keys {
		if val, ok := fromNative(m[key]); ok {
			members = append(members, dynval.M(key, val))
		}
	}
	return dynval.Mapping(members...)
}

// decodeInto is the shared tail of all Deserialize implementations.
func decodeInto(x any, v *dynval.Value) error {
	val, ok := fromNative(x)
	if !ok {
		return fmt.Errorf("serializer: cannot represent %T as a dynamic value", x)
	}
	*v = val
	return nil
}
