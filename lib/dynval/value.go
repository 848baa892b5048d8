package dynval

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Kind Definition
// --------------------------------------------------------------------------

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull     Kind = iota // null value (also the zero Value)
	KindBool                 // boolean
	KindInt                  // 32 bit signed integer
	KindDouble               // 64 bit float
	KindString               // UTF-8 text
	KindSequence             // ordered list of Values
	KindMapping              // string-keyed collection of Values
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// IsComposite returns true for sequence and mapping kinds.
func (k Kind) IsComposite() bool {
	return k == KindSequence || k == KindMapping
}

// --------------------------------------------------------------------------
// Value Definition
// --------------------------------------------------------------------------

// Value is a tagged variant. The zero Value is null.
//
// Values are immutable: all constructors copy composite inputs, and no
// method mutates the receiver.
type Value struct {
	kind    Kind
	boolVal bool
	intVal  int32
	dblVal  float64
	strVal  string
	seqVal  []Value
	mapKeys []string // insertion order of mapping keys
	mapVals map[string]Value
}

// Member is a single key/value entry used to construct mappings.
type Member struct {
	Key   string
	Value Value
}

// M is a shorthand constructor for a mapping Member.
func M(key string, value Value) Member {
	return Member{Key: key, Value: value}
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// Int returns an integer Value. The wire format carries 32 bit integers,
// so that is the width the dynamic type stores.
func Int(i int32) Value {
	return Value{kind: KindInt, intVal: i}
}

// Double returns a 64 bit float Value. Floats are never rounded.
func Double(f float64) Value {
	return Value{kind: KindDouble, dblVal: f}
}

// String returns a text Value.
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// Sequence returns an ordered sequence Value. The elements are copied,
// element order is significant.
func Sequence(elems ...Value) Value {
	seq := make([]Value, len(elems))
	copy(seq, elems)
	return Value{kind: KindSequence, seqVal: seq}
}

// Mapping returns a mapping Value built from the given members. Keys are
// unique: a later member with an already present key overwrites the value
// but keeps the original key position, so iteration order stays stable.
func Mapping(members ...Member) Value {
	keys := make([]string, 0, len(members))
	vals := make(map[string]Value, len(members))
	for _, m := range members {
		if _, ok := vals[m.Key]; !ok {
			keys = append(keys, m.Key)
		}
		vals[m.Key] = m.Value
	}
	return Value{kind: KindMapping, mapKeys: keys, mapVals: vals}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Kind returns the tag of the Value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true if the Value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean payload, or false for non-bool Values.
func (v Value) Bool() bool {
	return v.boolVal
}

// Int returns the integer payload, or 0 for non-int Values.
func (v Value) Int() int32 {
	return v.intVal
}

// Double returns the float payload, or 0 for non-double Values.
func (v Value) Double() float64 {
	return v.dblVal
}

// Str returns the text payload, or "" for non-string Values.
func (v Value) Str() string {
	return v.strVal
}

// Len returns the number of elements of a sequence or mapping, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seqVal)
	case KindMapping:
		return len(v.mapKeys)
	default:
		return 0
	}
}

// Index returns the i-th element of a sequence. It returns the null Value
// for out-of-range indices or non-sequence Values.
func (v Value) Index(i int) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.seqVal) {
		return Value{}
	}
	return v.seqVal[i]
}

// Keys returns the mapping keys in insertion order. The returned slice is
// a copy and may be retained by the caller.
func (v Value) Keys() []string {
	keys := make([]string, len(v.mapKeys))
	copy(keys, v.mapKeys)
	return keys
}

// Get returns the mapping value for a key. The boolean return value
// indicates whether the key is present.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	val, ok := v.mapVals[key]
	return val, ok
}

// --------------------------------------------------------------------------
// Equality
// --------------------------------------------------------------------------

// Equal reports semantic equality: scalar equality per kind, element-wise
// equality in order for sequences, and key-set plus per-key equality for
// mappings (key order is not significant).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindInt:
		return v.intVal == other.intVal
	case KindDouble:
		return v.dblVal == other.dblVal
	case KindString:
		return v.strVal == other.strVal
	case KindSequence:
		if len(v.seqVal) != len(other.seqVal) {
			return false
		}
		for i := range v.seqVal {
			if !v.seqVal[i].Equal(other.seqVal[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.mapKeys) != len(other.mapKeys) {
			return false
		}
		for key, val := range v.mapVals {
			otherVal, ok := other.mapVals[key]
			if !ok || !val.Equal(otherVal) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Debug Representation
// --------------------------------------------------------------------------

// String returns a compact, JSON-like representation for logging and tests.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.boolVal))
	case KindInt:
		sb.WriteString(strconv.FormatInt(int64(v.intVal), 10))
	case KindDouble:
		sb.WriteString(strconv.FormatFloat(v.dblVal, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.strVal))
	case KindSequence:
		sb.WriteString("[")
		for i, elem := range v.seqVal {
			if i > 0 {
				sb.WriteString(",")
			}
			elem.write(sb)
		}
		sb.WriteString("]")
	case KindMapping:
		sb.WriteString("{")
		for i, key := range v.mapKeys {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(strconv.Quote(key))
			sb.WriteString(":")
			val := v.mapVals[key]
			val.write(sb)
		}
		sb.WriteString("}")
	default:
		fmt.Fprintf(sb, "<%s>", v.kind)
	}
}
