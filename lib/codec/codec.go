package codec

import (
	"fmt"
	"strconv"

	"github.com/ValentinKolb/mongoBridge/driver"
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
)

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Encode converts a composite dynamic value into a wire document. The root
// must be a sequence or a mapping; any other kind is an error. Nested kinds
// the wire format does not know are skipped silently.
func Encode(v dynval.Value) (driver.Document, error) {
	switch v.Kind() {
	case dynval.KindMapping:
		return encodeMapping(v), nil
	case dynval.KindSequence:
		return encodeSequence(v), nil
	default:
		return driver.Document{}, fmt.Errorf("codec: cannot encode %s at the document root, need a sequence or mapping", v.Kind())
	}
}

// encodeMapping turns each mapping entry into a named field.
func encodeMapping(v dynval.Value) driver.Document {
	b := driver.NewDocument()
	for _, key := range v.Keys() {
		val, _ := v.Get(key)
		encodeField(b, key, val)
	}
	return b.Build()
}

// encodeSequence turns each element into a positional field.
func encodeSequence(v dynval.Value) driver.Document {
	b := driver.NewDocument()
	for i := 0; i < v.Len(); i++ {
		encodeField(b, strconv.Itoa(i), v.Index(i))
	}
	return b.Build()
}

func encodeField(b *driver.DocumentBuilder, key string, v dynval.Value) {
	switch v.Kind() {
	case dynval.KindNull:
		b.AppendNull(key)
	case dynval.KindBool:
		b.AppendBool(key, v.Bool())
	case dynval.KindInt:
		b.AppendInt32(key, v.Int())
	case dynval.KindDouble:
		b.AppendDouble(key, v.Double())
	case dynval.KindString:
		b.AppendString(key, v.Str())
	case dynval.KindSequence:
		b.AppendArray(key, encodeSequence(v))
	case dynval.KindMapping:
		b.AppendDocument(key, encodeMapping(v))
	default:
		// unrecognized kinds are dropped silently (lenient legacy policy)
	}
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// Decode converts a wire document back into a dynamic value, keyed off each
// wire element's own type tag. The document shape is chosen by the array
// heuristic: contiguous zero-based integer keys decode to a sequence,
// anything else to a mapping. Wire types without a dynamic counterpart are
// dropped silently.
func Decode(doc driver.Document) dynval.Value {
	if doc.HasArrayShape() {
		elems := make([]dynval.Value, 0, doc.Len())
		for i := 0; i < doc.Len(); i++ {
			if val, ok := decodeElement(doc.At(i)); ok {
				elems = append(elems, val)
			}
		}
		return dynval.Sequence(elems...)
	}

	members := make([]dynval.Member, 0, doc.Len())
	for i := 0; i < doc.Len(); i++ {
		e := doc.At(i)
		if val, ok := decodeElement(e); ok {
			members = append(members, dynval.M(e.Key, val))
		}
	}
	return dynval.Mapping(members...)
}

// decodeElement converts one wire element. The boolean return value is
// false for wire types the dynamic representation cannot express.
func decodeElement(e driver.Element) (dynval.Value, bool) {
	switch e.Type {
	case driver.TypeNull:
		return dynval.Null(), true
	case driver.TypeBool:
		return dynval.Bool(e.Bool), true
	case driver.TypeInt32:
		return dynval.Int(e.Int32), true
	case driver.TypeDouble:
		return dynval.Double(e.Double), true
	case driver.TypeString:
		return dynval.String(e.Str), true
	case driver.TypeDocument, driver.TypeArray:
		return Decode(e.Doc), true
	default:
		// binary and future wire types have no dynamic counterpart
		return dynval.Value{}, false
	}
}
