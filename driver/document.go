package driver

import (
	"strconv"
)

// --------------------------------------------------------------------------
// Element Definition
// --------------------------------------------------------------------------

// ElementType identifies the wire type of a document field.
type ElementType uint8

const (
	TypeNull     ElementType = iota // explicit null field
	TypeBool                        // boolean field
	TypeInt32                       // 32 bit integer field
	TypeDouble                      // 64 bit float field
	TypeString                      // UTF-8 text field
	TypeDocument                    // nested document
	TypeArray                       // nested document with positional keys
	TypeBinary                      // opaque bytes (no dynamic counterpart)
)

// String returns the string representation of an ElementType.
func (t ElementType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Element is a single field of a wire document. Which payload field is
// meaningful is determined by Type alone.
type Element struct {
	Key    string
	Type   ElementType
	Bool   bool
	Int32  int32
	Double float64
	Str    string
	Doc    Document // payload for TypeDocument and TypeArray
	Binary []byte
}

// --------------------------------------------------------------------------
// Document Definition
// --------------------------------------------------------------------------

// Document is the driver's native composite representation. It is produced
// exclusively through a DocumentBuilder and never modified afterwards.
type Document struct {
	elems []Element
}

// Len returns the number of fields.
func (d Document) Len() int {
	return len(d.elems)
}

// At returns the i-th field in append order.
func (d Document) At(i int) Element {
	return d.elems[i]
}

// Lookup returns the first field with the given key. The boolean return
// value indicates whether the key is present.
func (d Document) Lookup(key string) (Element, bool) {
	for _, e := range d.elems {
		if e.Key == key {
			return e, true
		}
	}
	return Element{}, false
}

// HasArrayShape reports whether the document exposes contiguous zero-based
// integer keys ("0", "1", ...) and could therefore be an array. The
// converter relies on exactly this heuristic to decide the shape of decoded
// results, so it must not be changed.
func (d Document) HasArrayShape() bool {
	for i, e := range d.elems {
		if e.Key != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Builder
// --------------------------------------------------------------------------

// DocumentBuilder assembles a Document in a single append pass. After
// Build() the builder is sealed and further appends panic; this enforces
// the build-once protocol of the wire format.
type DocumentBuilder struct {
	elems []Element
	built bool
}

// NewDocument creates a new empty DocumentBuilder.
func NewDocument() *DocumentBuilder {
	return &DocumentBuilder{}
}

func (b *DocumentBuilder) append(e Element) *DocumentBuilder {
	if b.built {
		panic("driver: append to a built document")
	}
	b.elems = append(b.elems, e)
	return b
}

// AppendNull appends an explicit null field.
func (b *DocumentBuilder) AppendNull(key string) *DocumentBuilder {
	return b.append(Element{Key: key, Type: TypeNull})
}

// AppendBool appends a boolean field.
func (b *DocumentBuilder) AppendBool(key string, v bool) *DocumentBuilder {
	return b.append(Element{Key: key, Type: TypeBool, Bool: v})
}

// AppendInt32 appends a 32 bit integer field.
func (b *DocumentBuilder) AppendInt32(key string, v int32) *DocumentBuilder {
	return b.append(Element{Key: key, Type: TypeInt32, Int32: v})
}

// AppendDouble appends a 64 bit float field.
func (b *DocumentBuilder) AppendDouble(key string, v float64) *DocumentBuilder {
	return b.append(Element{Key: key, Type: TypeDouble, Double: v})
}

// AppendString appends a text field.
func (b *DocumentBuilder) AppendString(key string, v string) *DocumentBuilder {
	return b.append(Element{Key: key, Type: TypeString, Str: v})
}

// AppendDocument appends a nested document field.
func (b *DocumentBuilder) AppendDocument(key string, v Document) *DocumentBuilder {
	return b.append(Element{Key: key, Type: TypeDocument, Doc: v})
}

// AppendArray appends a nested array field. The nested document is expected
// to carry positional keys ("0", "1", ...).
func (b *DocumentBuilder) AppendArray(key string, v Document) *DocumentBuilder {
	return b.append(Element{Key: key, Type: TypeArray, Doc: v})
}

// AppendBinary appends an opaque binary field.
func (b *DocumentBuilder) AppendBinary(key string, v []byte) *DocumentBuilder {
	buf := make([]byte, len(v))
	copy(buf, v)
	return b.append(Element{Key: key, Type: TypeBinary, Binary: buf})
}

// Build finalizes the document and seals the builder.
func (b *DocumentBuilder) Build() Document {
	if b.built {
		panic("driver: Build called twice")
	}
	b.built = true
	return Document{elems: b.elems}
}
