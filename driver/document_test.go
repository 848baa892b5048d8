package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentBuilder(t *testing.T) {
	doc := NewDocument().
		AppendString("name", "alice").
		AppendInt32("age", 30).
		AppendBool("active", true).
		AppendDouble("score", 1.5).
		AppendNull("note").
		Build()

	assert.Equal(t, 5, doc.Len())

	elem, found := doc.Lookup("age")
	require.True(t, found)
	assert.Equal(t, TypeInt32, elem.Type)
	assert.EqualValues(t, 30, elem.Int32)

	_, found = doc.Lookup("missing")
	assert.False(t, found)

	// field order is preserved
	assert.Equal(t, "name", doc.At(0).Key)
	assert.Equal(t, "note", doc.At(4).Key)
}

func TestDocumentBuilderNested(t *testing.T) {
	inner := NewDocument().AppendInt32("x", 1).Build()
	arr := NewDocument().
		AppendString("0", "a").
		AppendString("1", "b").
		Build()

	doc := NewDocument().
		AppendDocument("inner", inner).
		AppendArray("tags", arr).
		Build()

	elem, found := doc.Lookup("inner")
	require.True(t, found)
	assert.Equal(t, TypeDocument, elem.Type)
	assert.Equal(t, 1, elem.Doc.Len())

	elem, found = doc.Lookup("tags")
	require.True(t, found)
	assert.Equal(t, TypeArray, elem.Type)
	assert.True(t, elem.Doc.HasArrayShape())
}

func TestDocumentBuilderSealedAfterBuild(t *testing.T) {
	b := NewDocument().AppendInt32("n", 1)
	b.Build()

	assert.Panics(t, func() { b.AppendInt32("m", 2) })
	assert.Panics(t, func() { b.Build() })
}

func TestHasArrayShape(t *testing.T) {
	build := func(keys ...string) Document {
		b := NewDocument()
		for _, k := range keys {
			b.AppendInt32(k, 0)
		}
		return b.Build()
	}

	tests := []struct {
		name string
		doc  Document
		want bool
	}{
		{name: "contiguous from zero", doc: build("0", "1", "2"), want: true},
		{name: "empty document", doc: build(), want: true},
		{name: "gap", doc: build("0", "2"), want: false},
		{name: "not zero based", doc: build("1", "2"), want: false},
		{name: "out of order", doc: build("1", "0"), want: false},
		{name: "leading zero", doc: build("00"), want: false},
		{name: "named keys", doc: build("a", "b"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.HasArrayShape())
		})
	}
}
