package dynval

import (
	"testing"
)

// TestZeroValueIsNull tests that the zero Value behaves like an explicit null
func TestZeroValueIsNull(t *testing.T) {
	var zero Value

	if zero.Kind() != KindNull {
		t.Errorf("zero Value has kind %s, expected null", zero.Kind())
	}
	if !zero.IsNull() {
		t.Error("zero Value is not null")
	}
	if !zero.Equal(Null()) {
		t.Error("zero Value is not equal to Null()")
	}
}

// TestScalarAccessors tests that each accessor returns the payload for its
// own kind and the zero value for every other kind
func TestScalarAccessors(t *testing.T) {
	testCases := []struct {
		name  string
		value Value
		kind  Kind
	}{
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"int", Int(42), KindInt},
		{"double", Double(3.25), KindDouble},
		{"string", String("hello"), KindString},
		{"sequence", Sequence(Int(1)), KindSequence},
		{"mapping", Mapping(M("a", Int(1))), KindMapping},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.value.Kind() != tc.kind {
				t.Fatalf("kind mismatch: expected %s, got %s", tc.kind, tc.value.Kind())
			}

			if got := tc.value.Bool(); got != (tc.kind == KindBool) {
				t.Errorf("Bool() = %v", got)
			}
			if got := tc.value.Int(); (got != 0) != (tc.kind == KindInt) {
				t.Errorf("Int() = %v", got)
			}
			if got := tc.value.Double(); (got != 0) != (tc.kind == KindDouble) {
				t.Errorf("Double() = %v", got)
			}
			if got := tc.value.Str(); (got != "") != (tc.kind == KindString) {
				t.Errorf("Str() = %q", got)
			}
		})
	}
}

// TestMappingOrderAndUniqueness tests insertion order iteration and the
// last-write-wins rule for duplicate keys
func TestMappingOrderAndUniqueness(t *testing.T) {
	m := Mapping(
		M("b", Int(1)),
		M("a", Int(2)),
		M("b", Int(3)),
	)

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected key order: %v", keys)
	}

	val, ok := m.Get("b")
	if !ok || val.Int() != 3 {
		t.Errorf("duplicate key did not overwrite: got %v (found %v)", val, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", m.Len())
	}
}

// TestSequenceIndex tests element access and out-of-range behavior
func TestSequenceIndex(t *testing.T) {
	seq := Sequence(String("x"), String("y"))

	if seq.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", seq.Len())
	}
	if seq.Index(1).Str() != "y" {
		t.Errorf("Index(1) = %v", seq.Index(1))
	}
	if !seq.Index(2).IsNull() || !seq.Index(-1).IsNull() {
		t.Error("out-of-range Index() should return null")
	}
}

// TestEqual tests semantic equality across kinds
func TestEqual(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"null vs null", Null(), Null(), true},
		{"null vs bool", Null(), Bool(false), false},
		{"same int", Int(7), Int(7), true},
		{"different int", Int(7), Int(8), false},
		{"int vs double", Int(7), Double(7), false},
		{"same string", String("a"), String("a"), true},
		{
			"sequence order significant",
			Sequence(Int(1), Int(2)),
			Sequence(Int(2), Int(1)),
			false,
		},
		{
			"mapping key order ignored",
			Mapping(M("a", Int(1)), M("b", Int(2))),
			Mapping(M("b", Int(2)), M("a", Int(1))),
			true,
		},
		{
			"nested composites",
			Mapping(M("list", Sequence(Int(1), Mapping(M("x", Null()))))),
			Mapping(M("list", Sequence(Int(1), Mapping(M("x", Null()))))),
			true,
		},
		{
			"mapping subset not equal",
			Mapping(M("a", Int(1))),
			Mapping(M("a", Int(1)), M("b", Int(2))),
			false,
		},
		{"empty composites", Sequence(), Sequence(), true},
		{"empty sequence vs empty mapping", Sequence(), Mapping(), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.equal {
				t.Errorf("Equal(%v, %v) = %v, expected %v", tc.a, tc.b, got, tc.equal)
			}
			// equality is symmetric
			if got := tc.b.Equal(tc.a); got != tc.equal {
				t.Errorf("Equal(%v, %v) = %v, expected %v", tc.b, tc.a, got, tc.equal)
			}
		})
	}
}

// TestImmutability tests that constructors copy their composite inputs
func TestImmutability(t *testing.T) {
	elems := []Value{Int(1), Int(2)}
	seq := Sequence(elems...)

	elems[0] = Int(99)
	if seq.Index(0).Int() != 1 {
		t.Error("Sequence aliases the caller's slice")
	}

	keys := seq.Keys()
	_ = keys // Keys on a sequence is empty but must not panic
}

// TestStringRepresentation tests the debug formatting
func TestStringRepresentation(t *testing.T) {
	v := Mapping(
		M("name", String("a")),
		M("tags", Sequence(Int(1), Bool(true), Null())),
	)

	expected := `{"name":"a","tags":[1,true,null]}`
	if v.String() != expected {
		t.Errorf("String() = %s, expected %s", v.String(), expected)
	}
}
