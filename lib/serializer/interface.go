package serializer

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/mongoBridge/lib/dynval"
)

// IValueSerializer is the interface for all dynamic value serializers
type IValueSerializer interface {
	// Serialize serializes a dynamic value into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(v dynval.Value) ([]byte, error)
	// Deserialize deserializes a byte array into a dynamic value
	// It takes a byte array and a pointer to a value as parameters
	// It returns an error if any
	Deserialize(b []byte, v *dynval.Value) error
}

// GetSerializer creates a serializer by format name (case-insensitive).
func GetSerializer(name string) (IValueSerializer, error) {
	switch strings.ToLower(name) {
	case "json":
		return NewJSONSerializer(), nil
	case "yaml":
		return NewYAMLSerializer(), nil
	case "cbor":
		return NewCBORSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s (must be one of json, yaml, cbor)", name)
	}
}
