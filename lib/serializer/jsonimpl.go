package serializer

import (
	"bytes"
	"encoding/json"

	"github.com/ValentinKolb/mongoBridge/lib/dynval"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() IValueSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IValueSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IValueSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(v dynval.Value) ([]byte, error) {
	return json.Marshal(toNative(v))
}

func (j jsonSerializerImpl) Deserialize(b []byte, v *dynval.Value) error {
	// UseNumber keeps integers distinguishable from doubles
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}
	return decodeInto(x, v)
}
