package serializer

import (
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
	"github.com/fxamacker/cbor/v2"
)

// NewCBORSerializer creates a new serializer using cbor encoding,
// the recommended format for persisting larger data sets
func NewCBORSerializer() IValueSerializer {
	return &cborSerializerImpl{}
}

// cborSerializerImpl implements the IValueSerializer interface using cbor encoding
type cborSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IValueSerializer)
// --------------------------------------------------------------------------

func (c cborSerializerImpl) Serialize(v dynval.Value) ([]byte, error) {
	return cbor.Marshal(toNative(v))
}

func (c cborSerializerImpl) Deserialize(b []byte, v *dynval.Value) error {
	var x any
	if err := cbor.Unmarshal(b, &x); err != nil {
		return err
	}
	return decodeInto(x, v)
}
