package serializer

import (
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
	"gopkg.in/yaml.v3"
)

// NewYAMLSerializer creates a new serializer using yaml encoding
func NewYAMLSerializer() IValueSerializer {
	return &yamlSerializerImpl{}
}

// yamlSerializerImpl implements the IValueSerializer interface using yaml encoding
type yamlSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IValueSerializer)
// --------------------------------------------------------------------------

func (y yamlSerializerImpl) Serialize(v dynval.Value) ([]byte, error) {
	return yaml.Marshal(toNative(v))
}

func (y yamlSerializerImpl) Deserialize(b []byte, v *dynval.Value) error {
	var x any
	if err := yaml.Unmarshal(b, &x); err != nil {
		return err
	}
	return decodeInto(x, v)
}
