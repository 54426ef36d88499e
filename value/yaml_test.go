package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/jsonquery/value"
)

func TestFromYAMLPreservesMappingOrder(t *testing.T) {
	v, err := value.FromYAML([]byte("z: 1\na: 2\nm: 3\n"))
	require.NoError(t, err)

	obj, ok := v.Fields()
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
}

func TestFromYAMLIntFloatBoolNull(t *testing.T) {
	v, err := value.FromYAML([]byte("i: 10\nf: 1.5\nb: true\nn: null\n"))
	require.NoError(t, err)

	obj, _ := v.Fields()

	iv, _ := obj.Get("i")
	n, _ := iv.NumberVal()
	i, isInt := n.Int64()
	assert.True(t, isInt)
	assert.Equal(t, int64(10), i)

	fv, _ := obj.Get("f")
	fn, _ := fv.NumberVal()
	assert.Equal(t, 1.5, fn.Float64())

	bv, _ := obj.Get("b")
	b, _ := bv.Bool()
	assert.True(t, b)

	nv, _ := obj.Get("n")
	assert.True(t, nv.IsNull())
}

func TestFromYAMLSequence(t *testing.T) {
	v, err := value.FromYAML([]byte("- a\n- b\n- c\n"))
	require.NoError(t, err)

	elems, ok := v.Elements()
	require.True(t, ok)
	require.Len(t, elems, 3)
	s, _ := elems[1].Str()
	assert.Equal(t, "b", s)
}

func TestFromYAMLInvalidReturnsError(t *testing.T) {
	_, err := value.FromYAML([]byte("key: [unterminated\n"))
	assert.Error(t, err)
}
