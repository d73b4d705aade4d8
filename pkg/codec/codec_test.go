package codec_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomc/jomc/pkg/classfile"
	"github.com/jomc/jomc/pkg/classfile/classfiletest"
	"github.com/jomc/jomc/pkg/codec"
	"github.com/jomc/jomc/pkg/model"
)

var ignoreXMLName = cmpopts.IgnoreFields(model.Dependency{}, "XMLName")

func TestRoundTrip(t *testing.T) {
	deps := &model.Dependencies{
		Dependency: []*model.Dependency{
			{Name: "dependency", Identifier: "Foo", Version: "1.0", Optional: true},
		},
	}

	data, err := codec.Encode(deps)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, data[:2])

	decoded := &model.Dependencies{}
	require.NoError(t, codec.Decode(data, decoded))

	if diff := cmp.Diff(deps.Dependency, decoded.Dependency, ignoreXMLName); diff != "" {
		t.Errorf("decoded dependencies differ (-want +got):\n%s", diff)
	}
}

func TestEmbedInClassFile(t *testing.T) {
	dir := t.TempDir()
	path := classfiletest.WriteClass(t, dir, "com.example.Foo")

	deps := &model.Dependencies{
		Dependency: []*model.Dependency{{Name: "dependency", Identifier: "Foo"}},
	}
	data, err := codec.Encode(deps)
	require.NoError(t, err)

	name, err := codec.AttributeName(deps)
	require.NoError(t, err)
	assert.Equal(t, "org.jomc.model.Dependencies", name)

	cf, err := classfile.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, cf.SetAttribute(name, data))
	require.NoError(t, classfile.WriteFile(path, cf))

	cf, err = classfile.ReadFile(path)
	require.NoError(t, err)
	got, ok := cf.Attribute(name)
	require.True(t, ok)

	decoded := &model.Dependencies{}
	require.NoError(t, codec.Decode(got, decoded))
	require.Len(t, decoded.Dependency, 1)
	assert.Equal(t, "dependency", decoded.Dependency[0].Name)
	assert.Equal(t, "Foo", decoded.Dependency[0].Identifier)
}

func TestDecodeWrongType(t *testing.T) {
	data, err := codec.Encode(&model.Properties{
		Property: []*model.Property{{Name: "p", Value: "v"}},
	})
	require.NoError(t, err)

	err = codec.Decode(data, &model.Dependencies{})
	require.Error(t, err)
	assert.True(t, codec.DecodeError.Has(err))
}

func TestDecodeCorrupt(t *testing.T) {
	err := codec.Decode([]byte("not gzip"), &model.Dependencies{})
	require.Error(t, err)
	assert.True(t, codec.DecodeError.Has(err))

	data, err := codec.Encode(&model.Messages{})
	require.NoError(t, err)
	err = codec.Decode(data[:len(data)-4], &model.Messages{})
	require.Error(t, err)

	buf := &bytes.Buffer{}
	zw := gzip.NewWriter(buf)
	_, err = zw.Write([]byte("<messages></messages><messages></messages>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	err = codec.Decode(buf.Bytes(), &model.Messages{})
	require.Error(t, err)
}

func TestAttributeName(t *testing.T) {
	for v, want := range map[interface{}]string{
		&model.Specification{}:  model.SpecificationAttribute,
		&model.Specifications{}: model.SpecificationsAttribute,
		&model.Properties{}:     model.PropertiesAttribute,
		&model.Messages{}:       model.MessagesAttribute,
	} {
		got, err := codec.AttributeName(v)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := codec.AttributeName(model.Properties{})
	require.Error(t, err)
	_, err = codec.AttributeName(&model.Module{})
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	v, err := codec.New(model.MessagesAttribute)
	require.NoError(t, err)
	assert.IsType(t, &model.Messages{}, v)

	name, err := codec.AttributeName(v)
	require.NoError(t, err)
	assert.Equal(t, model.MessagesAttribute, name)

	_, err = codec.New("SourceFile")
	require.Error(t, err)
}
