package classfile_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomc/jomc/pkg/classfile"
	"github.com/jomc/jomc/pkg/classfile/classfiletest"
)

func parseMinimal(t *testing.T) *classfile.ClassFile {
	t.Helper()
	cf, err := classfile.ParseBytes(classfiletest.Minimal("com.example.Foo"))
	require.NoError(t, err)
	return cf
}

func TestParseWriteIdentical(t *testing.T) {
	orig := classfiletest.Minimal("com.example.Foo")

	cf, err := classfile.Parse(bytes.NewReader(orig))
	require.NoError(t, err)

	out, err := cf.Bytes()
	require.NoError(t, err)
	require.Equal(t, orig, out)

	name, err := cf.ClassName()
	require.NoError(t, err)
	assert.Equal(t, "com.example.Foo", name)
	assert.Equal(t, []string{"SourceFile", "Deprecated"}, cf.AttributeNames())
	assert.Equal(t, 13, cf.ConstantPool.Len())
	assert.Nil(t, cf.ConstantPool.Entry(8), "slot after a Long must be unusable")
}

func TestParseErrors(t *testing.T) {
	orig := classfiletest.Minimal("com.example.Foo")

	badMagic := append([]byte{}, orig...)
	badMagic[0] = 0

	badTag := append([]byte{}, orig...)
	badTag[10] = 2 // first constant tag

	for name, data := range map[string][]byte{
		"empty":     nil,
		"bad magic": badMagic,
		"bad tag":   badTag,
		"truncated": orig[:len(orig)-3],
		"trailing":  append(append([]byte{}, orig...), 0),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := classfile.ParseBytes(data)
			require.Error(t, err)
			assert.True(t, classfile.Error.Has(err))
		})
	}
}

func TestAttributeRoundTrip(t *testing.T) {
	cf := parseMinimal(t)
	payload := []byte{0x1f, 0x8b, 0, 1, 2, 3, 0xff}

	require.NoError(t, cf.SetAttribute("org.jomc.model.Dependencies", payload))

	got, ok := cf.Attribute("org.jomc.model.Dependencies")
	require.True(t, ok)
	require.Equal(t, payload, got)

	data, err := cf.Bytes()
	require.NoError(t, err)

	reparsed, err := classfile.ParseBytes(data)
	require.NoError(t, err)

	got, ok = reparsed.Attribute("org.jomc.model.Dependencies")
	require.True(t, ok)
	require.Equal(t, payload, got)
}

func TestAttributeOverwrite(t *testing.T) {
	cf := parseMinimal(t)

	require.NoError(t, cf.SetAttribute("Custom", []byte("one")))
	poolLen := cf.ConstantPool.Len()
	attrCount := len(cf.Attributes)

	require.NoError(t, cf.SetAttribute("Custom", []byte("two")))
	assert.Equal(t, poolLen, cf.ConstantPool.Len())
	assert.Equal(t, attrCount, len(cf.Attributes))

	got, ok := cf.Attribute("Custom")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), got)

	count := 0
	for _, n := range cf.AttributeNames() {
		if n == "Custom" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAttributeReusesExistingConstant(t *testing.T) {
	cf := parseMinimal(t)
	poolLen := cf.ConstantPool.Len()

	// "ConstantValue" is in the pool but not a top-level attribute.
	require.NoError(t, cf.SetAttribute("ConstantValue", []byte{1}))
	assert.Equal(t, poolLen, cf.ConstantPool.Len())

	require.NoError(t, cf.SetAttribute("Brand New", []byte{1}))
	assert.Equal(t, poolLen+1, cf.ConstantPool.Len())
}

func TestAttributeNonInterference(t *testing.T) {
	cf := parseMinimal(t)
	before := parseMinimal(t)

	require.NoError(t, cf.SetAttribute("A", []byte("a")))
	require.NoError(t, cf.SetAttribute("B", []byte("b")))
	require.NoError(t, cf.SetAttribute("A", []byte("aa")))

	got, ok := cf.Attribute("B")
	require.True(t, ok)
	assert.Equal(t, []byte("b"), got)

	src, ok := cf.Attribute("SourceFile")
	require.True(t, ok)
	assert.Equal(t, []byte{0, 6}, src)

	if diff := cmp.Diff(before.Fields, cf.Fields); diff != "" {
		t.Errorf("fields changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before.Methods, cf.Methods); diff != "" {
		t.Errorf("methods changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, before.Attributes[:2], cf.Attributes[:2])
	assert.Equal(t, []string{"SourceFile", "Deprecated", "A", "B"}, cf.AttributeNames())
}

func TestAttributeAbsence(t *testing.T) {
	cf := parseMinimal(t)

	_, ok := cf.Attribute("Missing")
	assert.False(t, ok)

	require.NoError(t, cf.SetAttribute("Empty", nil))

	got, ok := cf.Attribute("Empty")
	require.True(t, ok)
	assert.NotNil(t, got)
	assert.Len(t, got, 0)

	data, err := cf.Bytes()
	require.NoError(t, err)
	reparsed, err := classfile.ParseBytes(data)
	require.NoError(t, err)

	got, ok = reparsed.Attribute("Empty")
	require.True(t, ok)
	assert.Len(t, got, 0)
}

func TestAttributeDuplicatesLastWins(t *testing.T) {
	cf := parseMinimal(t)
	idx, ok := cf.ConstantPool.FindUtf8("Deprecated")
	require.True(t, ok)

	cf.Attributes = append(cf.Attributes, &classfile.Attribute{NameIndex: idx, Data: []byte("last")})

	got, ok := cf.Attribute("Deprecated")
	require.True(t, ok)
	assert.Equal(t, []byte("last"), got)

	require.NoError(t, cf.SetAttribute("Deprecated", []byte("new")))
	assert.Equal(t, []byte{}, cf.Attributes[1].Data)
	assert.Equal(t, []byte("new"), cf.Attributes[2].Data)
}

func TestAttributeReturnsCopy(t *testing.T) {
	cf := parseMinimal(t)
	payload := []byte("abc")
	require.NoError(t, cf.SetAttribute("X", payload))
	payload[0] = 'z'

	got, _ := cf.Attribute("X")
	got[1] = 'z'

	again, _ := cf.Attribute("X")
	assert.Equal(t, []byte("abc"), again)
}

func TestModifiedUTF8Names(t *testing.T) {
	cf := parseMinimal(t)

	for _, name := range []string{"nul\x00char", "ümlaut", "emoji 😀", "日本"} {
		require.NoError(t, cf.SetAttribute(name, []byte(name)))
	}

	data, err := cf.Bytes()
	require.NoError(t, err)
	reparsed, err := classfile.ParseBytes(data)
	require.NoError(t, err)

	for _, name := range []string{"nul\x00char", "ümlaut", "emoji 😀", "日本"} {
		got, ok := reparsed.Attribute(name)
		require.True(t, ok, name)
		assert.Equal(t, []byte(name), got)
	}

	idx, ok := reparsed.ConstantPool.FindUtf8("nul\x00char")
	require.True(t, ok)
	assert.Equal(t, []byte("nul\xc0\x80char"), reparsed.ConstantPool.Entry(idx).Info)
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := classfiletest.WriteClass(t, dir, "com.example.Foo")

	cf, err := classfile.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, cf.SetAttribute("Payload", []byte("hello")))
	require.NoError(t, classfile.WriteFile(path, cf))

	again, err := classfile.ReadFile(path)
	require.NoError(t, err)
	got, ok := again.Attribute("Payload")
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), got)

	missing := filepath.Join(dir, "missing.class")
	_, err = classfile.ReadFile(missing)
	require.Error(t, err)

	err = classfile.WriteFile(missing, again)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err))
}

func TestConcurrentWritersSameFile(t *testing.T) {
	dir := t.TempDir()
	path := classfiletest.WriteClass(t, dir, "com.example.Foo")

	// Payload sizes differ so that a torn write would change the file length.
	payloads := make(map[string]bool)
	var list [][]byte
	for w := 0; w < 8; w++ {
		payload := bytes.Repeat([]byte{byte('a' + w)}, 1000*(w+1))
		payloads[string(payload)] = true
		list = append(list, payload)
	}

	var wg sync.WaitGroup
	errc := make(chan error, 2*len(list))

	for _, payload := range list {
		wg.Add(2)
		go func(payload []byte) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				cf, err := classfile.ParseBytes(classfiletest.Minimal("com.example.Foo"))
				if err == nil {
					err = cf.SetAttribute("Payload", payload)
				}
				if err == nil {
					err = classfile.WriteFile(path, cf)
				}
				if err != nil {
					errc <- err
					return
				}
			}
		}(payload)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				cf, err := classfile.ReadFile(path)
				if err != nil {
					errc <- err
					return
				}
				if got, ok := cf.Attribute("Payload"); ok && !payloads[string(got)] {
					errc <- fmt.Errorf("unexpected payload of %d bytes", len(got))
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}

	cf, err := classfile.ReadFile(path)
	require.NoError(t, err)
	got, ok := cf.Attribute("Payload")
	require.True(t, ok)
	assert.True(t, payloads[string(got)])
}

func TestConcurrentWritersDistinctFiles(t *testing.T) {
	dir := t.TempDir()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	paths := make([]string, 4)

	for i := range paths {
		paths[i] = classfiletest.WriteClass(t, dir, fmt.Sprintf("com.example.C%d", i))
	}

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			cf, err := classfile.ReadFile(path)
			if err == nil {
				err = cf.SetAttribute("Index", []byte{byte(i)})
			}
			if err == nil {
				err = classfile.WriteFile(path, cf)
			}
			errs[i] = err
		}(i, path)
	}
	wg.Wait()

	for i, path := range paths {
		require.NoError(t, errs[i])
		cf, err := classfile.ReadFile(path)
		require.NoError(t, err)
		got, ok := cf.Attribute("Index")
		require.True(t, ok)
		assert.Equal(t, []byte{byte(i)}, got)
	}
}
