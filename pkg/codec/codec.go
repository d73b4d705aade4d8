// Package codec encodes model objects to the compressed form stored in
// class file attributes and decodes them back.
//
// A payload is a GZIP stream of an XML document whose root element is
// the encoded model object. Encoders and decoders are created per call,
// so the functions are safe for concurrent use.
package codec

import (
	"bytes"
	"encoding/xml"
	"io"
	"reflect"

	"github.com/klauspost/compress/gzip"
	"github.com/zeebo/errs"

	"github.com/jomc/jomc/pkg/model"
)

var (
	// EncodeError is the class of encoding failures.
	EncodeError = errs.Class("encode")

	// DecodeError is the class of decoding failures.
	DecodeError = errs.Class("decode")
)

// attributeNames maps model object types to the class file attribute they are stored in.
var attributeNames = map[reflect.Type]string{
	reflect.TypeOf(model.Specification{}):  model.SpecificationAttribute,
	reflect.TypeOf(model.Specifications{}): model.SpecificationsAttribute,
	reflect.TypeOf(model.Dependencies{}):   model.DependenciesAttribute,
	reflect.TypeOf(model.Properties{}):     model.PropertiesAttribute,
	reflect.TypeOf(model.Messages{}):       model.MessagesAttribute,
}

// AttributeName returns the attribute name for the type of v,
// which must be a pointer to a model object stored in class files.
func AttributeName(v interface{}) (string, error) {
	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Ptr {
		return "", errs.New("%T is not a pointer to a model object", v)
	}
	name, ok := attributeNames[t.Elem()]
	if !ok {
		return "", errs.New("%T is not stored in class files", v)
	}
	return name, nil
}

// New returns a pointer to a new model object of the type stored in the named attribute.
func New(attribute string) (interface{}, error) {
	for t, name := range attributeNames {
		if name == attribute {
			return reflect.New(t).Interface(), nil
		}
	}
	return nil, errs.New("attribute %q does not hold a model object", attribute)
}

// Encode serializes v and compresses the result.
func Encode(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}

	zw := gzip.NewWriter(buf)

	enc := xml.NewEncoder(zw)
	if _, err := io.WriteString(zw, xml.Header); err != nil {
		return nil, EncodeError.Wrap(err)
	}
	if err := enc.Encode(v); err != nil {
		return nil, EncodeError.Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return nil, EncodeError.Wrap(err)
	}
	if err := zw.Close(); err != nil {
		return nil, EncodeError.Wrap(err)
	}

	return buf.Bytes(), nil
}

// Decode inflates data and deserializes it into v. The root element
// of the document must match the type of v.
func Decode(data []byte, v interface{}) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return DecodeError.Wrap(err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return DecodeError.Wrap(err)
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return DecodeError.Wrap(err)
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return DecodeError.Wrap(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
		case xml.Comment, xml.ProcInst:
			continue
		}
		return DecodeError.New("unexpected content after the %T document", v)
	}
}
