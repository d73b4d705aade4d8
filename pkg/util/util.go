package util

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"gopkg.in/yaml.v3"
)

// MarshalYAMLWithDescriptions marshals structs with the
// description tags of their fields as head comments.
//
// Make sure the value (pointer receiver is fine)
// you pass in doesn't implement YAML Marshaler,
// otherwise YAML will get into a Marshal() loop.
func MarshalYAMLWithDescriptions(val interface{}) (interface{}, error) {
	tp := reflect.TypeOf(val)
	if tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}

	if tp.Kind() != reflect.Struct {
		return nil, fmt.Errorf("only structs are supported")
	}

	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	b, err := yaml.Marshal(v.Interface())
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	err = yaml.Unmarshal(b, &node)
	if err != nil {
		return nil, err
	}

	descriptions := fieldDescriptions(tp)
	content := node.Content[0].Content
	for i := 0; i+1 < len(content); i += 2 {
		if desc, ok := descriptions[content[i].Value]; ok {
			content[i].HeadComment = wordwrap.WrapString(desc, 80) + "."
		}
	}

	node.Kind = yaml.MappingNode
	node.Content = node.Content[0].Content

	return &node, nil
}

// fieldDescriptions maps the YAML keys of the fields of tp to their description tags.
// Keys of untagged fields are the lowercased field names, as in yaml.v3.
func fieldDescriptions(tp reflect.Type) map[string]string {
	descriptions := make(map[string]string, tp.NumField())
	for i := 0; i < tp.NumField(); i++ {
		field := tp.Field(i)

		desc := field.Tag.Get("description")
		name := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if desc == "" || name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		descriptions[name] = desc
	}
	return descriptions
}

// MarshalYAML marshals v with an indentation of two spaces.
// Unless comments is set, the comments added by YAML Marshalers
// such as MarshalYAMLWithDescriptions are dropped.
func MarshalYAML(v interface{}, comments bool) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}

	if !comments {
		stripComments(&node)
	}

	buf := &bytes.Buffer{}

	e := yaml.NewEncoder(buf)
	e.SetIndent(2)

	if err := e.Encode(&node); err != nil {
		return nil, err
	}
	if err := e.Close(); err != nil {
		return nil, err
	}

	return []byte(strings.ReplaceAll(buf.String(), "\n\n\n", "\n\n")), nil
}

func stripComments(node *yaml.Node) {
	node.HeadComment = ""
	node.LineComment = ""
	node.FootComment = ""
	for _, n := range node.Content {
		stripComments(n)
	}
}

// MustMarshalYAML is MarshalYAML that panics on failure.
func MustMarshalYAML(v interface{}, comments bool) []byte {
	b, err := MarshalYAML(v, comments)
	if err != nil {
		panic(err)
	}
	return b
}
