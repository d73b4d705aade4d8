package transformer

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/mitchellh/mapstructure"

	"github.com/jomc/jomc/internal/markdown"
	"github.com/jomc/jomc/pkg/common"
	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/util"
)

// Transformer transforms the model objects
// decoded from a class file before they are written back.
type Transformer interface {
	common.DescriptionMarkdown

	// The name of the transformer.
	Name() string

	// A short description of the transformer.
	Description() string

	// DefaultOptions Returns the default options of the transformer, or nil if it has none.
	DefaultOptions() interface{}

	// Transform transforms the objects based on options.
	Transform(ctx context.Context, options interface{}, objects *model.Objects) error
}

// All returns the built-in transformers.
func All() []Transformer {
	return []Transformer{
		&Default{},
		&PropertyNames{},
		&StripDocumentation{},
		&Vendor{},
	}
}

// decodeOptions decodes raw options onto the given defaults.
func decodeOptions(raw interface{}, opts interface{}) error {
	if raw == nil {
		return nil
	}

	err := mapstructure.Decode(raw, opts)
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	return nil
}

// describe renders a markdown description with an options table
// and an example configuration for the transformer.
func describe(t Transformer, desc string, values map[string]interface{}) string {
	buf := &bytes.Buffer{}

	templ, err := template.New("desc").Parse(desc)
	if err != nil {
		panic(err)
	}

	if values == nil {
		values = make(map[string]interface{})
	}

	values["OptionsTable"] = markdown.OptionsTable(t.DefaultOptions())
	values["OptionsExample"] = "```yaml\n" + string(util.MustMarshalYAML(
		map[string]interface{}{
			"transformers": []map[string]interface{}{
				{
					"name":    t.Name(),
					"options": t.DefaultOptions(),
				},
			},
		},
		false,
	)) + "```\n"

	if err := templ.Execute(buf, values); err != nil {
		panic(err)
	}

	return buf.String()
}
