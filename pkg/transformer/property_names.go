package transformer

import (
	"context"
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/util"
)

// PropertyNamesOptions alters the behaviour of the property name transformer.
type PropertyNamesOptions struct {
	Case   string   `yaml:"case" description:"Case of property names, one of camel, lowerCamel, snake, screamingSnake, kebab"`
	Ignore []string `yaml:"ignore,omitempty" description:"Names of properties that are left as they are"`
}

// MarshalYAML implements YAML Marshaler.
func (o *PropertyNamesOptions) MarshalYAML() (interface{}, error) {
	return util.MarshalYAMLWithDescriptions(o)
}

var propertyCases = map[string]func(string) string{
	"camel":          strcase.ToCamel,
	"lowerCamel":     strcase.ToLowerCamel,
	"snake":          strcase.ToSnake,
	"screamingSnake": strcase.ToScreamingSnake,
	"kebab":          strcase.ToKebab,
}

// PropertyNames renames properties to a common case.
type PropertyNames struct{}

// Name implements Transformer
func (p *PropertyNames) Name() string {
	return "property-names"
}

// Description implements Transformer
func (p *PropertyNames) Description() string {
	return "Renames properties to a common case"
}

// DescriptionMarkdown implements DescriptionMarkdown
func (p *PropertyNames) DescriptionMarkdown() string {
	return describe(p, `
# Description

Renames the properties of implementations and specifications.
Renaming a property changes the name generated code looks it up with,
so all classes of a module should be transformed together.

# Options

{{ .OptionsTable }}

## Example usage in JOMC config

{{ .OptionsExample }}
`[1:], nil)
}

// DefaultOptions implements Transformer
func (p *PropertyNames) DefaultOptions() interface{} {
	return &PropertyNamesOptions{
		Case: "lowerCamel",
	}
}

// Transform implements Transformer
func (p *PropertyNames) Transform(ctx context.Context, rawOpts interface{}, objects *model.Objects) error {
	opts := p.DefaultOptions().(*PropertyNamesOptions)

	err := decodeOptions(rawOpts, opts)
	if err != nil {
		return err
	}

	convert, ok := propertyCases[opts.Case]
	if !ok {
		return fmt.Errorf("invalid options: unknown case %q", opts.Case)
	}

	ignored := make(map[string]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignored[name] = true
	}

	rename := func(props *model.Properties) {
		if props == nil {
			return
		}
		for _, prop := range props.Property {
			if !ignored[prop.Name] {
				prop.Name = convert(prop.Name)
			}
		}
	}

	rename(objects.Properties)

	if objects.Specification != nil {
		rename(objects.Specification.Properties)
	}

	if objects.Specifications != nil {
		for _, s := range objects.Specifications.Specification {
			rename(s.Properties)
		}
	}

	return nil
}
