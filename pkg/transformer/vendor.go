package transformer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/jomc/jomc/internal/markdown"
	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/util"
)

// VendorTemplateValues contains values for vendor templates.
type VendorTemplateValues struct {
	Identifier string `description:"Identifier of the specification"`
	Class      string `description:"Class of the specification"`
	Version    string `description:"Version of the specification"`
	Vendor     string `description:"Current vendor of the specification"`
}

// VendorOptions alters the behaviour of the vendor transformer.
type VendorOptions struct {
	Template string `yaml:"template" description:"Template of the vendor. Supports Go templating with sprig functions"`
}

// MarshalYAML implements YAML Marshaler.
func (o *VendorOptions) MarshalYAML() (interface{}, error) {
	return util.MarshalYAMLWithDescriptions(o)
}

// Vendor sets the vendor of specifications.
type Vendor struct{}

// Name implements Transformer
func (v *Vendor) Name() string {
	return "vendor"
}

// Description implements Transformer
func (v *Vendor) Description() string {
	return "Sets the vendor of specifications from a template"
}

// DescriptionMarkdown implements DescriptionMarkdown
func (v *Vendor) DescriptionMarkdown() string {
	return describe(v, `
# Description

Sets the vendor of the specifications stored in class files.
An empty result leaves the vendor unchanged.

# Options

{{ .OptionsTable }}

## Example usage in JOMC config

{{ .OptionsExample }}

### Template values

{{ .ValuesTable }}
`[1:], map[string]interface{}{
		"ValuesTable": markdown.ValuesTable(VendorTemplateValues{}),
	})
}

// DefaultOptions implements Transformer
func (v *Vendor) DefaultOptions() interface{} {
	return &VendorOptions{
		Template: "{{ .Vendor }}",
	}
}

// Transform implements Transformer
func (v *Vendor) Transform(ctx context.Context, rawOpts interface{}, objects *model.Objects) error {
	opts := v.DefaultOptions().(*VendorOptions)

	err := decodeOptions(rawOpts, opts)
	if err != nil {
		return err
	}

	templ, err := template.New("vendor").Funcs(sprig.TxtFuncMap()).Parse(opts.Template)
	if err != nil {
		return fmt.Errorf("unexpected error when parsing vendor template: %w", err)
	}

	apply := func(spec *model.Specification) error {
		buf := &bytes.Buffer{}
		err := templ.Execute(buf, &VendorTemplateValues{
			Identifier: spec.Identifier,
			Class:      spec.Class,
			Version:    spec.Version,
			Vendor:     spec.Vendor,
		})
		if err != nil {
			return fmt.Errorf("unexpected error when executing vendor template: %w", err)
		}

		if vendor := strings.TrimSpace(buf.String()); vendor != "" {
			spec.Vendor = vendor
		}
		return nil
	}

	if objects.Specification != nil {
		if err := apply(objects.Specification); err != nil {
			return err
		}
	}

	if objects.Specifications != nil {
		for _, spec := range objects.Specifications.Specification {
			if err := apply(spec); err != nil {
				return err
			}
		}
	}

	return nil
}
