package transformer

import (
	"context"

	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/util"
)

// StripDocumentationOptions alters the behaviour of the documentation stripper.
type StripDocumentationOptions struct {
	Keep      []string `yaml:"keep,omitempty" description:"Languages whose documentation is kept, all documentation is removed if empty"`
	Templates bool     `yaml:"templates" description:"Also remove message templates in languages other than the kept ones and the default language"`
}

// MarshalYAML implements YAML Marshaler.
func (o *StripDocumentationOptions) MarshalYAML() (interface{}, error) {
	return util.MarshalYAMLWithDescriptions(o)
}

// StripDocumentation removes documentation texts to reduce the size of class files.
type StripDocumentation struct{}

// Name implements Transformer
func (s *StripDocumentation) Name() string {
	return "strip-documentation"
}

// Description implements Transformer
func (s *StripDocumentation) Description() string {
	return "Removes documentation from the model objects of a class file"
}

// DescriptionMarkdown implements DescriptionMarkdown
func (s *StripDocumentation) DescriptionMarkdown() string {
	return describe(s, `
# Description

Documentation is only needed by tools working on module documents,
not at runtime. This transformer removes it from class files.

# Options

{{ .OptionsTable }}

## Example usage in JOMC config

{{ .OptionsExample }}
`[1:], nil)
}

// DefaultOptions implements Transformer
func (s *StripDocumentation) DefaultOptions() interface{} {
	return &StripDocumentationOptions{}
}

// Transform implements Transformer
func (s *StripDocumentation) Transform(ctx context.Context, rawOpts interface{}, objects *model.Objects) error {
	opts := s.DefaultOptions().(*StripDocumentationOptions)

	err := decodeOptions(rawOpts, opts)
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(opts.Keep))
	for _, lang := range opts.Keep {
		keep[lang] = true
	}

	strip := func(texts *model.Texts) *model.Texts {
		if texts == nil || len(keep) == 0 {
			return nil
		}
		kept := texts.Text[:0]
		for _, text := range texts.Text {
			if keep[text.Language] {
				kept = append(kept, text)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		texts.Text = kept
		if !keep[texts.DefaultLanguage] {
			texts.DefaultLanguage = kept[0].Language
		}
		return texts
	}

	stripTemplate := func(texts *model.Texts) {
		if texts == nil {
			return
		}
		kept := texts.Text[:0]
		for _, text := range texts.Text {
			if keep[text.Language] || text.Language == texts.DefaultLanguage {
				kept = append(kept, text)
			}
		}
		texts.Text = kept
	}

	stripSpecification := func(spec *model.Specification) {
		spec.Documentation = strip(spec.Documentation)
		if spec.Properties != nil {
			for _, p := range spec.Properties.Property {
				p.Documentation = strip(p.Documentation)
			}
		}
	}

	if objects.Specification != nil {
		stripSpecification(objects.Specification)
	}

	if objects.Specifications != nil {
		for _, spec := range objects.Specifications.Specification {
			stripSpecification(spec)
		}
	}

	if objects.Dependencies != nil {
		for _, dep := range objects.Dependencies.Dependency {
			dep.Documentation = strip(dep.Documentation)
		}
	}

	if objects.Properties != nil {
		for _, p := range objects.Properties.Property {
			p.Documentation = strip(p.Documentation)
		}
	}

	if objects.Messages != nil {
		for _, m := range objects.Messages.Message {
			m.Documentation = strip(m.Documentation)
			if opts.Templates {
				stripTemplate(m.Template)
			}
		}
	}

	return nil
}
