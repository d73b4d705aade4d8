package transformer

import (
	"context"
	"sort"
	"strings"

	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/util"
)

// DefaultOptions alters the behaviour of the default transformer.
type DefaultOptions struct {
	Trim        bool `yaml:"trim" description:"Trim surrounding whitespace from names, identifiers, versions and values"`
	Sort        bool `yaml:"sort" description:"Order dependencies, properties, messages and specifications by name"`
	Deduplicate bool `yaml:"deduplicate" description:"Remove entries whose name was already seen, keeping the first one"`
}

// MarshalYAML implements YAML Marshaler.
func (d *DefaultOptions) MarshalYAML() (interface{}, error) {
	return util.MarshalYAMLWithDescriptions(d)
}

// Default is the default Transformer.
type Default struct{}

// Name implements Transformer
func (d *Default) Name() string {
	return "default"
}

// Description implements Transformer
func (d *Default) Description() string {
	return "Normalizes the model objects of a class file"
}

// DescriptionMarkdown implements DescriptionMarkdown
func (d *Default) DescriptionMarkdown() string {
	return describe(d, `
# Description

This transformer normalizes the model objects embedded in class files,
so that committing the same modules twice results in identical attributes.

# Options

## List of all options

{{ .OptionsTable }}

## Example usage in JOMC config

{{ .OptionsExample }}
`[1:], nil)
}

// DefaultOptions implements Transformer
func (d *Default) DefaultOptions() interface{} {
	return &DefaultOptions{
		Trim:        true,
		Sort:        true,
		Deduplicate: true,
	}
}

// Transform implements Transformer
func (d *Default) Transform(ctx context.Context, rawOpts interface{}, objects *model.Objects) error {
	opts := d.DefaultOptions().(*DefaultOptions)

	err := decodeOptions(rawOpts, opts)
	if err != nil {
		return err
	}

	if opts.Trim {
		d.TrimObjects(objects)
	}

	if opts.Deduplicate {
		d.DeduplicateObjects(objects)
	}

	if opts.Sort {
		d.OrderObjects(objects)
	}

	return nil
}

// TrimObjects trims names, identifiers, versions and values.
func (d *Default) TrimObjects(objects *model.Objects) {
	trimSpecification := func(s *model.Specification) {
		s.Identifier = strings.TrimSpace(s.Identifier)
		s.Class = strings.TrimSpace(s.Class)
		s.Version = strings.TrimSpace(s.Version)
		s.Vendor = strings.TrimSpace(s.Vendor)
		s.Scope = strings.TrimSpace(s.Scope)
	}

	if objects.Specification != nil {
		trimSpecification(objects.Specification)
	}

	if objects.Specifications != nil {
		for _, s := range objects.Specifications.Specification {
			trimSpecification(s)
		}

		for _, ref := range objects.Specifications.Reference {
			ref.Identifier = strings.TrimSpace(ref.Identifier)
			ref.Version = strings.TrimSpace(ref.Version)
		}
	}

	if objects.Dependencies != nil {
		for _, dep := range objects.Dependencies.Dependency {
			dep.Name = strings.TrimSpace(dep.Name)
			dep.Identifier = strings.TrimSpace(dep.Identifier)
			dep.ImplementationName = strings.TrimSpace(dep.ImplementationName)
			dep.Version = strings.TrimSpace(dep.Version)
		}
	}

	if objects.Properties != nil {
		for _, p := range objects.Properties.Property {
			p.Name = strings.TrimSpace(p.Name)
			p.Type = strings.TrimSpace(p.Type)
			p.Value = strings.TrimSpace(p.Value)
		}
	}

	if objects.Messages != nil {
		for _, m := range objects.Messages.Message {
			m.Name = strings.TrimSpace(m.Name)
		}
	}
}

// DeduplicateObjects removes entries with names that were already seen.
func (d *Default) DeduplicateObjects(objects *model.Objects) {
	if objects.Specifications != nil {
		objects.Specifications.Specification = dedupe(objects.Specifications.Specification,
			func(s *model.Specification) string { return s.Identifier })
		objects.Specifications.Reference = dedupe(objects.Specifications.Reference,
			func(r *model.SpecificationReference) string { return r.Identifier })
	}

	if objects.Dependencies != nil {
		objects.Dependencies.Dependency = dedupe(objects.Dependencies.Dependency,
			func(d *model.Dependency) string { return d.Name })
	}

	if objects.Properties != nil {
		objects.Properties.Property = dedupe(objects.Properties.Property,
			func(p *model.Property) string { return p.Name })
	}

	if objects.Messages != nil {
		objects.Messages.Message = dedupe(objects.Messages.Message,
			func(m *model.Message) string { return m.Name })
	}
}

// OrderObjects orders all entries in an alphabetical order.
func (d *Default) OrderObjects(objects *model.Objects) {
	if objects.Specifications != nil {
		sort.SliceStable(objects.Specifications.Specification, func(i, j int) bool {
			s1, s2 := objects.Specifications.Specification[i], objects.Specifications.Specification[j]

			return s1.Identifier < s2.Identifier
		})

		sort.SliceStable(objects.Specifications.Reference, func(i, j int) bool {
			r1, r2 := objects.Specifications.Reference[i], objects.Specifications.Reference[j]

			return r1.Identifier < r2.Identifier
		})
	}

	if objects.Dependencies != nil {
		sort.SliceStable(objects.Dependencies.Dependency, func(i, j int) bool {
			d1, d2 := objects.Dependencies.Dependency[i], objects.Dependencies.Dependency[j]

			return d1.Name < d2.Name
		})
	}

	if objects.Properties != nil {
		sort.SliceStable(objects.Properties.Property, func(i, j int) bool {
			p1, p2 := objects.Properties.Property[i], objects.Properties.Property[j]

			return p1.Name < p2.Name
		})
	}

	if objects.Messages != nil {
		sort.SliceStable(objects.Messages.Message, func(i, j int) bool {
			m1, m2 := objects.Messages.Message[i], objects.Messages.Message[j]

			return m1.Name < m2.Name
		})
	}
}

func dedupe[T any](items []T, key func(T) string) []T {
	seen := make(map[string]bool, len(items))
	kept := items[:0]

	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, item)
	}

	return kept
}
