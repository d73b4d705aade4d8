package model

import (
	"fmt"
	"strings"

	"github.com/mohae/deepcopy"
)

// ByName returns the module named name or nil.
func (m *Modules) ByName(name string) *Module {
	if m == nil {
		return nil
	}
	for _, mod := range m.Module {
		if mod.Name == name {
			return mod
		}
	}
	return nil
}

// Specification returns the specification with the given identifier or nil.
func (m *Modules) Specification(identifier string) *Specification {
	if mod := m.ModuleOfSpecification(identifier); mod != nil {
		return mod.Specifications.ByIdentifier(identifier)
	}
	return nil
}

// Implementation returns the implementation with the given identifier or nil.
func (m *Modules) Implementation(identifier string) *Implementation {
	if mod := m.ModuleOfImplementation(identifier); mod != nil {
		return mod.Implementations.ByIdentifier(identifier)
	}
	return nil
}

// ModuleOfSpecification returns the module declaring the specification or nil.
func (m *Modules) ModuleOfSpecification(identifier string) *Module {
	if m == nil {
		return nil
	}
	for _, mod := range m.Module {
		if mod.Specifications.ByIdentifier(identifier) != nil {
			return mod
		}
	}
	return nil
}

// ModuleOfImplementation returns the module declaring the implementation or nil.
func (m *Modules) ModuleOfImplementation(identifier string) *Module {
	if m == nil {
		return nil
	}
	for _, mod := range m.Module {
		if mod.Implementations.ByIdentifier(identifier) != nil {
			return mod
		}
	}
	return nil
}

// Implementations returns all implementations of all modules.
func (m *Modules) Implementations() []*Implementation {
	var impls []*Implementation
	for _, mod := range m.Module {
		if mod.Implementations != nil {
			impls = append(impls, mod.Implementations.Implementation...)
		}
	}
	return impls
}

// ByIdentifier returns the implementation with the given identifier or nil.
func (i *Implementations) ByIdentifier(identifier string) *Implementation {
	if i == nil {
		return nil
	}
	for _, impl := range i.Implementation {
		if impl.Identifier == identifier {
			return impl
		}
	}
	return nil
}

// chain returns the implementation followed by its ancestors.
func (m *Modules) chain(identifier string) ([]*Implementation, error) {
	var chain []*Implementation
	seen := make(map[string]bool)

	for id := identifier; id != ""; {
		if seen[id] {
			path := make([]string, 0, len(chain)+1)
			for _, impl := range chain {
				path = append(path, impl.Identifier)
			}
			return nil, fmt.Errorf("implementation inheritance cycle: %v", strings.Join(append(path, id), " -> "))
		}
		seen[id] = true

		impl := m.Implementation(id)
		if impl == nil {
			if id == identifier {
				return nil, fmt.Errorf("implementation %q not found", id)
			}
			return nil, fmt.Errorf("parent implementation %q of %q not found", id, chain[len(chain)-1].Identifier)
		}
		chain = append(chain, impl)
		id = impl.Parent
	}

	return chain, nil
}

// Dependencies returns the dependencies of the implementation including
// those inherited from its parents. Declarations closer to the
// implementation win. The returned values are copies.
func (m *Modules) Dependencies(implementation string) (*Dependencies, error) {
	chain, err := m.chain(implementation)
	if err != nil {
		return nil, err
	}

	var found bool
	result := &Dependencies{}
	seen := make(map[string]bool)
	for _, impl := range chain {
		if impl.Dependencies == nil {
			continue
		}
		found = true
		for _, d := range impl.Dependencies.Dependency {
			if seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			result.Dependency = append(result.Dependency, deepcopy.Copy(d).(*Dependency))
		}
	}

	if !found {
		return nil, nil
	}
	return result, nil
}

// Properties returns the properties of the implementation including those
// inherited from its parents and those declared by the specifications it
// implements. The returned values are copies.
func (m *Modules) Properties(implementation string) (*Properties, error) {
	chain, err := m.chain(implementation)
	if err != nil {
		return nil, err
	}

	var found bool
	result := &Properties{}
	seen := make(map[string]bool)
	add := func(props *Properties) {
		if props == nil {
			return
		}
		found = true
		for _, p := range props.Property {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			result.Property = append(result.Property, deepcopy.Copy(p).(*Property))
		}
	}

	for _, impl := range chain {
		add(impl.Properties)
	}
	for _, impl := range chain {
		if impl.Specifications == nil {
			continue
		}
		for _, ref := range impl.Specifications.Reference {
			if spec := m.Specification(ref.Identifier); spec != nil {
				add(spec.Properties)
			}
		}
	}

	if !found {
		return nil, nil
	}
	return result, nil
}

// Messages returns the messages of the implementation including those
// inherited from its parents. The returned values are copies.
func (m *Modules) Messages(implementation string) (*Messages, error) {
	chain, err := m.chain(implementation)
	if err != nil {
		return nil, err
	}

	var found bool
	result := &Messages{}
	seen := make(map[string]bool)
	for _, impl := range chain {
		if impl.Messages == nil {
			continue
		}
		found = true
		for _, msg := range impl.Messages.Message {
			if seen[msg.Name] {
				continue
			}
			seen[msg.Name] = true
			result.Message = append(result.Message, deepcopy.Copy(msg).(*Message))
		}
	}

	if !found {
		return nil, nil
	}
	return result, nil
}

// ImplementedSpecifications returns the references of the specifications the
// implementation implements, including inherited ones, together with the
// referenced specifications found in the modules. The returned values are copies.
func (m *Modules) ImplementedSpecifications(implementation string) (*Specifications, error) {
	chain, err := m.chain(implementation)
	if err != nil {
		return nil, err
	}

	var found bool
	result := &Specifications{}
	seen := make(map[string]bool)
	for _, impl := range chain {
		if impl.Specifications == nil {
			continue
		}
		found = true
		for _, ref := range impl.Specifications.Reference {
			if seen[ref.Identifier] {
				continue
			}
			seen[ref.Identifier] = true
			result.Reference = append(result.Reference, deepcopy.Copy(ref).(*SpecificationReference))

			if spec := m.Specification(ref.Identifier); spec != nil {
				result.Specification = append(result.Specification, deepcopy.Copy(spec).(*Specification))
			}
		}
	}

	if !found {
		return nil, nil
	}
	return result, nil
}
