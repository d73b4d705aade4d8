package model

// Validate checks the consistency of the modules and returns the findings.
// Property values are checked with parsers; a nil parsers skips that check.
func (m *Modules) Validate(parsers ValueParsers) *Report {
	report := &Report{}

	modules := make(map[string]bool)
	specs := make(map[string]bool)
	impls := make(map[string]bool)

	for _, mod := range m.Module {
		if modules[mod.Name] {
			report.Add(NewDetail(DetailModuleName, LevelSevere, "module %q is declared more than once", mod.Name))
		}
		modules[mod.Name] = true

		if mod.Specifications != nil {
			for _, s := range mod.Specifications.Specification {
				if s.Identifier == "" || specs[s.Identifier] {
					report.Add(NewDetail(DetailSpecificationIdentifier, LevelSevere,
						"specification identifier %q of module %q is empty or not unique", s.Identifier, mod.Name))
				}
				specs[s.Identifier] = true
			}
		}

		if mod.Implementations != nil {
			for _, impl := range mod.Implementations.Implementation {
				if impl.Identifier == "" || impls[impl.Identifier] {
					report.Add(NewDetail(DetailImplementationIdentifier, LevelSevere,
						"implementation identifier %q of module %q is empty or not unique", impl.Identifier, mod.Name))
				}
				impls[impl.Identifier] = true
			}
		}
	}

	for _, impl := range m.Implementations() {
		if impl.Parent != "" {
			if _, err := m.chain(impl.Identifier); err != nil {
				report.Add(NewDetail(DetailImplementationParent, LevelSevere, "implementation %q: %v", impl.Identifier, err))
			}
		}

		if impl.Specifications != nil {
			for _, ref := range impl.Specifications.Reference {
				if !specs[ref.Identifier] {
					report.Add(NewDetail(DetailImplementationReference, LevelSevere,
						"implementation %q references unknown specification %q", impl.Identifier, ref.Identifier))
				}
			}
		}

		if impl.Dependencies != nil {
			for _, dep := range impl.Dependencies.Dependency {
				if !specs[dep.Identifier] {
					report.Add(NewDetail(DetailDependencySpecification, LevelSevere,
						"dependency %q of implementation %q references unknown specification %q",
						dep.Name, impl.Identifier, dep.Identifier))
				}
			}
		}

		if parsers != nil && impl.Properties != nil {
			for _, p := range impl.Properties.Property {
				if _, err := p.JavaValue(parsers); err != nil {
					report.Add(NewDetail(DetailPropertyValue, LevelSevere,
						"property %q of implementation %q: %v", p.Name, impl.Identifier, err))
				}
			}
		}
	}

	return report
}
