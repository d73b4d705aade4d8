package processor

import (
	"context"

	"github.com/jomc/jomc/pkg/classfile"
	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/model"
)

func missingAttribute(name, owner string) model.Detail {
	return model.NewDetail(model.DetailAttributeMissing, model.LevelWarning,
		"%v has no %v attribute, it has not been committed", owner, name)
}

// ValidateSpecification compares the specification stored in the class file with s.
func (p *Processor) ValidateSpecification(cf *classfile.ClassFile, s *model.Specification) ([]model.Detail, error) {
	decoded := &model.Specification{}
	ok, err := decodeAttribute(cf, decoded)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Detail{missingAttribute(model.SpecificationAttribute, s.Class)}, nil
	}

	var details []model.Detail

	if multiplicity(decoded) != multiplicity(s) {
		details = append(details, model.NewDetail(model.DetailSpecificationMultiplicity, model.LevelSevere,
			"class %v was built for multiplicity %v of specification %q, the model declares %v",
			s.Class, multiplicity(decoded), s.Identifier, multiplicity(s)))
	}

	if decoded.Scope != s.Scope {
		details = append(details, model.NewDetail(model.DetailSpecificationScope, model.LevelSevere,
			"class %v was built for scope %q of specification %q, the model declares %q",
			s.Class, decoded.Scope, s.Identifier, s.Scope))
	}

	if decoded.Class != s.Class {
		details = append(details, model.NewDetail(model.DetailSpecificationClass, model.LevelSevere,
			"class %v was built for class %v of specification %q, the model declares %v",
			s.Class, decoded.Class, s.Identifier, s.Class))
	}

	return details, nil
}

// ValidateImplementation compares the model objects stored in the class file
// with the implementation and the specifications it depends on.
func (p *Processor) ValidateImplementation(cf *classfile.ClassFile, impl *model.Implementation) ([]model.Detail, error) {
	var details []model.Detail

	dependencies, err := p.validateDependencies(cf, impl)
	if err != nil {
		return nil, err
	}
	details = append(details, dependencies...)

	properties, err := p.validateProperties(cf, impl)
	if err != nil {
		return nil, err
	}
	details = append(details, properties...)

	messages, err := p.validateMessages(cf, impl)
	if err != nil {
		return nil, err
	}
	details = append(details, messages...)

	specifications, err := p.validateSpecifications(cf, impl)
	if err != nil {
		return nil, err
	}
	details = append(details, specifications...)

	return details, nil
}

func (p *Processor) validateDependencies(cf *classfile.ClassFile, impl *model.Implementation) ([]model.Detail, error) {
	decoded := &model.Dependencies{}
	ok, err := decodeAttribute(cf, decoded)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Detail{missingAttribute(model.DependenciesAttribute, impl.Class)}, nil
	}

	current, err := p.modules.Dependencies(impl.Identifier)
	if err != nil {
		return nil, errs.Wrap(errs.KindModel, err)
	}

	var details []model.Detail
	for _, d := range decoded.Dependency {
		if current.ByName(d.Name) == nil {
			details = append(details, model.NewDetail(model.DetailDependency, model.LevelSevere,
				"class %v requires dependency %q, implementation %q does not declare it",
				impl.Class, d.Name, impl.Identifier))
		}

		spec := p.modules.Specification(d.Identifier)
		if spec == nil {
			details = append(details, model.NewDetail(model.DetailDependencySpecification, model.LevelSevere,
				"class %v requires specification %q for dependency %q, the model does not declare it",
				impl.Class, d.Identifier, d.Name))
			continue
		}

		if d.Multiplicity != "" && d.Multiplicity != multiplicity(spec) {
			details = append(details, model.NewDetail(model.DetailDependencyMultiplicity, model.LevelSevere,
				"class %v was built for multiplicity %v of specification %q of dependency %q, the model declares %v",
				impl.Class, d.Multiplicity, spec.Identifier, d.Name, multiplicity(spec)))
		}

		if d.Version != "" && spec.Version != "" && model.CompareVersions(spec.Version, d.Version) < 0 {
			details = append(details, model.NewDetail(model.DetailDependencyCompatibility, model.LevelSevere,
				"class %v requires version %v of specification %q for dependency %q, the model declares version %v",
				impl.Class, d.Version, spec.Identifier, d.Name, spec.Version))
		}
	}

	return details, nil
}

func (p *Processor) validateProperties(cf *classfile.ClassFile, impl *model.Implementation) ([]model.Detail, error) {
	decoded := &model.Properties{}
	ok, err := decodeAttribute(cf, decoded)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Detail{missingAttribute(model.PropertiesAttribute, impl.Class)}, nil
	}

	current, err := p.modules.Properties(impl.Identifier)
	if err != nil {
		return nil, errs.Wrap(errs.KindModel, err)
	}

	var details []model.Detail
	for _, prop := range decoded.Property {
		cur := current.ByName(prop.Name)
		if cur == nil {
			details = append(details, model.NewDetail(model.DetailProperty, model.LevelSevere,
				"class %v requires property %q, implementation %q does not declare it",
				impl.Class, prop.Name, impl.Identifier))
			continue
		}

		if propertyType(cur) != propertyType(prop) {
			details = append(details, model.NewDetail(model.DetailPropertyType, model.LevelSevere,
				"class %v requires property %q of type %v, implementation %q declares type %v",
				impl.Class, prop.Name, propertyType(prop), impl.Identifier, propertyType(cur)))
		}
	}

	return details, nil
}

func (p *Processor) validateMessages(cf *classfile.ClassFile, impl *model.Implementation) ([]model.Detail, error) {
	decoded := &model.Messages{}
	ok, err := decodeAttribute(cf, decoded)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Detail{missingAttribute(model.MessagesAttribute, impl.Class)}, nil
	}

	current, err := p.modules.Messages(impl.Identifier)
	if err != nil {
		return nil, errs.Wrap(errs.KindModel, err)
	}

	var details []model.Detail
	for _, msg := range decoded.Message {
		if current.ByName(msg.Name) == nil {
			details = append(details, model.NewDetail(model.DetailMessage, model.LevelSevere,
				"class %v requires message %q, implementation %q does not declare it",
				impl.Class, msg.Name, impl.Identifier))
		}
	}

	return details, nil
}

func (p *Processor) validateSpecifications(cf *classfile.ClassFile, impl *model.Implementation) ([]model.Detail, error) {
	decoded := &model.Specifications{}
	ok, err := decodeAttribute(cf, decoded)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Detail{missingAttribute(model.SpecificationsAttribute, impl.Class)}, nil
	}

	var details []model.Detail
	for _, ref := range decoded.Reference {
		spec := p.modules.Specification(ref.Identifier)
		if spec == nil {
			details = append(details, model.NewDetail(model.DetailImplementationSpecification, model.LevelSevere,
				"class %v implements specification %q, the model does not declare it",
				impl.Class, ref.Identifier))
			continue
		}

		if ref.Version != "" && spec.Version != "" && model.CompareVersions(spec.Version, ref.Version) < 0 {
			details = append(details, model.NewDetail(model.DetailImplementationSpecificationCompatibility, model.LevelSevere,
				"class %v implements version %v of specification %q, the model declares version %v",
				impl.Class, ref.Version, spec.Identifier, spec.Version))
		}
	}

	for _, s := range decoded.Specification {
		spec := p.modules.Specification(s.Identifier)
		if spec == nil {
			continue
		}

		if multiplicity(s) != multiplicity(spec) {
			details = append(details, model.NewDetail(model.DetailSpecificationMultiplicity, model.LevelSevere,
				"class %v was built for multiplicity %v of specification %q, the model declares %v",
				impl.Class, multiplicity(s), spec.Identifier, multiplicity(spec)))
		}
	}

	return details, nil
}

func (p *Processor) validate(ctx context.Context, cf *classfile.ClassFile, t target) ([]model.Detail, error) {
	var details []model.Detail

	if t.specification != nil {
		d, err := p.ValidateSpecification(cf, t.specification)
		if err != nil {
			return nil, err
		}
		details = append(details, d...)
	}

	if t.implementation != nil {
		d, err := p.ValidateImplementation(cf, t.implementation)
		if err != nil {
			return nil, err
		}
		details = append(details, d...)
	}

	if len(details) > 0 {
		p.logger(ctx).Debug("Class file validated.", "details", len(details))
	}

	return details, nil
}

// ValidateModelObjects validates the class files of all modules.
func (p *Processor) ValidateModelObjects(ctx context.Context) (*model.Report, error) {
	return p.process(ctx, p.allTargets(), p.validate, false)
}

// ValidateModule validates the class files of the named module.
// A missing module is logged and results in an empty report.
func (p *Processor) ValidateModule(ctx context.Context, name string) (*model.Report, error) {
	targets, ok := p.moduleNamed(ctx, name)
	if !ok {
		return &model.Report{}, nil
	}
	return p.process(ctx, targets, p.validate, false)
}

// ValidateSpecificationByID validates the class file of the specification with the given identifier.
// A missing specification is logged and results in an empty report.
func (p *Processor) ValidateSpecificationByID(ctx context.Context, identifier string) (*model.Report, error) {
	targets, ok := p.specificationNamed(ctx, identifier)
	if !ok {
		return &model.Report{}, nil
	}
	return p.process(ctx, targets, p.validate, false)
}

// ValidateImplementationByID validates the class file of the implementation with the given identifier.
// A missing implementation is logged and results in an empty report.
func (p *Processor) ValidateImplementationByID(ctx context.Context, identifier string) (*model.Report, error) {
	targets, ok := p.implementationNamed(ctx, identifier)
	if !ok {
		return &model.Report{}, nil
	}
	return p.process(ctx, targets, p.validate, false)
}
