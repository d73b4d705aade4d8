package processor

import (
	"context"

	"github.com/mohae/deepcopy"

	"github.com/jomc/jomc/pkg/classfile"
	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/model"
)

// CommitSpecification stores the specification in the class file.
func (p *Processor) CommitSpecification(cf *classfile.ClassFile, s *model.Specification) error {
	return encodeAttribute(cf, deepcopy.Copy(s).(*model.Specification))
}

// CommitImplementation stores the dependencies, properties, messages and
// implemented specifications of the implementation in the class file,
// including those inherited from its parents. Empty sets are stored as well.
func (p *Processor) CommitImplementation(cf *classfile.ClassFile, impl *model.Implementation) error {
	deps, err := p.modules.Dependencies(impl.Identifier)
	if err != nil {
		return errs.Wrap(errs.KindModel, err)
	}
	if deps == nil {
		deps = &model.Dependencies{}
	}
	for _, d := range deps.Dependency {
		if spec := p.modules.Specification(d.Identifier); spec != nil {
			d.Multiplicity = multiplicity(spec)
		}
	}

	props, err := p.modules.Properties(impl.Identifier)
	if err != nil {
		return errs.Wrap(errs.KindModel, err)
	}
	if props == nil {
		props = &model.Properties{}
	}

	msgs, err := p.modules.Messages(impl.Identifier)
	if err != nil {
		return errs.Wrap(errs.KindModel, err)
	}
	if msgs == nil {
		msgs = &model.Messages{}
	}

	specs, err := p.modules.ImplementedSpecifications(impl.Identifier)
	if err != nil {
		return errs.Wrap(errs.KindModel, err)
	}
	if specs == nil {
		specs = &model.Specifications{}
	}

	for _, v := range []interface{}{deps, props, msgs, specs} {
		if err := encodeAttribute(cf, v); err != nil {
			return err
		}
	}

	return nil
}

func (p *Processor) commit(ctx context.Context, cf *classfile.ClassFile, t target) ([]model.Detail, error) {
	logger := p.logger(ctx)

	if t.specification != nil {
		if err := p.CommitSpecification(cf, t.specification); err != nil {
			return nil, err
		}
		logger.Info("Committed specification.", "specification", t.specification.Identifier)
	}

	if t.implementation != nil {
		if err := p.CommitImplementation(cf, t.implementation); err != nil {
			return nil, err
		}
		logger.Info("Committed implementation.", "implementation", t.implementation.Identifier)
	}

	return nil, nil
}

// CommitModelObjects commits the model objects of all modules to their class files.
func (p *Processor) CommitModelObjects(ctx context.Context) error {
	_, err := p.process(ctx, p.allTargets(), p.commit, true)
	return err
}

// CommitModule commits the model objects of the named module.
// A missing module is logged and skipped.
func (p *Processor) CommitModule(ctx context.Context, name string) error {
	targets, ok := p.moduleNamed(ctx, name)
	if !ok {
		return nil
	}
	_, err := p.process(ctx, targets, p.commit, true)
	return err
}

// CommitSpecificationByID commits the specification with the given identifier.
// A missing specification is logged and skipped.
func (p *Processor) CommitSpecificationByID(ctx context.Context, identifier string) error {
	targets, ok := p.specificationNamed(ctx, identifier)
	if !ok {
		return nil
	}
	_, err := p.process(ctx, targets, p.commit, true)
	return err
}

// CommitImplementationByID commits the implementation with the given identifier.
// A missing implementation is logged and skipped.
func (p *Processor) CommitImplementationByID(ctx context.Context, identifier string) error {
	targets, ok := p.implementationNamed(ctx, identifier)
	if !ok {
		return nil
	}
	_, err := p.process(ctx, targets, p.commit, true)
	return err
}
