package processor

import (
	"context"
	"fmt"

	"github.com/jomc/jomc/pkg/classfile"
	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/transformer"
)

// Transformation is a transformer with its options.
type Transformation struct {
	Transformer transformer.Transformer
	Options     interface{}
}

func (p *Processor) applyTransformations(ctx context.Context, objects *model.Objects, transformations []Transformation) error {
	for _, t := range transformations {
		if err := t.Transformer.Transform(ctx, t.Options, objects); err != nil {
			return errs.IO(fmt.Errorf("transformer %v failed: %w", t.Transformer.Name(), err))
		}
	}
	return nil
}

// TransformSpecification transforms the specification stored in the class file.
// A class file without a stored specification is left unchanged.
func (p *Processor) TransformSpecification(ctx context.Context, cf *classfile.ClassFile, s *model.Specification, transformations []Transformation) error {
	decoded := &model.Specification{}
	ok, err := decodeAttribute(cf, decoded)
	if err != nil {
		return err
	}
	if !ok {
		p.logger(ctx).Warn("Nothing to transform.", "specification", s.Identifier, "attribute", model.SpecificationAttribute)
		return nil
	}

	objects := &model.Objects{Specification: decoded}
	if err := p.applyTransformations(ctx, objects, transformations); err != nil {
		return err
	}

	if objects.Specification == nil {
		return nil
	}
	return encodeAttribute(cf, objects.Specification)
}

// TransformImplementation transforms the dependencies, properties, messages and
// specifications stored in the class file. Only stored objects are transformed.
func (p *Processor) TransformImplementation(ctx context.Context, cf *classfile.ClassFile, impl *model.Implementation, transformations []Transformation) error {
	objects := &model.Objects{}

	dependencies := &model.Dependencies{}
	properties := &model.Properties{}
	messages := &model.Messages{}
	specifications := &model.Specifications{}

	for _, o := range []struct {
		v   interface{}
		set func()
	}{
		{dependencies, func() { objects.Dependencies = dependencies }},
		{properties, func() { objects.Properties = properties }},
		{messages, func() { objects.Messages = messages }},
		{specifications, func() { objects.Specifications = specifications }},
	} {
		ok, err := decodeAttribute(cf, o.v)
		if err != nil {
			return err
		}
		if ok {
			o.set()
		}
	}

	if objects.Dependencies == nil && objects.Properties == nil &&
		objects.Messages == nil && objects.Specifications == nil {
		p.logger(ctx).Warn("Nothing to transform.", "implementation", impl.Identifier)
		return nil
	}

	if err := p.applyTransformations(ctx, objects, transformations); err != nil {
		return err
	}

	var stored []interface{}
	if objects.Dependencies != nil {
		stored = append(stored, objects.Dependencies)
	}
	if objects.Properties != nil {
		stored = append(stored, objects.Properties)
	}
	if objects.Messages != nil {
		stored = append(stored, objects.Messages)
	}
	if objects.Specifications != nil {
		stored = append(stored, objects.Specifications)
	}

	for _, v := range stored {
		if err := encodeAttribute(cf, v); err != nil {
			return err
		}
	}

	return nil
}

func (p *Processor) transform(transformations []Transformation) operation {
	return func(ctx context.Context, cf *classfile.ClassFile, t target) ([]model.Detail, error) {
		logger := p.logger(ctx)

		if t.specification != nil {
			if err := p.TransformSpecification(ctx, cf, t.specification, transformations); err != nil {
				return nil, err
			}
			logger.Info("Transformed specification.", "specification", t.specification.Identifier)
		}

		if t.implementation != nil {
			if err := p.TransformImplementation(ctx, cf, t.implementation, transformations); err != nil {
				return nil, err
			}
			logger.Info("Transformed implementation.", "implementation", t.implementation.Identifier)
		}

		return nil, nil
	}
}

// TransformModelObjects transforms the model objects stored in the class files of all modules.
func (p *Processor) TransformModelObjects(ctx context.Context, transformations []Transformation) error {
	_, err := p.process(ctx, p.allTargets(), p.transform(transformations), true)
	return err
}

// TransformModule transforms the model objects stored in the class files of the named module.
// A missing module is logged and skipped.
func (p *Processor) TransformModule(ctx context.Context, name string, transformations []Transformation) error {
	targets, ok := p.moduleNamed(ctx, name)
	if !ok {
		return nil
	}
	_, err := p.process(ctx, targets, p.transform(transformations), true)
	return err
}

// TransformSpecificationByID transforms the specification with the given identifier.
// A missing specification is logged and skipped.
func (p *Processor) TransformSpecificationByID(ctx context.Context, identifier string, transformations []Transformation) error {
	targets, ok := p.specificationNamed(ctx, identifier)
	if !ok {
		return nil
	}
	_, err := p.process(ctx, targets, p.transform(transformations), true)
	return err
}

// TransformImplementationByID transforms the implementation with the given identifier.
// A missing implementation is logged and skipped.
func (p *Processor) TransformImplementationByID(ctx context.Context, identifier string, transformations []Transformation) error {
	targets, ok := p.implementationNamed(ctx, identifier)
	if !ok {
		return nil
	}
	_, err := p.process(ctx, targets, p.transform(transformations), true)
	return err
}
