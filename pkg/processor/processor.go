// Package processor commits model objects to class files, validates class
// files against the model they were built from, and transforms the model
// objects stored in class files.
//
// Model objects are stored as class file attributes named after their type
// (see the attribute name constants of package model). A specification is
// stored in the class file of its class, an implementation in the class
// file of its class; when both share a class file they are processed by a
// single task, so the file is read and written once.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jomc/jomc/pkg/batch"
	"github.com/jomc/jomc/pkg/classfile"
	"github.com/jomc/jomc/pkg/codec"
	"github.com/jomc/jomc/pkg/common"
	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/model"
)

// Processor processes the class files of a set of modules.
// It holds no mutable state and is safe for concurrent use.
type Processor struct {
	tool    *common.ToolContext
	modules *model.Modules
}

// New returns a processor for the given modules. Unset values of tool are defaulted.
// The modules must belong to the JOMC object model.
func New(tool *common.ToolContext, modules *model.Modules) (*Processor, error) {
	if tool == nil {
		tool = &common.ToolContext{}
	}
	if modules == nil {
		modules = &model.Modules{}
	}

	tool = tool.Defaults()
	if tool.ModelIdentifier != common.DefaultModelIdentifier {
		return nil, errs.Model("unsupported model %q", tool.ModelIdentifier)
	}

	return &Processor{
		tool:    tool,
		modules: modules,
	}, nil
}

// Modules returns the modules of the processor.
func (p *Processor) Modules() *model.Modules {
	return p.modules
}

// ValidateModules validates the modules of the processor, parsing property
// values with the value parsers of the tool context.
func (p *Processor) ValidateModules() *model.Report {
	return p.modules.Validate(p.tool.ValueParsers)
}

// target is a model object and the class file it is stored in.
type target struct {
	path           string
	specification  *model.Specification
	implementation *model.Implementation
}

// operation processes one model object of a parsed class file.
type operation func(ctx context.Context, cf *classfile.ClassFile, t target) ([]model.Detail, error)

// ClassFile returns the path of the class file of the class with the given binary name.
func (p *Processor) ClassFile(class string) string {
	return filepath.Join(p.tool.ClassesDirectory, filepath.FromSlash(model.ClassFilePath(class)))
}

func (p *Processor) specificationTargets(specs ...*model.Specification) []target {
	var targets []target
	for _, s := range specs {
		if !s.ClassDeclaration || s.Class == "" {
			continue
		}
		targets = append(targets, target{path: p.ClassFile(s.Class), specification: s})
	}
	return targets
}

func (p *Processor) implementationTargets(impls ...*model.Implementation) []target {
	var targets []target
	for _, i := range impls {
		if !i.ClassDeclaration || i.Class == "" {
			continue
		}
		targets = append(targets, target{path: p.ClassFile(i.Class), implementation: i})
	}
	return targets
}

func (p *Processor) moduleTargets(mod *model.Module) []target {
	var targets []target
	if mod.Specifications != nil {
		targets = append(targets, p.specificationTargets(mod.Specifications.Specification...)...)
	}
	if mod.Implementations != nil {
		targets = append(targets, p.implementationTargets(mod.Implementations.Implementation...)...)
	}
	return targets
}

func (p *Processor) allTargets() []target {
	var targets []target
	for _, mod := range p.modules.Module {
		targets = append(targets, p.moduleTargets(mod)...)
	}
	return targets
}

// moduleNamed returns the targets of the named module, or false if there is no such module.
func (p *Processor) moduleNamed(ctx context.Context, name string) ([]target, bool) {
	mod := p.modules.ByName(name)
	if mod == nil {
		p.logger(ctx).Warn("Module not found.", "module", name)
		return nil, false
	}
	return p.moduleTargets(mod), true
}

func (p *Processor) specificationNamed(ctx context.Context, identifier string) ([]target, bool) {
	spec := p.modules.Specification(identifier)
	if spec == nil {
		p.logger(ctx).Warn("Specification not found.", "specification", identifier)
		return nil, false
	}
	return p.specificationTargets(spec), true
}

func (p *Processor) implementationNamed(ctx context.Context, identifier string) ([]target, bool) {
	impl := p.modules.Implementation(identifier)
	if impl == nil {
		p.logger(ctx).Warn("Implementation not found.", "implementation", identifier)
		return nil, false
	}
	return p.implementationTargets(impl), true
}

func (p *Processor) logger(ctx context.Context) *slog.Logger {
	return common.LoggerFrom(ctx, p.tool.Logger)
}

// process runs op for every target, with one task per class file.
// The class file is written back if write is set and every op succeeded.
func (p *Processor) process(ctx context.Context, targets []target, op operation, write bool) (*model.Report, error) {
	logger := p.logger(ctx)

	info, err := os.Stat(p.tool.ClassesDirectory)
	if err != nil || !info.IsDir() {
		logger.Warn("Classes directory not found.", "directory", p.tool.ClassesDirectory)
		return &model.Report{}, nil
	}

	groups := batch.Coalesce(targets, func(t target) string { return t.path })

	tasks := make([]batch.Task, 0, len(groups))
	for _, g := range groups {
		g := g
		tasks = append(tasks, batch.Task{
			Target: g.Target,
			Run: func(ctx context.Context) batch.Result {
				return p.processFile(ctx, g.Target, g.Items, op, write)
			},
		})
	}

	runner := &batch.Runner{
		Workers: p.tool.Workers,
		Logger:  logger,
	}

	return runner.Run(ctx, tasks)
}

func (p *Processor) processFile(ctx context.Context, path string, targets []target, op operation, write bool) batch.Result {
	logger := p.logger(ctx)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Class file not found.")
		return batch.Success()
	}

	cf, err := classfile.ReadFile(path)
	if err != nil {
		return batch.Failure(errs.IO(err))
	}

	var details []model.Detail
	for _, t := range targets {
		d, err := op(ctx, cf, t)
		if err != nil {
			return batch.Failure(err)
		}
		details = append(details, d...)
	}

	if write {
		if err := classfile.WriteFile(path, cf); err != nil {
			return batch.Failure(errs.IO(err))
		}
		logger.Debug("Class file written.")
	}

	return batch.Success(details...)
}

// decodeAttribute decodes the attribute named after the type of v into v.
// It reports false if the class file has no such attribute.
func decodeAttribute(cf *classfile.ClassFile, v interface{}) (bool, error) {
	name, err := codec.AttributeName(v)
	if err != nil {
		return false, errs.Runtime(err)
	}

	data, ok := cf.Attribute(name)
	if !ok {
		return false, nil
	}

	if err := codec.Decode(data, v); err != nil {
		return false, errs.IO(fmt.Errorf("unable to decode attribute %v: %w", name, err))
	}

	return true, nil
}

// encodeAttribute stores v in the attribute named after its type.
func encodeAttribute(cf *classfile.ClassFile, v interface{}) error {
	name, err := codec.AttributeName(v)
	if err != nil {
		return errs.Runtime(err)
	}

	data, err := codec.Encode(v)
	if err != nil {
		return errs.IO(fmt.Errorf("unable to encode attribute %v: %w", name, err))
	}

	if err := cf.SetAttribute(name, data); err != nil {
		return errs.IO(err)
	}

	return nil
}

func multiplicity(s *model.Specification) model.Multiplicity {
	if s.Multiplicity == "" {
		return model.MultiplicityMany
	}
	return s.Multiplicity
}

func propertyType(p *model.Property) string {
	if p.Type == "" {
		return model.DefaultPropertyType
	}
	return p.Type
}
