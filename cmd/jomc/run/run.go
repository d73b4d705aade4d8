// Package run drives the processor for the commit, validate and transform commands.
package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/jomc/jomc/cmd/jomc/config"
	"github.com/jomc/jomc/pkg/common"
	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/processor"
)

// Setup reads the module documents and returns a processor for them.
// Module documents given as paths are used instead of the configured ones.
func Setup(logger *slog.Logger, cliOpts *config.RunOptions, options *config.JomcOptions, paths []string) (*processor.Processor, error) {
	if cliOpts.ClassesDirectory != "" {
		options.ClassesDirectory = cliOpts.ClassesDirectory
	}
	if cliOpts.WorkersSet {
		options.Workers = cliOpts.Workers
	}
	if len(paths) == 0 {
		paths = options.Modules
	}
	if len(paths) == 0 {
		return nil, errs.ErrMissing("module document", "pass module documents as arguments or list them under modules in the configuration")
	}
	if options.ClassesDirectory == "" {
		return nil, errs.ErrMissing("classes directory", "use --classes or set classesDirectory in the configuration")
	}

	modules, err := model.ReadFiles(paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Read module documents.", "documents", len(paths), "modules", len(modules.Module))

	tool := &common.ToolContext{
		Logger:           logger,
		ClassesDirectory: options.ClassesDirectory,
		Workers:          options.Workers,
		ModelIdentifier:  options.ModelIdentifier,
		ValueParsers:     model.DefaultValueParsers(),
	}

	return processor.New(tool, modules)
}

// Commit commits the selected model objects.
func Commit(ctx context.Context, p *processor.Processor, sel *config.Selection) error {
	if sel.Empty() {
		return p.CommitModelObjects(ctx)
	}

	for _, name := range sel.Modules {
		if err := p.CommitModule(ctx, name); err != nil {
			return err
		}
	}
	for _, id := range sel.Specifications {
		if err := p.CommitSpecificationByID(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range sel.Implementations {
		if err := p.CommitImplementationByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

// Validate validates the modules, then the class files of the selected model objects.
// Class files are not validated if the modules are invalid.
func Validate(ctx context.Context, p *processor.Processor, sel *config.Selection) (*model.Report, error) {
	report := p.ValidateModules()
	if !report.Valid() {
		common.LoggerFrom(ctx, nil).Warn("Modules are invalid, class files are not validated.")
		return report, nil
	}

	add := func(r *model.Report, err error) error {
		if err != nil {
			return err
		}
		report.Add(r.Details...)
		return nil
	}

	if sel.Empty() {
		return report, add(p.ValidateModelObjects(ctx))
	}

	for _, name := range sel.Modules {
		if err := add(p.ValidateModule(ctx, name)); err != nil {
			return nil, err
		}
	}
	for _, id := range sel.Specifications {
		if err := add(p.ValidateSpecificationByID(ctx, id)); err != nil {
			return nil, err
		}
	}
	for _, id := range sel.Implementations {
		if err := add(p.ValidateImplementationByID(ctx, id)); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// Transformations returns the configured transformers with their options.
func Transformations(options *config.JomcOptions) ([]processor.Transformation, error) {
	transformers, err := config.GetTransformers(options)
	if err != nil {
		return nil, err
	}

	transformations := make([]processor.Transformation, 0, len(transformers))
	for i, t := range transformers {
		transformations = append(transformations, processor.Transformation{
			Transformer: t,
			Options:     options.Transformers[i].Options,
		})
	}

	return transformations, nil
}

// Transform applies the transformations to the selected model objects.
func Transform(ctx context.Context, p *processor.Processor, transformations []processor.Transformation, sel *config.Selection) error {
	if sel.Empty() {
		return p.TransformModelObjects(ctx, transformations)
	}

	for _, name := range sel.Modules {
		if err := p.TransformModule(ctx, name, transformations); err != nil {
			return err
		}
	}
	for _, id := range sel.Specifications {
		if err := p.TransformSpecificationByID(ctx, id, transformations); err != nil {
			return err
		}
	}
	for _, id := range sel.Implementations {
		if err := p.TransformImplementationByID(ctx, id, transformations); err != nil {
			return err
		}
	}

	return nil
}

// RenderReport renders the report with the given template.
func RenderReport(w io.Writer, text string, report *model.Report) error {
	templ, err := template.New("report").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("invalid report template: %w", err)
	}

	if err := templ.Execute(w, report); err != nil {
		return fmt.Errorf("invalid report template: %w", err)
	}

	return nil
}
