package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/jomc/jomc/cmd/jomc/config"
	"github.com/jomc/jomc/cmd/jomc/run"
	"github.com/jomc/jomc/pkg/common"
	"github.com/jomc/jomc/pkg/processor"
	"github.com/jomc/jomc/pkg/util/cli"
)

func init() {
	rootCmd.AddCommand(commitCommand())
	rootCmd.AddCommand(validateCommand())
	rootCmd.AddCommand(transformCommand())
}

func runFlags(cmd *cobra.Command, runOpts *config.RunOptions) {
	cmd.Flags().StringVarP(&runOpts.ConfigPath, "config", "c", "", "path to the configuration file or - for stdin")
	cmd.Flags().StringVarP(&runOpts.ClassesDirectory, "classes", "d", "", "the directory holding the class files, this overrides the value in the config")
	cmd.Flags().IntVarP(&runOpts.Workers, "workers", "w", 0, "number of class files processed concurrently, 0 for sequential and -1 for unbounded, this overrides the value in the config")
	cmd.Flags().StringSliceVarP(&runOpts.Modules, "module", "m", nil, "names of the modules to process")
	cmd.Flags().StringSliceVarP(&runOpts.Specifications, "specification", "", nil, "identifiers of the specifications to process")
	cmd.Flags().StringSliceVarP(&runOpts.Implementations, "implementation", "", nil, "identifiers of the implementations to process")
}

// setup loads the configuration and the module documents.
func setup(cmd *cobra.Command, runOpts *config.RunOptions, args []string) (context.Context, *config.JomcOptions, *processor.Processor, error) {
	runOpts.WorkersSet = cmd.Flags().Changed("workers")

	opts, err := config.Load(runOpts.ConfigPath, os.Stdin)
	if err != nil {
		return nil, nil, nil, err
	}
	if runOpts.ConfigPath != "" {
		cli.Verboseln("Using config from \"" + runOpts.ConfigPath + "\".")
	}

	level, err := config.ParseLogLevel(opts.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	if !cmd.Flags().Changed("verbose") && !cmd.Flags().Changed("silent") {
		cli.Verbose = level <= slog.LevelDebug
		cli.Silent = level >= slog.LevelError
	}

	logger := newLogger()

	p, err := run.Setup(logger, runOpts, opts, args)
	if err != nil {
		return nil, nil, nil, err
	}

	return common.WithLogger(cmd.Context(), logger), opts, p, nil
}

func commitCommand() *cobra.Command {
	runOpts := &config.RunOptions{}

	cmd := &cobra.Command{
		Use:          "commit [flags] [module documents]",
		Short:        "Commit model objects to class files",
		Aliases:      []string{"c"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, p, err := setup(cmd, runOpts, args)
			if err != nil {
				return err
			}

			if err := run.Commit(ctx, p, &runOpts.Selection); err != nil {
				return fmt.Errorf("commit failed: %w", err)
			}

			cli.Successln("All done!")
			return nil
		},
	}
	runFlags(cmd, runOpts)

	return cmd
}

func validateCommand() *cobra.Command {
	runOpts := &config.RunOptions{}

	cmd := &cobra.Command{
		Use:          "validate [flags] [module documents]",
		Short:        "Validate class files against the model",
		Aliases:      []string{"val"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, opts, p, err := setup(cmd, runOpts, args)
			if err != nil {
				return err
			}

			report, err := run.Validate(ctx, p, &runOpts.Selection)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if err := run.RenderReport(cli.Output, opts.ReportTemplate, report); err != nil {
				return err
			}

			if !report.Valid() {
				return fmt.Errorf("class files are invalid")
			}

			cli.Successln("Class files are valid.")
			return nil
		},
	}
	runFlags(cmd, runOpts)

	return cmd
}

func transformCommand() *cobra.Command {
	runOpts := &config.RunOptions{}

	cmd := &cobra.Command{
		Use:          "transform [flags] [module documents]",
		Short:        "Transform the model objects stored in class files",
		Aliases:      []string{"t"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, opts, p, err := setup(cmd, runOpts, args)
			if err != nil {
				return err
			}

			transformations, err := run.Transformations(opts)
			if err != nil {
				return err
			}
			if len(transformations) == 0 {
				cli.Warningln("No transformers configured.")
				return nil
			}

			if !runOpts.Yes {
				cont := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf(`transform the class files in "%v"?`, opts.ClassesDirectory),
				}
				if err := survey.AskOne(prompt, &cont); err != nil {
					return err
				}
				if !cont {
					return fmt.Errorf("aborted")
				}
			}

			if err := run.Transform(ctx, p, transformations, &runOpts.Selection); err != nil {
				return fmt.Errorf("transform failed: %w", err)
			}

			cli.Successln("All done!")
			return nil
		},
	}
	runFlags(cmd, runOpts)
	cmd.Flags().BoolVarP(&runOpts.Yes, "yes", "y", false, "answer to all prompts with the default answers")

	return cmd
}
