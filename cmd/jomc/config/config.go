package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"

	"github.com/jomc/jomc/pkg/common"
	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/transformer"
	"github.com/jomc/jomc/pkg/util"
)

// Transformers supported by the CLI.
var Transformers = transformer.All()

// DefaultReportTemplate renders every detail of a validation report.
const DefaultReportTemplate = `{{- range .Details }}
{{ .Level | printf "%-7v" }} {{ .Identifier }}
{{ .Message | wrap 100 | indent 8 }}
{{- end }}
`

// ReportValues describes the values available to report templates.
type ReportValues struct {
	Details []model.Detail `description:"Details of the report, each with an Identifier, a Level and a Message"`
	Valid   bool           `description:"Whether the report contains no SEVERE details"`
}

// Transformer groups the transformer name and its options
type Transformer struct {
	Name    string      `yaml:"name,omitempty" description:"Name of the transformer"`
	Options interface{} `yaml:"options,omitempty" description:"Options for the transformer"`
}

// MarshalYAML implements YAML Marshaler
func (t *Transformer) MarshalYAML() (interface{}, error) {
	return util.MarshalYAMLWithDescriptions(t)
}

// Selection selects the model objects to process.
// An empty selection selects every module.
type Selection struct {
	Modules         []string
	Specifications  []string
	Implementations []string
}

// Empty reports whether nothing is selected explicitly.
func (s *Selection) Empty() bool {
	return len(s.Modules) == 0 && len(s.Specifications) == 0 && len(s.Implementations) == 0
}

// RunOptions contains options for the commit, validate and transform commands.
type RunOptions struct {
	Selection

	Yes              bool
	ConfigPath       string
	ClassesDirectory string
	Workers          int
	WorkersSet       bool
}

// GetOptions contains options for the CLI.
type GetOptions struct {
	Force      bool
	NoComments bool
	All        bool
	OutPath    string
}

// AttributeOptions contains options for the attribute commands.
type AttributeOptions struct {
	Debug  bool
	Decode bool
	Encode bool
}

// JomcOptions options for JOMC.
type JomcOptions struct {
	ClassesDirectory string         `yaml:"classesDirectory" description:"Directory holding the class files to process"`
	Modules          []string       `yaml:"modules,omitempty" description:"Module documents to read, module documents given as arguments are used instead if there are any"`
	ModelIdentifier  string         `yaml:"modelIdentifier" description:"Identifier of the model the modules belong to"`
	Workers          int            `yaml:"workers" description:"Number of class files processed concurrently, 0 processes them one after another and -1 processes all of them at once"`
	LogLevel         string         `yaml:"logLevel" description:"Minimum level of the printed messages: debug, info, warn or error"`
	ReportTemplate   string         `yaml:"reportTemplate" description:"Template for validation reports, Sprig functions are available"`
	Transformers     []*Transformer `yaml:"transformers,omitempty" description:"Transformers to apply to the model objects stored in class files, in order, and their options"`
}

// MarshalYAML implements YAML Marshaler
func (o *JomcOptions) MarshalYAML() (interface{}, error) {
	return util.MarshalYAMLWithDescriptions(o)
}

// DefaultJomcOptions returns the default config
func DefaultJomcOptions() *JomcOptions {
	return &JomcOptions{
		ClassesDirectory: "target/classes",
		Modules:          []string{},
		ModelIdentifier:  common.DefaultModelIdentifier,
		Workers:          0,
		LogLevel:         "info",
		ReportTemplate:   DefaultReportTemplate,
		Transformers:     []*Transformer{},
	}
}

// AllJomcOptions returns the default config with every transformer and its default options.
func AllJomcOptions() *JomcOptions {
	opts := DefaultJomcOptions()
	for _, t := range Transformers {
		opts.Transformers = append(opts.Transformers, &Transformer{
			Name:    t.Name(),
			Options: t.DefaultOptions(),
		})
	}
	return opts
}

// Load reads the configuration document at path, or from r if path is "-",
// and fills in the values it leaves unset from the defaults.
// An empty path returns the defaults.
func Load(path string, r io.Reader) (*JomcOptions, error) {
	if path == "" {
		return DefaultJomcOptions(), nil
	}

	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse parses a configuration document and fills in the values it leaves unset from the defaults.
func Parse(data []byte) (*JomcOptions, error) {
	opts := &JomcOptions{}

	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := mergo.Merge(opts, DefaultJomcOptions()); err != nil {
		return nil, err
	}

	normalizeNames(opts)

	if err := ValidateJomcOptions(opts); err != nil {
		return nil, err
	}

	return opts, nil
}

func normalizeNames(opts *JomcOptions) {
	for _, t := range opts.Transformers {
		t.Name = strings.ToLower(strings.TrimSpace(t.Name))
	}
}

// ValidateJomcOptions validates options
func ValidateJomcOptions(opts *JomcOptions) error {
	if opts.Workers < -1 {
		return fmt.Errorf("invalid number of workers %v", opts.Workers)
	}

	if _, err := ParseLogLevel(opts.LogLevel); err != nil {
		return err
	}

	_, err := GetTransformers(opts)
	return err
}

// ParseLogLevel parses a log level name.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// GetTransformers returns the configured transformers in order.
func GetTransformers(opts *JomcOptions) ([]transformer.Transformer, error) {
	transformers := make([]transformer.Transformer, 0, len(opts.Transformers))

	for _, tOption := range opts.Transformers {
		var found bool
		for _, t := range Transformers {
			if t.Name() == tOption.Name {
				transformers = append(transformers, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf(`transformer with name "%v" not found`, tOption.Name)
		}
	}

	return transformers, nil
}
