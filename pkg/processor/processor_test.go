package processor_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomc/jomc/pkg/classfile"
	"github.com/jomc/jomc/pkg/classfile/classfiletest"
	"github.com/jomc/jomc/pkg/codec"
	"github.com/jomc/jomc/pkg/common"
	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/model"
	"github.com/jomc/jomc/pkg/processor"
	"github.com/jomc/jomc/pkg/transformer"
)

var classes = []string{
	"com.example.Greeter",
	"com.example.Clock",
	"com.example.BaseGreeter",
	"com.example.DefaultGreeter",
}

type fixture struct {
	dir       string
	modules   *model.Modules
	processor *processor.Processor
	log       *bytes.Buffer
}

func newFixture(t *testing.T, workers int) *fixture {
	t.Helper()

	modules, err := model.ReadFiles("testdata/modules.xml")
	require.NoError(t, err)

	dir := t.TempDir()
	for _, class := range classes {
		classfiletest.WriteClass(t, dir, class)
	}

	log := &bytes.Buffer{}
	tool := &common.ToolContext{
		Logger:           slog.New(slog.NewTextHandler(log, &slog.HandlerOptions{Level: slog.LevelDebug})),
		ClassesDirectory: dir,
		Workers:          workers,
	}

	p, err := processor.New(tool, modules)
	require.NoError(t, err)

	return &fixture{
		dir:       dir,
		modules:   modules,
		processor: p,
		log:       log,
	}
}

func (f *fixture) read(t *testing.T, class string) *classfile.ClassFile {
	t.Helper()
	cf, err := classfile.ReadFile(f.processor.ClassFile(class))
	require.NoError(t, err)
	return cf
}

func decode(t *testing.T, cf *classfile.ClassFile, v interface{}) {
	t.Helper()
	name, err := codec.AttributeName(v)
	require.NoError(t, err)
	data, ok := cf.Attribute(name)
	require.True(t, ok, "missing attribute %v", name)
	require.NoError(t, codec.Decode(data, v))
}

func countDetails(report *model.Report) map[string]int {
	counts := make(map[string]int)
	for _, d := range report.Details {
		counts[d.Identifier]++
	}
	return counts
}

func TestCommit(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	require.NoError(t, f.processor.CommitModelObjects(ctx))

	clock := f.read(t, "com.example.Clock")
	assert.Equal(t, []string{"SourceFile", "Deprecated", model.SpecificationAttribute}, clock.AttributeNames())

	spec := &model.Specification{}
	decode(t, clock, spec)
	assert.Equal(t, "com.example.Clock", spec.Identifier)
	assert.Equal(t, model.MultiplicityOne, spec.Multiplicity)

	greeter := f.read(t, "com.example.Greeter")
	assert.ElementsMatch(t, []string{
		"SourceFile",
		"Deprecated",
		model.SpecificationAttribute,
		model.DependenciesAttribute,
		model.PropertiesAttribute,
		model.MessagesAttribute,
		model.SpecificationsAttribute,
	}, greeter.AttributeNames())

	deps := &model.Dependencies{}
	decode(t, greeter, deps)
	assert.Empty(t, deps.Dependency)

	impl := f.read(t, "com.example.DefaultGreeter")

	deps = &model.Dependencies{}
	decode(t, impl, deps)
	require.Len(t, deps.Dependency, 2)
	assert.Equal(t, "System", deps.ByName("clock").ImplementationName)
	assert.Equal(t, model.MultiplicityOne, deps.ByName("clock").Multiplicity)
	assert.Equal(t, "1.0", deps.ByName("locale").Version)

	props := &model.Properties{}
	decode(t, impl, props)
	assert.Equal(t, "3", props.ByName("times").Value)
	assert.NotNil(t, props.ByName("greeting"))

	msgs := &model.Messages{}
	decode(t, impl, msgs)
	assert.NotNil(t, msgs.ByName("hello"))

	specs := &model.Specifications{}
	decode(t, impl, specs)
	require.Len(t, specs.Reference, 1)
	assert.Equal(t, "1.2", specs.Reference[0].Version)
}

func TestCommitIndependentOfWorkers(t *testing.T) {
	var want map[string][]byte

	for _, workers := range []int{0, -1, 4} {
		f := newFixture(t, workers)
		require.NoError(t, f.processor.CommitModelObjects(context.Background()))

		got := make(map[string][]byte)
		for _, class := range classes {
			data, err := os.ReadFile(f.processor.ClassFile(class))
			require.NoError(t, err)
			got[class] = data
		}

		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestCommitTwiceIsStable(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, f.processor.CommitModelObjects(ctx))
	first, err := os.ReadFile(f.processor.ClassFile("com.example.DefaultGreeter"))
	require.NoError(t, err)

	require.NoError(t, f.processor.CommitImplementationByID(ctx, "com.example.DefaultGreeter"))
	second, err := os.ReadFile(f.processor.ClassFile("com.example.DefaultGreeter"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidate(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	report, err := f.processor.ValidateModelObjects(ctx)
	require.NoError(t, err)
	assert.True(t, report.Valid())
	assert.Equal(t, map[string]int{model.DetailAttributeMissing: 14}, countDetails(report))

	require.NoError(t, f.processor.CommitModelObjects(ctx))

	report, err = f.processor.ValidateModelObjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Details)

	clock := f.modules.Specification("com.example.Clock")
	clock.Multiplicity = model.MultiplicityMany
	clock.Version = "1.5"
	clock.Scope = "Thread"
	f.modules.Specification("com.example.Greeter").Version = "1.1"
	f.modules.Implementation("com.example.BaseGreeter").Messages = nil
	f.modules.Implementation("com.example.DefaultGreeter").Properties.ByName("times").Type = "long"

	report, err = f.processor.ValidateModelObjects(ctx)
	require.NoError(t, err)
	assert.False(t, report.Valid())
	assert.Equal(t, map[string]int{
		model.DetailSpecificationMultiplicity:                1,
		model.DetailSpecificationScope:                       1,
		model.DetailDependencyMultiplicity:                   4,
		model.DetailDependencyCompatibility:                  1,
		model.DetailMessage:                                  2,
		model.DetailPropertyType:                             1,
		model.DetailImplementationSpecificationCompatibility: 1,
	}, countDetails(report))
}

func TestValidateByID(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	require.NoError(t, f.processor.CommitModule(ctx, "Example Implementation"))

	report, err := f.processor.ValidateImplementationByID(ctx, "com.example.DefaultGreeter")
	require.NoError(t, err)
	assert.Empty(t, report.Details)

	report, err = f.processor.ValidateSpecificationByID(ctx, "com.example.Clock")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{model.DetailAttributeMissing: 1}, countDetails(report))

	report, err = f.processor.ValidateModule(ctx, "Example API")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{model.DetailAttributeMissing: 6}, countDetails(report))
}

func TestNotFoundIsSkipped(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	require.NoError(t, f.processor.CommitModule(ctx, "Missing"))
	require.NoError(t, f.processor.CommitSpecificationByID(ctx, "com.example.Missing"))
	require.NoError(t, f.processor.CommitImplementationByID(ctx, "com.example.Missing"))

	report, err := f.processor.ValidateModule(ctx, "Missing")
	require.NoError(t, err)
	assert.Empty(t, report.Details)

	require.NoError(t, os.Remove(f.processor.ClassFile("com.example.Clock")))
	require.NoError(t, f.processor.CommitModelObjects(ctx))
	_, ok := f.read(t, "com.example.DefaultGreeter").Attribute(model.DependenciesAttribute)
	assert.True(t, ok)

	missing, err := processor.New(&common.ToolContext{
		Logger:           slog.New(slog.NewTextHandler(f.log, nil)),
		ClassesDirectory: filepath.Join(f.dir, "missing"),
	}, f.modules)
	require.NoError(t, err)
	require.NoError(t, missing.CommitModelObjects(ctx))

	log := f.log.String()
	for _, msg := range []string{
		"Module not found.",
		"Specification not found.",
		"Implementation not found.",
		"Class file not found.",
		"Classes directory not found.",
	} {
		assert.Contains(t, log, msg)
	}
}

func TestTransform(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	require.NoError(t, f.processor.CommitModelObjects(ctx))

	err := f.processor.TransformImplementationByID(ctx, "com.example.DefaultGreeter", []processor.Transformation{
		{Transformer: &transformer.PropertyNames{}, Options: map[string]interface{}{"case": "screamingSnake"}},
		{Transformer: &transformer.Default{}},
	})
	require.NoError(t, err)

	props := &model.Properties{}
	decode(t, f.read(t, "com.example.DefaultGreeter"), props)
	names := make([]string, 0, len(props.Property))
	for _, p := range props.Property {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"GREETING", "LOUD", "TIMES"}, names)

	report, err := f.processor.ValidateImplementationByID(ctx, "com.example.DefaultGreeter")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{model.DetailProperty: 3}, countDetails(report))

	err = f.processor.TransformModule(ctx, "Example API", []processor.Transformation{
		{Transformer: &transformer.Vendor{}, Options: map[string]interface{}{"template": "{{ .Identifier | upper }}"}},
	})
	require.NoError(t, err)

	spec := &model.Specification{}
	decode(t, f.read(t, "com.example.Clock"), spec)
	assert.Equal(t, "COM.EXAMPLE.CLOCK", spec.Vendor)
}

func TestTransformFailureIsIO(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, f.processor.CommitModelObjects(ctx))
	before, err := os.ReadFile(f.processor.ClassFile("com.example.Clock"))
	require.NoError(t, err)

	err = f.processor.TransformModelObjects(ctx, []processor.Transformation{
		{Transformer: &transformer.Vendor{}, Options: map[string]interface{}{"template": "{{ .Nope"}},
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindIO, errs.KindOf(err))

	after, err := os.ReadFile(f.processor.ClassFile("com.example.Clock"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCorruptAttributeIsIO(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	path := f.processor.ClassFile("com.example.BaseGreeter")
	cf := f.read(t, "com.example.BaseGreeter")
	require.NoError(t, cf.SetAttribute(model.DependenciesAttribute, []byte("not a payload")))
	require.NoError(t, classfile.WriteFile(path, cf))

	_, err := f.processor.ValidateImplementationByID(ctx, "com.example.BaseGreeter")
	require.Error(t, err)
	assert.Equal(t, errs.KindIO, errs.KindOf(err))
	assert.True(t, strings.Contains(err.Error(), model.DependenciesAttribute))
}

func TestModelErrorKeepsKind(t *testing.T) {
	modules, err := model.Read(strings.NewReader(`
<modules>
  <module name="m">
    <implementations>
      <implementation identifier="a" name="a" class="com.example.A" classDeclaration="true" parent="b"/>
      <implementation identifier="b" name="b" parent="a"/>
    </implementations>
  </module>
</modules>`))
	require.NoError(t, err)

	dir := t.TempDir()
	classfiletest.WriteClass(t, dir, "com.example.A")

	p, err := processor.New(&common.ToolContext{ClassesDirectory: dir, Workers: 2}, modules)
	require.NoError(t, err)
	err = p.CommitModelObjects(context.Background())
	require.Error(t, err)
	assert.Equal(t, errs.KindModel, errs.KindOf(err))
	assert.Contains(t, err.Error(), "cycle")
}

func TestNewRejectsForeignModel(t *testing.T) {
	_, err := processor.New(&common.ToolContext{ModelIdentifier: "urn:other"}, nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindModel, errs.KindOf(err))

	p, err := processor.New(nil, nil)
	require.NoError(t, err)
	assert.True(t, p.ValidateModules().Valid())
}

func TestValidateModulesUsesToolParsers(t *testing.T) {
	f := newFixture(t, 0)

	assert.Zero(t, countDetails(f.processor.ValidateModules())[model.DetailPropertyValue])

	p, err := processor.New(&common.ToolContext{ValueParsers: model.ValueParsers{}}, f.modules)
	require.NoError(t, err)

	report := p.ValidateModules()
	assert.False(t, report.Valid())
	assert.Positive(t, countDetails(report)[model.DetailPropertyValue])
}
