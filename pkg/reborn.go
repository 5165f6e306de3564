// Reborn creates new front-end website projects.  It asks which features the
// site needs, copies the matching templates into the output folder, wires
// the chosen libraries into the copied files and installs the front-end
// dependencies.
package reborn

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/AidanDelaney/reborn/pkg/internal"
)

type (
	Installer      = internal.Installer
	InstallOptions = internal.InstallOptions
)

var (
	ErrAbortedInput              = internal.ErrAbortedInput
	ErrInvalidAnswers            = internal.ErrInvalidAnswers
	ErrFileSystemConflict        = internal.ErrFileSystemConflict
	ErrSubstitutionTargetMissing = internal.ErrSubstitutionTargetMissing
	ErrDependencyInstall         = internal.ErrDependencyInstall
)

// Reborn allows programmatic control over a project generation.  Overrides
// answer questions up front, those questions are skipped when prompting.
// DefaultValues replace the defaults offered by the prompts.
type Reborn struct {
	Overrides     map[string]string
	DefaultValues map[string]interface{}
	AnswersFile   string
	OutputFolder  string
	TemplateURL   string
	SkipInstall   bool
	Stdio         terminal.Stdio
	Out           io.Writer
	Installer     Installer
}

type Option func(*Reborn)

func WithOutputFolder(folder string) Option {
	return func(r *Reborn) {
		r.OutputFolder = folder
	}
}

func WithOverrides(overrides map[string]string) Option {
	return func(r *Reborn) {
		r.Overrides = overrides
	}
}

func WithDefaultValues(defaults map[string]interface{}) Option {
	return func(r *Reborn) {
		r.DefaultValues = defaults
	}
}

// WithAnswersFile reads overrides from a TOML file.  Overrides given with
// WithOverrides take precedence.
func WithAnswersFile(path string) Option {
	return func(r *Reborn) {
		r.AnswersFile = path
	}
}

// WithTemplates generates from a local folder or git repository instead of
// the built-in templates.
func WithTemplates(url string) Option {
	return func(r *Reborn) {
		r.TemplateURL = url
	}
}

func WithSkipInstall(skip bool) Option {
	return func(r *Reborn) {
		r.SkipInstall = skip
	}
}

func WithStdio(stdio terminal.Stdio) Option {
	return func(r *Reborn) {
		r.Stdio = stdio
	}
}

// WithOutput sets where progress is reported.
func WithOutput(out io.Writer) Option {
	return func(r *Reborn) {
		r.Out = out
	}
}

func WithInstaller(installer Installer) Option {
	return func(r *Reborn) {
		r.Installer = installer
	}
}

// Create a new Reborn with the given options.
func NewReborn(opts ...Option) Reborn {
	var (
		defaultOverrides     = map[string]string{}
		defaultDefaultValues = map[string]interface{}{
			internal.KeyAppFramework: true,
		}
		defaultOutputFolder = "."
	)

	r := Reborn{
		Overrides:     defaultOverrides,
		DefaultValues: defaultDefaultValues,
		OutputFolder:  defaultOutputFolder,
		Stdio:         internal.NewSurveyPrompter().Stdio,
		Out:           os.Stdout,
	}

	for _, opt := range opts {
		opt(&r)
	}

	return r
}

// Scaffold asks its questions and then generates the project in the output
// folder.  Nothing is written before every question is answered.
func (r Reborn) Scaffold(ctx context.Context) error {
	fmt.Fprintf(r.Out, "Welcome to %s custom website generator!\n", color.New(color.Underline).Sprint("REBORN"))

	overrides, err := r.overrides()
	if err != nil {
		return err
	}
	prompts, err := internal.ReadPrompts()
	if err != nil {
		return err
	}
	answers, err := internal.Collect(internal.SurveyPrompter{Stdio: r.Stdio}, prompts, overrides, r.DefaultValues)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "reborn")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	source, err := internal.FetchTemplates(r.TemplateURL, tmpDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(r.OutputFolder, 0755); err != nil {
		return fmt.Errorf("failed to create output folder %s: %w", r.OutputFolder, err)
	}

	installer := r.Installer
	if installer == nil {
		installer = internal.PackageManager{Dir: r.OutputFolder, Stdout: r.Out, Stderr: r.Out}
	}
	executor := internal.Executor{
		Source:      source,
		Dir:         r.OutputFolder,
		Files:       osfs.New(r.OutputFolder),
		Installer:   installer,
		SkipInstall: r.SkipInstall,
		Log:         internal.NewLogger(r.Out),
	}
	if err := executor.Execute(ctx, internal.Compose(answers)); err != nil {
		return fmt.Errorf("failed to generate project: %w", err)
	}

	color.New(color.FgGreen).Fprintln(r.Out, "Your site is ready, run `grunt` to build it.")
	return nil
}

func (r Reborn) overrides() (map[string]string, error) {
	overrides := map[string]string{}
	if r.AnswersFile != "" {
		fromFile, err := internal.ReadOverrides(r.AnswersFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			overrides[k] = v
		}
	}
	for k, v := range r.Overrides {
		overrides[k] = v
	}
	return overrides, nil
}
