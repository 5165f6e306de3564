package internal

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/require"

	"github.com/AidanDelaney/reborn/templates"
)

type recordingInstaller struct {
	mu      sync.Mutex
	calls   []string
	names   []string
	opts    InstallOptions
	failAll error
}

func (r *recordingInstaller) InstallAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "all")
	return r.failAll
}

func (r *recordingInstaller) InstallAdditional(ctx context.Context, names []string, opts InstallOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "additional")
	r.names = names
	r.opts = opts
	return nil
}

func templateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Materialize(templates.FS(), osfs.New(dir)))
	return dir
}

func newExecutor(source string, dir string, installer Installer) Executor {
	return Executor{
		Source:    source,
		Dir:       dir,
		Files:     osfs.New(dir),
		Installer: installer,
		Log:       NewLogger(io.Discard),
	}
}

func readProjectFile(t *testing.T, dir string, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func exists(dir string, name string) bool {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
	return err == nil
}

func TestExecute(t *testing.T) {
	spec.Run(t, "Execute", testExecute, spec.Report(report.Terminal{}))
}

func testExecute(t *testing.T, when spec.G, it spec.S) {
	var (
		source    string
		out       string
		installer *recordingInstaller
	)

	it.Before(func() {
		source = templateDir(t)
		out = t.TempDir()
		installer = &recordingInstaller{}
	})

	when("a static site without extras", func() {
		it.Before(func() {
			plan := Compose(mustAnswers(t, false, false, FrameworkNone))
			require.NoError(t, newExecutor(source, out, installer).Execute(context.Background(), plan))
		})

		it("copies the configuration files", func() {
			for _, name := range []string{"Gruntfile.js", "package.json", "bower.json", ".bowerrc", ".editorconfig", ".jshintrc", "dev/robots.txt"} {
				require.True(t, exists(out, name), name)
			}
		})

		it("copies the plain scripts rather than the app", func() {
			require.True(t, exists(out, "dev/scripts/main.js"))
			require.False(t, exists(out, "dev/app"))
			require.False(t, exists(out, "dev/styleguide"))
			require.False(t, exists(out, "dev/test"))
		})

		it("adds the grid", func() {
			require.True(t, exists(out, "dev/sass/base/_grid.scss"))
			require.True(t, exists(out, "dev/sass/vendor"))
			main := readProjectFile(t, out, MainStylesheet)
			require.Contains(t, main, `@import "base/grid";`)
			require.NotContains(t, main, "vendor/")
		})

		it("keeps the plain footer", func() {
			footer := readProjectFile(t, out, FooterPartial)
			require.Contains(t, footer, MainScript)
			require.NotContains(t, footer, AngularScript)
		})

		it("installs the base manifests and then the grid", func() {
			require.Equal(t, []string{"all", "additional"}, installer.calls)
			require.Equal(t, []string{"bourbon"}, installer.names)
			require.True(t, installer.opts.Persist)
		})

		it("refuses to generate over an existing project", func() {
			plan := Compose(mustAnswers(t, false, false, FrameworkNone))
			err := newExecutor(source, out, installer).Execute(context.Background(), plan)
			require.ErrorIs(t, err, ErrFileSystemConflict)
		})
	})

	when("every feature is chosen", func() {
		it.Before(func() {
			plan := Compose(mustAnswers(t, true, true, FrameworkFoundation, FeatureStyleGuide, FeatureTests))
			require.NoError(t, newExecutor(source, out, installer).Execute(context.Background(), plan))
		})

		it("copies the style guide, tests and vendor style", func() {
			require.True(t, exists(out, "dev/styleguide/index.hbs"))
			require.True(t, exists(out, "dev/test/karma.conf.js"))
			require.True(t, exists(out, "dev/sass/vendor/_foundation.scss"))
			require.True(t, exists(out, "dev/app/app.js"))
			require.False(t, exists(out, "dev/scripts"))
			require.False(t, exists(out, "dev/sass/base/_grid.scss"))
		})

		it("wires angular into the footer", func() {
			footer := readProjectFile(t, out, FooterPartial)
			require.Equal(t, 1, strings.Count(footer, AngularScript))
			require.Contains(t, footer, JQueryScript+"\n\n"+AngularScript)
			require.Contains(t, footer, AppScript)
			require.NotContains(t, footer, MainScript)
		})

		it("imports the framework", func() {
			require.Contains(t, readProjectFile(t, out, MainStylesheet), `@import "vendor/foundation";`)
		})

		it("lists the features", func() {
			home := readProjectFile(t, out, HomePage)
			require.NotContains(t, home, FeaturesMarker)
			require.Contains(t, home, "<li>Foundation framework</li>\n\t\t\t<li>Includes StyleGuide</li>\n\t\t\t<li>Includes Tests</li>")
		})

		it("requests the framework and angular", func() {
			require.Equal(t, []string{"foundation", "angular"}, installer.names)
		})
	})

	when("installation is skipped", func() {
		it("still substitutes", func() {
			e := newExecutor(source, out, installer)
			e.SkipInstall = true
			require.NoError(t, e.Execute(context.Background(), Compose(mustAnswers(t, true, false, FrameworkNone))))
			require.Empty(t, installer.calls)
			require.Contains(t, readProjectFile(t, out, FooterPartial), AppScript)
		})
	})

	when("the run is interrupted", func() {
		it("stops before copying or installing", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := newExecutor(source, out, installer).Execute(ctx, Compose(mustAnswers(t, false, false, FrameworkNone)))
			require.ErrorIs(t, err, context.Canceled)
			require.False(t, exists(out, "Gruntfile.js"))
			require.Empty(t, installer.calls)
		})
	})

	when("installation fails", func() {
		it("reports the failure after generating the project", func() {
			installer.failAll = errors.New("npm not found")
			err := newExecutor(source, out, installer).Execute(context.Background(), Compose(mustAnswers(t, false, false, FrameworkNone)))
			require.ErrorIs(t, err, ErrDependencyInstall)
			require.Equal(t, []string{"all"}, installer.calls)
			require.Contains(t, readProjectFile(t, out, HomePage), "<li>Imagemin</li>")
		})
	})

	when("the templates have drifted", func() {
		it("fails when a marker is missing", func() {
			require.NoError(t, os.WriteFile(filepath.Join(source, "sass", "main.scss"), []byte("// no marker\n"), 0644))
			err := newExecutor(source, out, installer).Execute(context.Background(), Compose(mustAnswers(t, false, false, FrameworkNone)))
			require.ErrorIs(t, err, ErrSubstitutionTargetMissing)
		})

		it("fails when an empty directory is a file", func() {
			require.NoError(t, os.WriteFile(filepath.Join(source, "sass", "vendor"), []byte("oops"), 0644))
			err := newExecutor(source, out, installer).Execute(context.Background(), Compose(mustAnswers(t, false, false, FrameworkNone)))
			require.ErrorIs(t, err, ErrFileSystemConflict)
		})

		it("fails when a template is missing", func() {
			require.NoError(t, os.RemoveAll(filepath.Join(source, "layouts")))
			err := newExecutor(source, out, installer).Execute(context.Background(), Compose(mustAnswers(t, false, false, FrameworkNone)))
			require.Error(t, err)
		})
	})

	when("substituting in memory", func() {
		it("rewrites the targets through the filesystem", func() {
			files := memfs.New()
			require.NoError(t, util.WriteFile(files, MainStylesheet, []byte(FrameworkMarker+"\n"), 0644))
			require.NoError(t, util.WriteFile(files, HomePage, []byte(FeaturesMarker+"\n"), 0644))

			plan := Compose(mustAnswers(t, false, true, FrameworkBootstrap))
			plan.Copies = nil
			e := Executor{Files: files, SkipInstall: true}
			require.NoError(t, e.Execute(context.Background(), plan))

			main, err := readFile(files, MainStylesheet)
			require.NoError(t, err)
			require.Equal(t, "// Include Bootstrap\n@import \"vendor/bootstrap\";\n", string(main))
		})

		it("refuses binary targets", func() {
			files := memfs.New()
			require.NoError(t, util.WriteFile(files, MainStylesheet, []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0xff, 0xfe}, 0644))

			plan := Compose(mustAnswers(t, false, false, FrameworkNone))
			plan.Copies = nil
			e := Executor{Files: files, SkipInstall: true}
			require.Error(t, e.Execute(context.Background(), plan))
		})
	})
}
