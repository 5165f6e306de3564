package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	cp "github.com/otiai10/copy"
	"golang.org/x/sync/errgroup"
)

// Executor carries out a Plan.  Copies read from the template tree at Source
// and write under Dir; substitutions go through Files, which must be rooted
// at Dir.
type Executor struct {
	Source      string
	Dir         string
	Files       billy.Filesystem
	Installer   Installer
	SkipInstall bool
	Log         *Logger
}

// Execute copies every file of the plan and only then rewrites the
// substituted files while installing dependencies.  Installation failures
// do not stop the substitutions and are reported last.  A cancelled ctx
// stops the run before the next copy or before the substitutions.
func (e Executor) Execute(ctx context.Context, plan Plan) error {
	for _, op := range plan.Copies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.copy(op); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var installErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.substitute(plan)
	})
	if !e.SkipInstall && e.Installer != nil {
		g.Go(func() error {
			installErr = e.install(gctx, plan.Dependencies)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if installErr != nil {
		return fmt.Errorf("%w: %s", ErrDependencyInstall, installErr)
	}
	return nil
}

func (e Executor) copy(op CopyOp) error {
	dst := filepath.Join(e.Dir, filepath.FromSlash(op.Destination))

	if op.Kind == KindMkdir {
		if info, err := os.Stat(dst); err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%w: %s exists and is not a directory", ErrFileSystemConflict, op.Destination)
			}
			return nil
		}
		if err := os.MkdirAll(dst, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", op.Destination, err)
		}
		e.Log.Action(ActionMkdir, op.Destination)
		return nil
	}

	// don't clobber any existing files
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s already exists", ErrFileSystemConflict, op.Destination)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	src := filepath.Join(e.Source, filepath.FromSlash(op.Source))
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("missing template %s: %w", op.Source, err)
	}
	if info.IsDir() != (op.Kind == KindDirectory) {
		return fmt.Errorf("template %s is not a %s", op.Source, op.Kind)
	}

	if err := cp.Copy(src, dst, cp.Options{Sync: true}); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", op.Source, op.Destination, err)
	}

	if op.Kind == KindFile {
		e.Log.Action(ActionCreate, op.Destination)
		return nil
	}
	return filepath.WalkDir(dst, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(e.Dir, path)
		if err != nil {
			return err
		}
		e.Log.Action(ActionCreate, filepath.ToSlash(rel))
		return nil
	})
}

func (e Executor) substitute(plan Plan) error {
	for _, target := range Targets(plan.Substitutions) {
		content, err := readFile(e.Files, target)
		if err != nil {
			return err
		}
		if !isText(content) {
			return fmt.Errorf("cannot substitute into %s: not a text file", target)
		}

		rewritten, err := Rewrite(target, string(content), plan.Substitutions, plan.Answers)
		if err != nil {
			return err
		}

		mode := os.FileMode(0644)
		if info, err := e.Files.Stat(target); err == nil {
			mode = info.Mode().Perm()
		}
		if err := util.WriteFile(e.Files, target, []byte(rewritten), mode); err != nil {
			return fmt.Errorf("cannot write file %s: %w", target, err)
		}
		e.Log.Action(ActionUpdate, target)
	}
	return nil
}

// install runs the second wave only after the first has returned, both
// read the manifests written by the copies.
func (e Executor) install(ctx context.Context, deps []string) error {
	e.Log.Action(ActionInvoke, "install")
	if err := e.Installer.InstallAll(ctx); err != nil {
		return err
	}
	if len(deps) == 0 {
		return nil
	}
	return e.Installer.InstallAdditional(ctx, deps, InstallOptions{Persist: true})
}

func readFile(bfs billy.Filesystem, name string) ([]byte, error) {
	file, err := bfs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s: %w", name, err)
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", name, err)
	}
	return buf, nil
}

func isText(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
