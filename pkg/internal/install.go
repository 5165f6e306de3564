package internal

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

type InstallOptions struct {
	// Persist records the installed packages in the dependency manifest.
	Persist bool
}

// Installer installs front-end packages into a generated project.
type Installer interface {
	InstallAll(ctx context.Context) error
	InstallAdditional(ctx context.Context, names []string, opts InstallOptions) error
}

// PackageManager installs packages with npm and bower.
type PackageManager struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

func (p PackageManager) InstallAll(ctx context.Context) error {
	for _, args := range installAllCommands() {
		if err := p.run(ctx, args); err != nil {
			return err
		}
	}
	return nil
}

func (p PackageManager) InstallAdditional(ctx context.Context, names []string, opts InstallOptions) error {
	if len(names) == 0 {
		return nil
	}
	return p.run(ctx, installAdditionalCommand(names, opts))
}

func installAllCommands() [][]string {
	return [][]string{
		{"npm", "install"},
		{"bower", "install"},
	}
}

func installAdditionalCommand(names []string, opts InstallOptions) []string {
	args := []string{"bower", "install"}
	if opts.Persist {
		args = append(args, "--save")
	}
	return append(args, names...)
}

func (p PackageManager) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = p.Dir
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(args, " "), err)
	}
	return nil
}
