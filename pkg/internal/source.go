package internal

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	cp "github.com/otiai10/copy"

	"github.com/AidanDelaney/reborn/templates"
)

// FetchTemplates presents the project templates as a local directory inside
// tmpDir.  An empty url selects the templates built into the binary, a local
// folder is copied and anything else is cloned as a git repository.
func FetchTemplates(url string, tmpDir string) (string, error) {
	if url == "" {
		if err := Materialize(templates.FS(), osfs.New(tmpDir)); err != nil {
			return "", fmt.Errorf("failed to unpack built-in templates: %w", err)
		}
		return tmpDir, nil
	}

	// if the URL is a local folder, then do not git clone it
	if info, err := os.Stat(url); err == nil && info.IsDir() {
		if err := cp.Copy(url, tmpDir); err != nil {
			return "", fmt.Errorf("failed to copy templates from %s: %w", url, err)
		}
		return tmpDir, nil
	}

	_, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to clone templates from %s: %w", url, err)
	}
	return tmpDir, nil
}

// Materialize writes every file of src into out.
func Materialize(src fs.FS, out billy.Filesystem) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		// Checking, if embedded file is a folder.
		if d.IsDir() {
			return out.MkdirAll(path, 0755)
		}

		data, err := fs.ReadFile(src, path)
		if err != nil {
			return fmt.Errorf("cannot read file %s: %w", path, err)
		}
		if err := util.WriteFile(out, path, data, 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", path, err)
		}
		return nil
	})
}
