// Package templates holds the files a new project is generated from.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed all:files
var files embed.FS

// FS returns the template tree, rooted at its top directory.
func FS() fs.FS {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		panic(err)
	}
	return sub
}
