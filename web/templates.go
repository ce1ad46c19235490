package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templatesFS embed.FS

// DefaultTemplates holds the built-in pages, keyed like tpl.HTMLTemplateStore keys
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err) // the directory is compiled in
	}
	return sub
}

const templateUpload = "upload"
