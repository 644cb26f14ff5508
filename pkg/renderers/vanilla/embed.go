package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/components/*.tmpl
var templatesFS embed.FS

//go:embed assets/icons/*.svg
var assetsFS embed.FS

// TemplatesFS exposes the built-in template bundle. Callers can wrap or
// replace it through WithTemplatesFS.
func TemplatesFS() fs.FS {
	return templatesFS
}

// AssetsFS exposes the icons referenced by the default form, rooted so that
// "icons/user.svg" resolves.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return assetsFS
	}
	return sub
}
