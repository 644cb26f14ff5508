package intake

import (
	"io/fs"

	"github.com/goliatone/go-intake/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the icons referenced by the built-in forms.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(intake.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
