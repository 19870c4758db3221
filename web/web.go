// Package web serves the embedded single-page front-end.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler serves the bundled front-end assets. Unknown paths fall through
// to the file server's 404 so API typos don't return index.html.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embed guarantees the directory exists at build time.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
