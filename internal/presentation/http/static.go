package http

import (
	"embed"
	"io/fs"
	stdhttp "net/http"

	"github.com/rotisserie/eris"
)

//go:embed static
var embeddedStatic embed.FS

const (
	faviconFile        = "favicon.svg"
	assetCacheControl  = "public, max-age=86400"
	staticRoutePrefix  = "/static/"
	faviconContentType = "image/svg+xml"
)

// staticAssets serves the stylesheet and favicon compiled into the binary.
type staticAssets struct {
	files fs.FS
}

func newStaticAssets() (*staticAssets, error) {
	files, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return nil, eris.Wrap(err, "preparing static assets filesystem")
	}

	if _, err := fs.Stat(files, faviconFile); err != nil {
		return nil, eris.Wrapf(err, "locating %s", faviconFile)
	}

	return &staticAssets{files: files}, nil
}

// handler serves /static/* with a one day cache lifetime.
func (a *staticAssets) handler() stdhttp.Handler {
	fileServer := stdhttp.StripPrefix(staticRoutePrefix, stdhttp.FileServerFS(a.files))

	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Cache-Control", assetCacheControl)
		fileServer.ServeHTTP(w, r)
	})
}

// serveFavicon answers browsers that request /favicon.ico with the SVG icon.
func (a *staticAssets) serveFavicon(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", faviconContentType)
	w.Header().Set("Cache-Control", assetCacheControl)
	stdhttp.ServeFileFS(w, r, a.files, faviconFile)
}
