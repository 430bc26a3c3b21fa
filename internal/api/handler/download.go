package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/adscope/unified-ads-mcp/internal/api/handler/router"
	"github.com/adscope/unified-ads-mcp/internal/usecases/exporting"
	"github.com/adscope/unified-ads-mcp/pkg/apiErrors"
)

func Download(exporter exporting.Exporter) []router.Route {
	return []router.Route{
		{
			Path:    "/download/:token",
			Method:  http.MethodGet,
			Handler: DownloadHandler(exporter),
		},
	}
}

// DownloadHandler validates the signed token and serves the report file it
// names. Expired or tampered tokens get a coded 401.
func DownloadHandler(exporter exporting.Exporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.URL.Path, "/download/")
		if token == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "missing download token", nil)
			return
		}

		path, err := exporter.ResolvePath(token)
		if err != nil {
			if errors.Is(err, exporting.ErrInvalidToken) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "invalid or expired download token", nil)
				return
			}
			logrus.WithError(err).Error("resolving download token")
			apiErrors.WriteError(w, apiErrors.ErrFilesystem, "could not read report file", nil)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", "inline; filename=\""+filepath.Base(path)+"\"")
		http.ServeFile(w, r, path)
	})
}
