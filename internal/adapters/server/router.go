package server

import (
	"net/http"

	"homecloud/internal/config"
	"homecloud/internal/metrics"
)

// NewRouter registers every configured route and wraps the mux in the
// request logging middleware.
func NewRouter(h *Handler, routes config.RoutesConfig, metricsCfg config.MetricsConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(routes.CreateDir, h.CreateDir)
	mux.HandleFunc(routes.RenameDir, h.RenameDir)
	mux.HandleFunc(routes.DeleteDir, h.DeleteDir)
	mux.HandleFunc(routes.CopyDir, h.CopyDir)
	mux.HandleFunc(routes.MoveDir, h.MoveDir)
	mux.HandleFunc(routes.Upload, h.Upload)
	mux.HandleFunc(routes.ListFiles, h.ListFiles)
	mux.HandleFunc(routes.GetFile, h.GetFile)
	mux.HandleFunc(routes.DownloadFile, h.DownloadFile)
	mux.HandleFunc(routes.DownloadFiles, h.DownloadFiles)
	mux.HandleFunc(routes.RenameFile, h.RenameFile)
	mux.HandleFunc(routes.DeleteFiles, h.DeleteFiles)
	mux.HandleFunc(routes.CopyFiles, h.CopyFiles)
	mux.HandleFunc(routes.MoveFiles, h.MoveFiles)
	mux.HandleFunc(routes.Health, h.Health)

	if metricsCfg.Enabled {
		mux.Handle(metricsCfg.Path, metrics.Handler())
	}

	return Middleware(mux)
}
