package httpapi

import (
	"io/fs"
	"net/http"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/embed"
)

// StaticHandler serves a single-page UI from an afero filesystem
type StaticHandler struct {
	fs     afero.Fs
	files  http.Handler
	logger app.Logger
}

// NewStaticHandler creates a static handler over assets
func NewStaticHandler(assets afero.Fs, logger app.Logger) *StaticHandler {
	if logger == nil {
		logger = app.NopLogger()
	}
	return &StaticHandler{
		fs:     assets,
		files:  http.FileServer(filesOnly{afero.NewHttpFs(assets).Dir(".")}),
		logger: logger,
	}
}

// Index serves index.html
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	data, err := afero.ReadFile(h.fs, embed.IndexFile)
	if err != nil {
		h.logger.Error("read %s: %v", embed.IndexFile, err)
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

// Assets serves files under the given URL prefix
func (h *StaticHandler) Assets(prefix string) http.Handler {
	return http.StripPrefix(prefix, h.files)
}

// filesOnly hides directories so the file server never renders a listing
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
