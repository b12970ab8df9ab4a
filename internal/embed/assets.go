package embed

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

//go:embed static/notes/* static/chat/*
var staticFS embed.FS

// IndexFile is the entry page inside each asset filesystem
const IndexFile = "index.html"

// NotesAssets returns the notes UI filesystem. When dir is set, files are
// served from that directory instead of the embedded copy.
func NotesAssets(dir string) (afero.Fs, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("static dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("static dir %s is not a directory", dir)
		}
		return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
	}
	return embedded("static/notes")
}

// ChatAssets returns the chat page filesystem
func ChatAssets() (afero.Fs, error) {
	return embedded("static/chat")
}

func embedded(root string) (afero.Fs, error) {
	sub, err := fs.Sub(staticFS, root)
	if err != nil {
		return nil, fmt.Errorf("embedded assets %s: %w", root, err)
	}
	return afero.NewReadOnlyFs(afero.FromIOFS{FS: sub}), nil
}
