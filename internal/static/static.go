package static

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmorgan81/lookalike/internal/log"
)

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
}

const defaultContentType = "application/octet-stream"

// Handler serves files below Root. It never lists directories.
type Handler struct {
	Root string
}

func New(root string) *Handler {
	return &Handler{Root: root}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := log.FromContextOrDiscard(r.Context()).WithGroup("static")

	urlPath := r.URL.Path
	if urlPath == "" || urlPath == "/" {
		urlPath = "/index.html"
	}

	root, err := filepath.Abs(h.Root)
	if err != nil {
		log.Error("resolving static root", "root", h.Root, "error", err)
		writeText(w, http.StatusNotFound, "Not Found")
		return
	}

	full := filepath.Join(root, filepath.FromSlash(urlPath))
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		log.Warn("path escapes static root", "path", r.URL.Path)
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}
	if hidden(rel) {
		log.Warn("refusing hidden path", "path", r.URL.Path)
		writeText(w, http.StatusNotFound, "Not Found")
		return
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Debug("reading static file", "path", full, "error", err)
		}
		writeText(w, http.StatusNotFound, "Not Found")
		return
	}

	w.Header().Set("Content-Type", ContentType(full))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

// hidden reports whether any segment of a root-relative path is a dotfile
// or dot directory, such as .env or .git.
func hidden(rel string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

// ContentType maps a file name to the served content type by extension.
// Matching is case-sensitive: "page.HTML" is served as octet-stream.
func ContentType(name string) string {
	if ct, ok := contentTypes[filepath.Ext(name)]; ok {
		return ct
	}
	return defaultContentType
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}
