package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"taskMaster/internal/logger"

	"go.uber.org/zap"
)

// Static отдаёт файлы фронтенда из dir, для неизвестных путей - index.html
func Static(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/"))))
		if name == "/" || (err == nil && !info.IsDir()) {
			files.ServeHTTP(w, r)
			return
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("HTTP: Ошибка чтения статики", zap.Error(err), zap.String("path", name))
		}

		http.ServeFile(w, r, index)
	}
}
