package backup

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	apphttp "finplan/internal/http"
	"finplan/internal/services/storage"
	"finplan/internal/version"
)

// maxUploadBytes bounds a restore upload
const maxUploadBytes = 10 << 20

var (
	store *storage.Store
	now   = time.Now
)

// Initialize sets up the backup package with required dependencies
func Initialize(s *storage.Store) {
	store = s
}

// RegisterRoutes registers health, backup and restore routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/health", HandleHealth)
	r.Get("/api/backup", HandleBackup)
	r.Post("/api/restore", HandleRestore)
}

// Health is the body of GET /api/health
type Health struct {
	Status    string       `json:"status"`
	Version   version.Info `json:"version"`
	Encrypted bool         `json:"encrypted"`
	Locked    bool         `json:"locked"`
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	h := Health{Status: "ok", Version: version.Get()}
	if store != nil {
		h.Encrypted = store.IsEncrypted()
		h.Locked = !store.IsUnlocked()
	}
	apphttp.WriteJSON(w, h, http.StatusOK)
}

// HandleBackup streams every data file as a zip archive. Files are written
// in plaintext so a backup restores on an unencrypted install too.
func HandleBackup(w http.ResponseWriter, r *http.Request) {
	if !store.IsUnlocked() {
		apphttp.ErrorResponse(w, storage.ErrLocked.Error(), http.StatusLocked)
		return
	}
	names, err := store.List()
	if err != nil {
		apphttp.ErrorResponse(w, "could not list data files: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Build in memory so a failed read can still become an error response
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		data, err := store.Read(name)
		if err != nil {
			apphttp.ErrorResponse(w, fmt.Sprintf("could not read %s: %v", name, err), http.StatusInternalServerError)
			return
		}
		f, err := zw.Create(name)
		if err != nil {
			apphttp.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := f.Write(data); err != nil {
			apphttp.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	if err := zw.Close(); err != nil {
		apphttp.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("finplan_backup_%s.zip", now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(buf.Bytes())
	log.Printf("Backup created: %d files", len(names))
}

// HandleRestore accepts a zip upload in the "file" form field and writes each
// JSON file in it back through the store
func HandleRestore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		apphttp.ErrorResponse(w, "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apphttp.ErrorResponse(w, "Error reading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		apphttp.ErrorResponse(w, "Only ZIP backup files are allowed", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		apphttp.ErrorResponse(w, "Error reading file", http.StatusInternalServerError)
		return
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		apphttp.ErrorResponse(w, "Invalid ZIP file", http.StatusBadRequest)
		return
	}

	var restored []string
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		// Only the base name, so entries cannot escape the data directory
		name := path.Base(zf.Name)
		if !strings.HasSuffix(strings.ToLower(name), storage.DataExt) {
			continue
		}

		data, err := readEntry(zf)
		if err != nil {
			log.Printf("Warning: skipping zip entry %s: %v", zf.Name, err)
			continue
		}
		if !json.Valid(data) {
			log.Printf("Warning: skipping %s: not valid JSON", name)
			continue
		}

		if err := store.Write(name, data); err != nil {
			if errors.Is(err, storage.ErrLocked) {
				apphttp.ErrorResponse(w, err.Error(), http.StatusLocked)
				return
			}
			log.Printf("Warning: could not restore %s: %v", name, err)
			continue
		}
		restored = append(restored, name)
		log.Printf("Restored file: %s", name)
	}

	if len(restored) == 0 {
		apphttp.ErrorResponse(w, "No JSON data files found in backup", http.StatusBadRequest)
		return
	}

	log.Printf("Restore complete: %d files restored", len(restored))
	apphttp.WriteJSON(w, map[string]any{"restored": restored}, http.StatusOK)
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxUploadBytes))
}
