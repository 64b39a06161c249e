package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"giggen/filebank"
)

type fileResponse struct {
	ID          string        `json:"id"`
	OwnerUserID string        `json:"owner_user_id"`
	Kind        filebank.Kind `json:"kind"`
	Name        string        `json:"name"`
	BucketPath  string        `json:"bucket_path"`
	SizeBytes   int64         `json:"size_bytes"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toFileResponse(f filebank.File) fileResponse {
	return fileResponse{
		ID:          f.ID,
		OwnerUserID: f.OwnerUserID,
		Kind:        f.Kind,
		Name:        f.Name,
		BucketPath:  f.BucketPath,
		SizeBytes:   f.SizeBytes,
		CreatedAt:   f.CreatedAt,
	}
}

type registerFileRequest struct {
	Kind       filebank.Kind `json:"kind"`
	Name       string        `json:"name"`
	BucketPath string        `json:"bucket_path"`
	SizeBytes  int64         `json:"size_bytes"`
}

func (s *Server) handleRegisterFile(w http.ResponseWriter, r *http.Request) {
	var req registerFileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	file, err := s.files.Register(r.Context(), userIDFrom(r.Context()), req.Kind, req.Name, req.BucketPath, req.SizeBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFileResponse(file))
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	var kind *filebank.Kind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		k := filebank.Kind(raw)
		kind = &k
	}

	files, err := s.files.List(r.Context(), userIDFrom(r.Context()), kind)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]fileResponse, len(files))
	for i, f := range files {
		out[i] = toFileResponse(f)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	file, err := s.files.Get(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "fileID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(file))
}
