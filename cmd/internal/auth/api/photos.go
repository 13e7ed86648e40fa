package authapi

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"atrium/cmd/internal/profile"
)

// handleUploadProfilePhoto stores the multipart "file" part as the calling
// user's profile photo. Requires an authenticated session.
func (h *Handler) handleUploadProfilePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.photos == nil {
		writeError(w, http.StatusNotFound, "not_found", "photo storage not configured")
		return
	}

	u, err := h.flow.RequireUser(r.Context(), h.sessionTokenFromCookie(r), time.Now().UTC())
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxPhotoBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart field 'file' is required")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "file must be an image")
		return
	}

	if err := h.photos.Put(r.Context(), u.ID, contentType, file); err != nil {
		h.log.Error("auth.photo.upload.fail", "err", err, "user_id", u.ID)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleGetProfilePhoto streams the calling user's stored photo.
func (h *Handler) handleGetProfilePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.photos == nil {
		writeError(w, http.StatusNotFound, "not_found", "photo storage not configured")
		return
	}

	u, err := h.flow.RequireUser(r.Context(), h.sessionTokenFromCookie(r), time.Now().UTC())
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	body, contentType, err := h.photos.Get(r.Context(), u.ID)
	if errors.Is(err, profile.ErrPhotoNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no profile photo")
		return
	}
	if err != nil {
		h.log.Error("auth.photo.get.fail", "err", err, "user_id", u.ID)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	defer func() { _ = body.Close() }()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}
