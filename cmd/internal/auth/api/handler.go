package authapi

import (
	"log/slog"
	"net/http"
	"time"

	"atrium/cmd/internal/auth/flow"
	"atrium/cmd/internal/profile"
)

// Handler wires the HTTP auth endpoints to the flow coordinator.
//
// The session token travels in an HttpOnly cookie; request bodies are JSON
// except the multipart photo upload.
type Handler struct {
	log    *slog.Logger
	cfg    Config
	flow   *flow.Coordinator
	photos profile.Storage
}

// NewHandler constructs an auth Handler. photos may be nil, in which case
// the photo endpoints report 404.
func NewHandler(log *slog.Logger, cfg Config, coordinator *flow.Coordinator, photos profile.Storage) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if coordinator == nil {
		return nil, flow.OpError{Op: "authapi.new", Kind: flow.ErrValidation, Msg: "nil coordinator"}
	}
	return &Handler{
		log:    log,
		cfg:    cfg,
		flow:   coordinator,
		photos: photos,
	}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/me", h.handleMe)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/users", h.handleUsers)
	mux.HandleFunc("/uploadProfilePhoto", h.handleUploadProfilePhoto)
	mux.HandleFunc("/getProfilePhoto", h.handleGetProfilePhoto)
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	res, err := h.flow.Register(r.Context(), time.Now().UTC(), flow.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	h.setSessionCookie(w, res.Session.Token, res.Session.ExpiresAt)
	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(res.User)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	res, err := h.flow.Login(r.Context(), time.Now().UTC(), flow.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	h.setSessionCookie(w, res.Session.Token, res.Session.ExpiresAt)
	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(res.User)})
}

// handleMe reports the calling user, or a JSON null body for anonymous
// callers. Anonymous is not an error here; clients poll this endpoint to
// decide whether to show a login screen.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tok := h.sessionTokenFromCookie(r)
	u, err := h.flow.Me(r.Context(), tok, time.Now().UTC())
	if err != nil {
		h.writeFlowError(w, err)
		return
	}
	if u == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*u))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tok := h.sessionTokenFromCookie(r)
	if err := h.flow.Logout(r.Context(), tok); err != nil {
		h.writeFlowError(w, err)
		return
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleUsers lists all accounts. The listing is only served to
// authenticated callers; anonymous enumeration of emails is not allowed.
func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if _, err := h.flow.RequireUser(r.Context(), h.sessionTokenFromCookie(r), time.Now().UTC()); err != nil {
		h.writeFlowError(w, err)
		return
	}

	users, err := h.flow.ListUsers(r.Context())
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: out})
}

// ---- helpers ----

// writeFlowError maps flow error kinds to HTTP status codes. Client-safe
// messages pass through; everything else degrades to a generic 500.
func (h *Handler) writeFlowError(w http.ResponseWriter, err error) {
	msg := flow.Message(err)
	switch {
	case flow.IsValidation(err):
		if msg == "" {
			msg = "invalid request"
		}
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
	case flow.IsConflict(err):
		writeError(w, http.StatusBadRequest, "conflict", msg)
	case flow.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", msg)
	case flow.IsBadCredentials(err):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", msg)
	case flow.IsUnauthorized(err):
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	default:
		h.log.Error("auth.api.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}
