package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/services"
)

// authRequest is the union of all action-specific request fields.
type authRequest struct {
	Action    string `json:"action"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	GoogleID  string `json:"google_id"`
	AvatarURL string `json:"avatar_url"`
	Token     string `json:"token"`
}

type authResponse struct {
	Token string                   `json:"token,omitempty"`
	User  *services.AccountSummary `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Auth-Token")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()

	switch req.Action {
	case "register":
		res, err := s.auth.Register(ctx, req.Email, req.Password, req.Name)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.logger.Info(ctx, "Registered", "email", req.Email)
		s.writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: &res.Account})

	case "login":
		res, err := s.auth.Login(ctx, req.Email, req.Password)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.logger.Info(ctx, "Logged in", "email", req.Email)
		s.writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: &res.Account})

	case "google":
		res, err := s.auth.GoogleLogin(ctx, req.GoogleID, req.Email, req.Name, req.AvatarURL)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.logger.Info(ctx, "Google login", "email", res.Account.Email)
		s.writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: &res.Account})

	case "verify":
		summary, err := s.auth.Verify(ctx, req.Token)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, authResponse{User: summary})

	default:
		s.writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

// writeServiceError maps service sentinels to HTTP statuses and fixed
// messages. Anything unrecognized is a server fault and is logged with its
// cause but reported generically.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorEmailExists):
		s.writeError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, common.ErrorInvalidCredentials):
		s.writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrNoToken):
		s.writeError(w, http.StatusUnauthorized, "No token provided")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		s.writeError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, common.ErrorUserNotFound):
		s.writeError(w, http.StatusUnauthorized, "User not found")
	default:
		s.logger.Error(r.Context(), "request failed", "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
