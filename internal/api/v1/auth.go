package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vmunix/marquee/internal/auth"
	"github.com/vmunix/marquee/internal/events"
)

// writeAuthError maps an account failure to a status, its code and message.
func writeAuthError(w http.ResponseWriter, err error) {
	var ae *auth.Error
	if !errors.As(err, &ae) {
		writeError(w, http.StatusInternalServerError, "INTERNAL", auth.FallbackMessage)
		return
	}
	status := http.StatusBadRequest
	switch ae.Code {
	case auth.CodeEmailInUse:
		status = http.StatusConflict
	case auth.CodeUserNotFound, auth.CodeWrongPassword, auth.CodeInvalidCredential, auth.CodeRequiresRecentLogin:
		status = http.StatusUnauthorized
	case auth.CodeUserDisabled, auth.CodeOperationNotAllowed:
		status = http.StatusForbidden
	case auth.CodeTooManyRequests:
		status = http.StatusTooManyRequests
	case auth.CodeNetworkRequestFailed:
		status = http.StatusBadGateway
	}
	writeError(w, status, string(ae.Code), ae.Message())
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	user, sess, err := s.deps.Auth.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	s.publish(r.Context(), &events.UserRegistered{
		BaseEvent: events.NewBaseEvent(events.EventUserRegistered, events.EntityUser, strconv.FormatInt(user.ID, 10)),
		UserID:    user.ID,
	})
	writeJSON(w, http.StatusCreated, sessionResponse{User: *user, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	user, sess, err := s.deps.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: *user, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Auth.Logout(r.Context(), tokenFrom(r.Context())); err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

// deactivate disables the caller's own account and ends all its sessions.
// Later logins fail with user-disabled.
func (s *Server) deactivate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if err := s.deps.Auth.SetDisabled(r.Context(), user.ID, true); err != nil {
		writeAuthError(w, err)
		return
	}
	s.logger.Info("account deactivated", "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}
