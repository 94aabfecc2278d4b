package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeflow/auth"
	"homeflow/guard"
	"homeflow/session"
)

// AuthHandler exposes the sign-up / sign-in / sign-out endpoints.
type AuthHandler struct {
	svc      *auth.Service
	sessions *session.Store
	log      *zap.Logger
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(svc *auth.Service, sessions *session.Store, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{svc: svc, sessions: sessions, log: log}
}

type signUpResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			jsonError(c, http.StatusConflict, "DUPLICATE_ACCOUNT", "an account with this email already exists")
		case errors.Is(err, auth.ErrWeakPassword):
			jsonError(c, http.StatusBadRequest, "WEAK_PASSWORD", err.Error())
		default:
			h.fail(c, err, "sign up failed")
		}
		return
	}

	c.JSON(http.StatusCreated, signUpResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	})
}

type signInResponse struct {
	Token string         `json:"token"`
	User  signUpResponse `json:"user"`
}

// SignIn handles POST /api/auth/signin. A successful sign-in registers the
// session with the store; the gates treat tokens without a live session as
// anonymous.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req auth.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.svc.SignIn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			jsonError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "wrong email or password")
			return
		}
		h.fail(c, err, "sign in failed")
		return
	}

	h.sessions.Add(session.Session{
		ID:     result.SessionID,
		UserID: result.User.ID,
		Email:  result.User.Email,
	})

	c.JSON(http.StatusOK, signInResponse{
		Token: result.Token,
		User: signUpResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
			Role:  string(result.User.Role),
		},
	})
}

// SignOut handles POST /api/auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	sessionID := c.GetString(guard.CtxSessionID)
	if sessionID == "" {
		jsonError(c, http.StatusUnauthorized, "UNAUTHORIZED", "no active session")
		return
	}

	h.sessions.Remove(sessionID)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) fail(c *gin.Context, err error, msg string) {
	h.log.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
	jsonError(c, http.StatusInternalServerError, "INTERNAL", "something went wrong")
}
