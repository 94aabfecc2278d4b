package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeflow/guard"
	"homeflow/profile"
)

// ProfileHandler exposes self-service profile endpoints.
type ProfileHandler struct {
	svc *profile.Service
	log *zap.Logger
}

// NewProfileHandler wires the profile endpoints.
func NewProfileHandler(svc *profile.Service, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{svc: svc, log: log}
}

// Get handles GET /api/profile, provisioning a row on first access.
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.svc.GetOrProvision(c.Request.Context(),
		c.GetString(guard.CtxUserID), c.GetString(guard.CtxEmail), "")
	if err != nil {
		h.fail(c, err, "profile fetch failed")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(p))
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Update handles PATCH /api/profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.GetString(guard.CtxUserID), profile.UpdateParams{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "NOT_FOUND", "profile not found")
			return
		}
		h.fail(c, err, "profile update failed")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(p))
}

// Elevate handles POST /api/profile/elevate, the self-service user→agent
// role change.
func (h *ProfileHandler) Elevate(c *gin.Context) {
	p, err := h.svc.ElevateToAgent(c.Request.Context(), c.GetString(guard.CtxUserID))
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "NOT_FOUND", "profile not found")
			return
		}
		h.fail(c, err, "role elevation failed")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *ProfileHandler) fail(c *gin.Context, err error, msg string) {
	h.log.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
	jsonError(c, http.StatusInternalServerError, "INTERNAL", "something went wrong")
}
