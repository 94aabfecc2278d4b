package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeflow/auth"
	"homeflow/guard"
	"homeflow/profile"
	"homeflow/property"
)

// AdminHandler exposes the moderation and agent-management surface.
type AdminHandler struct {
	properties *property.Service
	profiles   *profile.Service
	log        *zap.Logger
}

// NewAdminHandler wires the admin endpoints.
func NewAdminHandler(properties *property.Service, profiles *profile.Service, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{properties: properties, profiles: profiles, log: log}
}

// PendingListings handles GET /api/admin/pending-listings.
func (h *AdminHandler) PendingListings(c *gin.Context) {
	list, err := h.properties.ListPending(c.Request.Context())
	if err != nil {
		h.fail(c, err, "pending listings failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": toPropertyResponses(list)})
}

// Approve handles POST /api/admin/properties/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	h.setStatus(c, property.StatusApproved)
}

// Reject handles POST /api/admin/properties/:id/reject.
func (h *AdminHandler) Reject(c *gin.Context) {
	h.setStatus(c, property.StatusRejected)
}

func (h *AdminHandler) setStatus(c *gin.Context, status property.Status) {
	p, err := h.properties.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "NOT_FOUND", "property not available")
			return
		}
		h.fail(c, err, "moderation failed")
		return
	}

	c.JSON(http.StatusOK, toPropertyResponse(p))
}

// DeleteProperty handles DELETE /api/admin/properties/:id. Admins may
// remove any listing.
func (h *AdminHandler) DeleteProperty(c *gin.Context) {
	err := h.properties.Delete(c.Request.Context(), c.Param("id"), c.GetString(guard.CtxUserID), auth.RoleAdmin)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "NOT_FOUND", "property not available")
			return
		}
		h.fail(c, err, "admin property delete failed")
		return
	}

	c.Status(http.StatusNoContent)
}

// Agents handles GET /api/admin/agents.
func (h *AdminHandler) Agents(c *gin.Context) {
	list, err := h.profiles.ListAgents(c.Request.Context())
	if err != nil {
		h.fail(c, err, "agent list failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": toProfileResponses(list)})
}

// RevokeAgent handles POST /api/admin/agents/:id/revoke.
func (h *AdminHandler) RevokeAgent(c *gin.Context) {
	p, err := h.profiles.RevokeAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		h.fail(c, err, "agent revoke failed")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(p))
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.profiles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		h.fail(c, err, "user delete failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) fail(c *gin.Context, err error, msg string) {
	h.log.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
	jsonError(c, http.StatusInternalServerError, "INTERNAL", "something went wrong")
}
