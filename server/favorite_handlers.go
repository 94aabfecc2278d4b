package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeflow/favorite"
	"homeflow/guard"
)

// FavoriteHandler exposes favorite toggling and listing.
type FavoriteHandler struct {
	svc *favorite.Service
	log *zap.Logger
}

// NewFavoriteHandler wires the favorite endpoints.
func NewFavoriteHandler(svc *favorite.Service, log *zap.Logger) *FavoriteHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FavoriteHandler{svc: svc, log: log}
}

// Toggle handles POST /api/properties/:id/favorite.
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	favorited, err := h.svc.Toggle(c.Request.Context(), c.GetString(guard.CtxUserID), c.Param("id"))
	if err != nil {
		h.fail(c, err, "favorite toggle failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

// List handles GET /api/favorites.
func (h *FavoriteHandler) List(c *gin.Context) {
	list, err := h.svc.ListProperties(c.Request.Context(), c.GetString(guard.CtxUserID))
	if err != nil {
		h.fail(c, err, "favorite list failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": toPropertyResponses(list)})
}

func (h *FavoriteHandler) fail(c *gin.Context, err error, msg string) {
	h.log.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
	jsonError(c, http.StatusInternalServerError, "INTERNAL", "something went wrong")
}
