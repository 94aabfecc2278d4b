package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeflow/auth"
	"homeflow/guard"
	"homeflow/property"
)

// PropertyHandler exposes public browsing/search and agent listing
// management.
type PropertyHandler struct {
	svc *property.Service
	log *zap.Logger
}

// NewPropertyHandler wires the property endpoints.
func NewPropertyHandler(svc *property.Service, log *zap.Logger) *PropertyHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PropertyHandler{svc: svc, log: log}
}

type searchResponse struct {
	Items []propertyResponse `json:"items"`
	Total int                `json:"total"`
}

// Search handles GET /api/properties. Only approved listings are returned;
// a store failure degrades to a logged error and a generic envelope, never
// a crash.
func (h *PropertyHandler) Search(c *gin.Context) {
	filters := property.SearchFilters{
		Query:        c.Query("q"),
		PropertyType: c.Query("property_type"),
		MinPrice:     queryInt64(c, "min_price"),
		MaxPrice:     queryInt64(c, "max_price"),
		MinBedrooms:  int(queryInt64(c, "min_bedrooms")),
		Page:         int(queryInt64(c, "page")),
		PageSize:     int(queryInt64(c, "page_size")),
	}

	result, err := h.svc.Search(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err, "property search failed")
		return
	}

	c.JSON(http.StatusOK, searchResponse{
		Items: toPropertyResponses(result.Items),
		Total: result.Total,
	})
}

// Get handles GET /api/properties/:id, the public detail surface.
func (h *PropertyHandler) Get(c *gin.Context) {
	p, err := h.svc.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "NOT_FOUND", "property not available")
			return
		}
		h.fail(c, err, "property detail failed")
		return
	}

	c.JSON(http.StatusOK, toPropertyResponse(p))
}

type createPropertyRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Price        int64    `json:"price"`
	Location     string   `json:"location" binding:"required"`
	ImageURLs    []string `json:"image_urls"`
	PropertyType string   `json:"property_type" binding:"required"`
	ListingType  string   `json:"listing_type" binding:"required"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	Area         float64  `json:"area"`
}

// Create handles POST /api/properties, agent only. Whatever status the
// client sends is ignored; the stored listing is pending.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), property.CreateParams{
		AgentID:      c.GetString(guard.CtxUserID),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Location:     req.Location,
		ImageURLs:    req.ImageURLs,
		PropertyType: req.PropertyType,
		ListingType:  property.ListingType(req.ListingType),
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
	})
	if err != nil {
		if errors.Is(err, property.ErrInvalid) {
			jsonError(c, http.StatusBadRequest, "INVALID_LISTING", err.Error())
			return
		}
		h.fail(c, err, "property create failed")
		return
	}

	c.JSON(http.StatusCreated, toPropertyResponse(created))
}

// MyListings handles GET /api/my-listings, agent only; includes pending and
// rejected listings, unlike the public surface.
func (h *PropertyHandler) MyListings(c *gin.Context) {
	list, err := h.svc.ListByAgent(c.Request.Context(), c.GetString(guard.CtxUserID))
	if err != nil {
		h.fail(c, err, "my listings failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": toPropertyResponses(list)})
}

// Delete handles DELETE /api/properties/:id, agent only; the service
// enforces ownership.
func (h *PropertyHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"), c.GetString(guard.CtxUserID), auth.RoleAgent)
	if err != nil {
		switch {
		case errors.Is(err, property.ErrNotFound):
			jsonError(c, http.StatusNotFound, "NOT_FOUND", "property not available")
		case errors.Is(err, property.ErrForbidden):
			jsonError(c, http.StatusForbidden, "FORBIDDEN", "only the owning agent may delete this listing")
		default:
			h.fail(c, err, "property delete failed")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PropertyHandler) fail(c *gin.Context, err error, msg string) {
	h.log.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
	jsonError(c, http.StatusInternalServerError, "INTERNAL", "something went wrong")
}

func queryInt64(c *gin.Context, key string) int64 {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
