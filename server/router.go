package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeflow/auth"
	"homeflow/favorite"
	"homeflow/guard"
	"homeflow/profile"
	"homeflow/property"
	"homeflow/role"
	"homeflow/session"
)

// Deps bundles everything the router needs.
type Deps struct {
	Auth       *auth.Service
	Sessions   *session.Store
	Resolver   *role.Resolver
	Properties *property.Service
	Favorites  *favorite.Service
	Profiles   *profile.Service
	Log        *zap.Logger
}

// NewRouter builds the full route table. Route protection mirrors the
// product's navigation: public browsing, authenticated favorites/profile,
// agent dashboard routes, admin moderation routes.
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(log))
	r.Use(CORS())
	r.Use(guard.Authenticate(deps.Auth, deps.Sessions))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := NewAuthHandler(deps.Auth, deps.Sessions, log)
	propH := NewPropertyHandler(deps.Properties, log)
	favH := NewFavoriteHandler(deps.Favorites, log)
	profH := NewProfileHandler(deps.Profiles, log)
	adminH := NewAdminHandler(deps.Properties, deps.Profiles, log)

	api := r.Group("/api")
	{
		api.POST("/auth/signup", authH.SignUp)
		api.POST("/auth/signin", authH.SignIn)
		api.POST("/auth/signout", authH.SignOut)

		// Public browsing and search.
		api.GET("/properties", propH.Search)
		api.GET("/properties/:id", propH.Get)
	}

	authed := api.Group("", guard.RequireAuth())
	{
		authed.GET("/favorites", favH.List)
		authed.POST("/properties/:id/favorite", favH.Toggle)
		authed.GET("/profile", profH.Get)
		authed.PATCH("/profile", profH.Update)
		authed.POST("/profile/elevate", profH.Elevate)
	}

	agent := api.Group("", guard.RequireAgent(deps.Resolver))
	{
		agent.POST("/properties", propH.Create)
		agent.GET("/my-listings", propH.MyListings)
		agent.DELETE("/properties/:id", propH.Delete)
	}

	admin := api.Group("/admin", guard.RequireAdmin(deps.Resolver))
	{
		admin.GET("/pending-listings", adminH.PendingListings)
		admin.POST("/properties/:id/approve", adminH.Approve)
		admin.POST("/properties/:id/reject", adminH.Reject)
		admin.DELETE("/properties/:id", adminH.DeleteProperty)
		admin.GET("/agents", adminH.Agents)
		admin.POST("/agents/:id/revoke", adminH.RevokeAgent)
		admin.DELETE("/users/:id", adminH.DeleteUser)
	}

	return r
}
