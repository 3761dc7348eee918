package handlers

import (
	"github.com/gin-gonic/gin"

	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// RouterDeps wires services and settings into the HTTP router.
type RouterDeps struct {
	Auth    services.AuthServicer
	People  services.PersonServicer
	Entries services.EntryServicer
	Summary services.SummaryServicer
	Tokens  *middleware.TokenManager

	CORSOrigin  string
	Development bool
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(deps RouterDeps) *gin.Engine {
	authHandler := NewAuthHandler(deps.Auth)
	personHandler := NewPersonHandler(deps.People)
	entryHandler := NewEntryHandler(deps.Entries, deps.Summary)

	router := gin.New()
	router.Use(middleware.Recovery(deps.Development))
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(deps.CORSOrigin))
	router.NoRoute(NoRoute)

	router.GET("/api/health", Health)
	router.GET("/health", Health)

	auth := router.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))

	protected.GET("/auth/me", authHandler.Me)

	people := protected.Group("/people")
	people.GET("", personHandler.List)
	people.POST("", personHandler.Create)
	people.DELETE("/:id", personHandler.Delete)

	entries := protected.Group("/entries")
	entries.GET("", entryHandler.List)
	entries.GET("/summary", entryHandler.Summary)
	entries.POST("", entryHandler.Create)
	entries.PUT("/:id", entryHandler.Update)
	entries.DELETE("/:id", entryHandler.Delete)

	return router
}
