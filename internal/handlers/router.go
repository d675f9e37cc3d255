package handlers

import (
	"database/sql"

	"github.com/alimgiray/familytree/internal/middleware"
	"github.com/alimgiray/familytree/internal/services"
	"github.com/alimgiray/familytree/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies holds everything the HTTP layer needs
type Dependencies struct {
	DB                  *sql.DB
	PersonService       *services.PersonService
	RelationshipService *services.RelationshipService
	FamilyTreeService   *services.FamilyTreeService
	ExportService       *services.ExportService
	Photos              *storage.PhotoStore
	Registry            *prometheus.Registry
}

// NewRouter builds the gin engine with every route registered at the root and under /api
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	metrics := middleware.NewMetrics(deps.Registry)
	router.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Middleware())

	personHandler := NewPersonHandler(deps.PersonService, deps.FamilyTreeService, deps.ExportService)
	relationshipHandler := NewRelationshipHandler(deps.RelationshipService)
	mediaHandler := NewMediaHandler(deps.Photos)
	healthHandler := NewHealthHandler(deps.DB)
	notFoundHandler := NewNotFoundHandler()

	registerDomainRoutes(&router.RouterGroup, personHandler, relationshipHandler)
	registerDomainRoutes(router.Group("/api"), personHandler, relationshipHandler)

	router.GET("/media/*key", mediaHandler.ServePhoto)

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	router.NoRoute(notFoundHandler.NotFound)

	return router
}

func registerDomainRoutes(group *gin.RouterGroup, personHandler *PersonHandler, relationshipHandler *RelationshipHandler) {
	persons := group.Group("/persons")
	{
		persons.GET("", personHandler.ListPersons)
		persons.POST("", personHandler.CreatePerson)
		persons.GET("/export", personHandler.Export)
		persons.GET("/:id", personHandler.GetPerson)
		persons.PUT("/:id", personHandler.UpdatePerson)
		persons.PATCH("/:id", personHandler.UpdatePerson)
		persons.DELETE("/:id", personHandler.DeletePerson)
		persons.GET("/:id/family_tree", personHandler.FamilyTree)
		persons.GET("/:id/descendants", personHandler.Descendants)
		persons.GET("/:id/ancestors", personHandler.Ancestors)
	}

	relationships := group.Group("/relationships")
	{
		relationships.GET("", relationshipHandler.ListRelationships)
		relationships.POST("", relationshipHandler.CreateRelationship)
		relationships.POST("/create_spouse_relationship", relationshipHandler.CreateSpouseRelationship)
		relationships.POST("/create_parent_child_relationship", relationshipHandler.CreateParentChildRelationship)
		relationships.GET("/:id", relationshipHandler.GetRelationship)
		relationships.PUT("/:id", relationshipHandler.UpdateRelationship)
		relationships.PATCH("/:id", relationshipHandler.UpdateRelationship)
		relationships.DELETE("/:id", relationshipHandler.DeleteRelationship)
	}
}
