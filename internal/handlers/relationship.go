package handlers

import (
	"net/http"

	"github.com/alimgiray/familytree/internal/services"
	"github.com/gin-gonic/gin"
)

type relationshipRequest struct {
	RelationshipType *string `json:"relationship_type" form:"relationship_type"`
	Person1          *string `json:"person1" form:"person1"`
	Person2          *string `json:"person2" form:"person2"`
	MarriageDate     *string `json:"marriage_date" form:"marriage_date"`
	DivorceDate      *string `json:"divorce_date" form:"divorce_date"`
}

func (r relationshipRequest) input() services.RelationshipInput {
	return services.RelationshipInput{
		RelationshipType: r.RelationshipType,
		Person1ID:        r.Person1,
		Person2ID:        r.Person2,
		MarriageDate:     r.MarriageDate,
		DivorceDate:      r.DivorceDate,
	}
}

type spouseRequest struct {
	Person1      string `json:"person1" form:"person1" binding:"required"`
	Person2      string `json:"person2" form:"person2" binding:"required"`
	MarriageDate string `json:"marriage_date" form:"marriage_date"`
}

type parentChildRequest struct {
	Parent string `json:"parent" form:"parent" binding:"required"`
	Child  string `json:"child" form:"child" binding:"required"`
}

type RelationshipHandler struct {
	relationshipService *services.RelationshipService
}

func NewRelationshipHandler(relationshipService *services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{
		relationshipService: relationshipService,
	}
}

// ListRelationships filters by the type and person query parameters
func (h *RelationshipHandler) ListRelationships(c *gin.Context) {
	relationships, err := h.relationshipService.ListRelationships(c.Query("type"), c.Query("person"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, relationshipResponses(relationships))
}

// GetRelationship returns a single relationship
func (h *RelationshipHandler) GetRelationship(c *gin.Context) {
	relationship, err := h.relationshipService.GetRelationship(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, relationshipResponse(relationship))
}

// CreateRelationship creates a relationship of any type
func (h *RelationshipHandler) CreateRelationship(c *gin.Context) {
	var request relationshipRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	relationship, err := h.relationshipService.CreateRelationship(request.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, relationshipResponse(relationship))
}

// UpdateRelationship replaces (PUT) or patches (PATCH) a relationship
func (h *RelationshipHandler) UpdateRelationship(c *gin.Context) {
	var request relationshipRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	partial := c.Request.Method == http.MethodPatch
	relationship, err := h.relationshipService.UpdateRelationship(c.Param("id"), request.input(), partial)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, relationshipResponse(relationship))
}

// DeleteRelationship deletes a relationship
func (h *RelationshipHandler) DeleteRelationship(c *gin.Context) {
	if err := h.relationshipService.DeleteRelationship(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateSpouseRelationship links person1 and person2 as spouses
func (h *RelationshipHandler) CreateSpouseRelationship(c *gin.Context) {
	var request spouseRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both person1 and person2 are required"})
		return
	}

	relationship, err := h.relationshipService.CreateSpouseRelationship(request.Person1, request.Person2, request.MarriageDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, relationshipResponse(relationship))
}

// CreateParentChildRelationship links parent and child
func (h *RelationshipHandler) CreateParentChildRelationship(c *gin.Context) {
	var request parentChildRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both parent and child are required"})
		return
	}

	relationship, err := h.relationshipService.CreateParentChildRelationship(request.Parent, request.Child)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, relationshipResponse(relationship))
}
