package handlers

import (
	"net/http"
	"time"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/alimgiray/familytree/internal/services"
	"github.com/alimgiray/familytree/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// respondError maps domain errors onto status codes
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var conflictErr *models.ConflictError

	switch {
	case errors.As(err, &validationErr):
		body := gin.H{"error": validationErr.Message}
		if validationErr.Field != "" {
			body["field"] = validationErr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": conflictErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		_ = c.Error(err)
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled request error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// The response shapes below differ per route: list views only need a
// summary, detail and tree views nest relatives.

type personSummary struct {
	ID           string        `json:"id"`
	FullName     string        `json:"full_name"`
	Gender       models.Gender `json:"gender"`
	ProfilePhoto *string       `json:"profile_photo"`
}

type personFull struct {
	personSummary
	DateOfBirth *models.Date `json:"date_of_birth"`
	DateOfDeath *models.Date `json:"date_of_death"`
	Notes       string       `json:"notes"`
	Age         *int         `json:"age"`
	IsAlive     bool         `json:"is_alive"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type spouseView struct {
	personSummary
	MarriageDate         *models.Date     `json:"marriage_date"`
	DivorceDate          *models.Date     `json:"divorce_date"`
	ActiveMarriageStatus bool             `json:"active_marriage_status"`
	Children             *[]personSummary `json:"children,omitempty"`
}

type personDetail struct {
	personFull
	Spouses  []spouseView    `json:"spouses"`
	Parents  []personSummary `json:"parents"`
	Children []personSummary `json:"children"`
}

type familyTreeView struct {
	personSummary
	Spouses  []spouseView    `json:"spouses"`
	Children []personSummary `json:"children"`
}

type relationshipView struct {
	ID                   string                  `json:"id"`
	RelationshipType     models.RelationshipType `json:"relationship_type"`
	Person1              string                  `json:"person1"`
	Person2              string                  `json:"person2"`
	Person1Name          string                  `json:"person1_name"`
	Person2Name          string                  `json:"person2_name"`
	MarriageDate         *models.Date            `json:"marriage_date"`
	DivorceDate          *models.Date            `json:"divorce_date"`
	ActiveMarriageStatus bool                    `json:"active_marriage_status"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// presenter builds response shapes, resolving photo keys to URLs
type presenter struct {
	photoURL func(key *string) *string
}

func (p presenter) summary(person *models.Person) personSummary {
	return personSummary{
		ID:           person.ID,
		FullName:     person.FullName,
		Gender:       person.Gender,
		ProfilePhoto: p.photoURL(person.ProfilePhoto),
	}
}

func (p presenter) summaries(people []*models.Person) []personSummary {
	out := make([]personSummary, 0, len(people))
	for _, person := range people {
		out = append(out, p.summary(person))
	}
	return out
}

func (p presenter) full(person *models.Person) personFull {
	return personFull{
		personSummary: p.summary(person),
		DateOfBirth:   person.DateOfBirth,
		DateOfDeath:   person.DateOfDeath,
		Notes:         person.Notes,
		Age:           person.Age(),
		IsAlive:       person.IsAlive(),
		CreatedAt:     person.CreatedAt,
		UpdatedAt:     person.UpdatedAt,
	}
}

func (p presenter) spouses(links []services.SpouseLink, withChildren bool) []spouseView {
	out := make([]spouseView, 0, len(links))
	for _, link := range links {
		view := spouseView{
			personSummary:        p.summary(link.Spouse),
			MarriageDate:         link.Relationship.MarriageDate,
			DivorceDate:          link.Relationship.DivorceDate,
			ActiveMarriageStatus: link.Relationship.IsActiveMarriage(),
		}
		if withChildren {
			children := p.summaries(link.Children)
			view.Children = &children
		}
		out = append(out, view)
	}
	return out
}

func (p presenter) detail(d *services.PersonDetail) personDetail {
	return personDetail{
		personFull: p.full(d.Person),
		Spouses:    p.spouses(d.Spouses, false),
		Parents:    p.summaries(d.Parents),
		Children:   p.summaries(d.Children),
	}
}

func (p presenter) tree(t *services.FamilyTree) familyTreeView {
	return familyTreeView{
		personSummary: p.summary(t.Person),
		Spouses:       p.spouses(t.Spouses, true),
		Children:      p.summaries(t.Children),
	}
}

func relationshipResponse(rel *models.FamilyRelationship) relationshipView {
	return relationshipView{
		ID:                   rel.ID,
		RelationshipType:     rel.RelationshipType,
		Person1:              rel.Person1ID,
		Person2:              rel.Person2ID,
		Person1Name:          rel.Person1Name,
		Person2Name:          rel.Person2Name,
		MarriageDate:         rel.MarriageDate,
		DivorceDate:          rel.DivorceDate,
		ActiveMarriageStatus: rel.IsActiveMarriage(),
		CreatedAt:            rel.CreatedAt,
		UpdatedAt:            rel.UpdatedAt,
	}
}

func relationshipResponses(rels []*models.FamilyRelationship) []relationshipView {
	out := make([]relationshipView, 0, len(rels))
	for _, rel := range rels {
		out = append(out, relationshipResponse(rel))
	}
	return out
}
