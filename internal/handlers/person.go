package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/alimgiray/familytree/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// personRequest is accepted as JSON or as (multipart) form data
type personRequest struct {
	FullName    *string `json:"full_name" form:"full_name"`
	Gender      *string `json:"gender" form:"gender"`
	DateOfBirth *string `json:"date_of_birth" form:"date_of_birth"`
	DateOfDeath *string `json:"date_of_death" form:"date_of_death"`
	Notes       *string `json:"notes" form:"notes"`
}

func (r personRequest) input() services.PersonInput {
	return services.PersonInput{
		FullName:    r.FullName,
		Gender:      r.Gender,
		DateOfBirth: r.DateOfBirth,
		DateOfDeath: r.DateOfDeath,
		Notes:       r.Notes,
	}
}

type PersonHandler struct {
	personService *services.PersonService
	treeService   *services.FamilyTreeService
	exportService *services.ExportService
	present       presenter
}

func NewPersonHandler(personService *services.PersonService, treeService *services.FamilyTreeService,
	exportService *services.ExportService) *PersonHandler {
	return &PersonHandler{
		personService: personService,
		treeService:   treeService,
		exportService: exportService,
		present:       presenter{photoURL: personService.PhotoURL},
	}
}

// ListPersons lists persons filtered by the name and gender query parameters
func (h *PersonHandler) ListPersons(c *gin.Context) {
	persons, err := h.personService.ListPersons(c.Query("name"), c.Query("gender"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.present.summaries(persons))
}

// GetPerson returns a person with spouses, parents and children
func (h *PersonHandler) GetPerson(c *gin.Context) {
	detail, err := h.personService.GetPersonDetail(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.present.detail(detail))
}

// CreatePerson handles person creation from JSON or multipart form data
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var request personRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	photo, closePhoto, err := photoFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "profile_photo"})
		return
	}
	defer closePhoto()

	person, err := h.personService.CreatePerson(c.Request.Context(), request.input(), photo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.present.full(person))
}

// UpdatePerson replaces (PUT) or patches (PATCH) a person
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	var request personRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	photo, closePhoto, err := photoFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "profile_photo"})
		return
	}
	defer closePhoto()

	partial := c.Request.Method == http.MethodPatch
	person, err := h.personService.UpdatePerson(c.Request.Context(), c.Param("id"), request.input(), partial, photo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.present.full(person))
}

// DeletePerson deletes a person and every relationship it takes part in
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	if err := h.personService.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// FamilyTree returns the person's spouses with shared children
func (h *PersonHandler) FamilyTree(c *gin.Context) {
	tree, err := h.treeService.FamilyTree(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.present.tree(tree))
}

// Descendants returns a flat list of descendants
func (h *PersonHandler) Descendants(c *gin.Context) {
	descendants, err := h.treeService.Descendants(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.present.summaries(descendants))
}

// Ancestors returns a flat list of ancestors
func (h *PersonHandler) Ancestors(c *gin.Context) {
	ancestors, err := h.treeService.Ancestors(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.present.summaries(ancestors))
}

// Export downloads every person and relationship as a spreadsheet
func (h *PersonHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteWorkbook(&buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="family-tree.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// photoFromRequest extracts the optional profile_photo file of a multipart request
func photoFromRequest(c *gin.Context) (*services.PhotoUpload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, noop, nil
	}

	header, err := c.FormFile("profile_photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errors.Wrap(err, "invalid profile photo")
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, errors.Wrap(err, "open profile photo")
	}

	return &services.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, func() { file.Close() }, nil
}
