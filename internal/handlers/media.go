package handlers

import (
	"net/http"
	"strings"

	"github.com/alimgiray/familytree/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type MediaHandler struct {
	photos *storage.PhotoStore
}

func NewMediaHandler(photos *storage.PhotoStore) *MediaHandler {
	return &MediaHandler{photos: photos}
}

// ServePhoto streams a stored profile photo
func (h *MediaHandler) ServePhoto(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	reader, err := h.photos.Open(c.Request.Context(), key)
	if errors.Is(err, storage.ErrPhotoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, reader.Size(), reader.ContentType(), reader, nil)
}
