package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
)

// LibraryStore defines the record operations the libraries endpoints need.
type LibraryStore interface {
	List(ctx context.Context, title string) ([]catalog.Library, error)
	Create(ctx context.Context, in catalog.LibraryInput) (*catalog.Library, error)
	Update(ctx context.Context, id string, in catalog.LibraryInput) error
	Delete(ctx context.Context, id string) error
}

var _ LibraryStore = (*catalog.LibraryRepository)(nil)

type LibrariesController struct {
	store LibraryStore
}

func NewLibrariesController(store LibraryStore) *LibrariesController {
	return &LibrariesController{store: store}
}

// ListLibraries searches library records. The query parameter is called
// "name" but is matched against the record title.
// GET /libraries?name=
func (lc *LibrariesController) ListLibraries(c *gin.Context) {
	libraries, err := lc.store.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondStoreError(c, err, "list libraries")
		return
	}
	c.JSON(http.StatusOK, libraries)
}

// CreateLibrary adds a new library record.
// POST /libraries
func (lc *LibrariesController) CreateLibrary(c *gin.Context) {
	var in catalog.LibraryInput
	if !bindJSON(c, &in) {
		return
	}

	library, err := lc.store.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, resourceLibrary, "create library")
		return
	}
	respondCreated(c, library)
}

// UpdateLibrary replaces title, material type and inventory.
// PUT /libraries/:id
func (lc *LibrariesController) UpdateLibrary(c *gin.Context) {
	var in catalog.LibraryInput
	if !bindJSON(c, &in) {
		return
	}

	if err := lc.store.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		respondError(c, err, resourceLibrary, "update library")
		return
	}
	respondSuccess(c, resourceLibrary.updated())
}

// DeleteLibrary removes a library record.
// DELETE /libraries/:id
func (lc *LibrariesController) DeleteLibrary(c *gin.Context) {
	if err := lc.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, resourceLibrary, "delete library")
		return
	}
	respondSuccess(c, resourceLibrary.deleted())
}
