package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
)

// CreatorStore defines the read access the creators endpoint needs.
type CreatorStore interface {
	List(ctx context.Context, name string) ([]catalog.Creator, error)
}

var _ CreatorStore = (*catalog.CreatorRepository)(nil)

type CreatorsController struct {
	store CreatorStore
}

func NewCreatorsController(store CreatorStore) *CreatorsController {
	return &CreatorsController{store: store}
}

// ListCreators searches creators by name.
// GET /creators?name=
func (cc *CreatorsController) ListCreators(c *gin.Context) {
	creators, err := cc.store.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondStoreError(c, err, "list creators")
		return
	}
	c.JSON(http.StatusOK, creators)
}
