package handlers

import (
	"net/http"

	"interview-alchemist/internal/catalog"
	"interview-alchemist/internal/utils"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// Get lists the industries, topics, types and difficulties a session may use
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.catalog)
}
