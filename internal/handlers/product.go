package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- CATALOGUE ---
//

// 🟢 GET /api/products
func (h *Handler) GetProducts(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.Catalog.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/category/:category
func (h *Handler) GetProductsByCategory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.Catalog.ByCategory(ctx, c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.Catalog.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
