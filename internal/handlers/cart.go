package handlers

import (
	"net/http"

	"cloudscale_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	lines, err := h.Cart.Lines(ctx, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// 🟢 POST /api/cart
func (h *Handler) AddToCart(c *gin.Context) {
	var input services.AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Produit et quantité requis")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.Cart.Add(ctx, userID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// 🟢 PUT /api/cart/:id
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input services.UpdateQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Quantité invalide")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.Cart.UpdateQuantity(ctx, userID(c), id, input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// 🔴 DELETE /api/cart/:id
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Cart.Remove(ctx, userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// 🔴 DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Cart.Clear(ctx, userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
