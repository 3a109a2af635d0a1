package handlers

import (
	"net/http"

	"cloudscale_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/orders
func (h *Handler) GetOrders(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	orders, err := h.Orders.List(ctx, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// 🟢 GET /api/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := h.Orders.Get(ctx, userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// 🛒 POST /api/orders : transforme le panier en commande
func (h *Handler) Checkout(c *gin.Context) {
	var input services.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Adresses de livraison et de facturation requises")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := h.Orders.Checkout(ctx, userID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// 🔴 POST /api/orders/:id/cancel
func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := h.Orders.Cancel(ctx, userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
