package handlers

import (
	"net/http"

	"cloudscale_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/addresses
func (h *Handler) GetAddresses(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	addresses, err := h.Addresses.List(ctx, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// 🟢 POST /api/addresses
func (h *Handler) CreateAddress(c *gin.Context) {
	var input services.AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Adresse incomplète")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	address, err := h.Addresses.Create(ctx, userID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// 🟢 PUT /api/addresses/:id
func (h *Handler) UpdateAddress(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input services.AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Adresse incomplète")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	address, err := h.Addresses.Update(ctx, userID(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// 🟢 PUT /api/addresses/:id/default
func (h *Handler) MakeDefaultAddress(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	address, err := h.Addresses.SetDefault(ctx, userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// 🔴 DELETE /api/addresses/:id
func (h *Handler) DeleteAddress(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Addresses.Delete(ctx, userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
