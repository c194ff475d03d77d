package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GurugubelliAjay/E-Commerce/internal/service"
)

type Cart struct {
	Svc *service.CartService
}

func (h *Cart) Add(c *gin.Context) {
	var req struct {
		ProductID uint `json:"productId" binding:"required"`
		Qty       int  `json:"qty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}
	if err := h.Svc.Add(c.Request.Context(), userID(c), req.ProductID, req.Qty); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "added"})
}

func (h *Cart) Get(c *gin.Context) {
	items, err := h.Svc.Get(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Cart) Clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context(), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
