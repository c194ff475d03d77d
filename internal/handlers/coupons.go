package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GurugubelliAjay/E-Commerce/internal/service"
)

type Coupons struct {
	Svc *service.CouponService
}

// Mine returns the caller's current coupon, or null when they have none.
func (h *Coupons) Mine(c *gin.Context) {
	coupon, err := h.Svc.ActiveForUser(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// Validate checks a code on behalf of the caller before checkout.
func (h *Coupons) Validate(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	coupon, err := h.Svc.FindActiveForUser(c.Request.Context(), userID(c), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	if coupon == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":            "coupon is valid",
		"code":               coupon.Code,
		"discountPercentage": coupon.DiscountPercentage,
	})
}
