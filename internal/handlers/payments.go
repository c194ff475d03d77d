package handlers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GurugubelliAjay/E-Commerce/internal/service"
)

type Payments struct {
	Svc       *service.CheckoutService
	ClientURL string
}

// CreateCheckoutSession opens a provider order for the submitted cart.
// Prices arrive in rupees and are converted to paise here, at the edge.
func (h *Payments) CreateCheckoutSession(c *gin.Context) {
	var req struct {
		Products []struct {
			ID       uint    `json:"id"`
			Name     string  `json:"name"`
			Image    string  `json:"image"`
			Price    float64 `json:"price"` // rupees
			Quantity int     `json:"quantity"`
		} `json:"products"`
		CouponCode string `json:"couponCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or empty products array"})
		return
	}
	items := make([]service.CheckoutItem, 0, len(req.Products))
	for _, p := range req.Products {
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		// Round, never truncate: 19.99 rupees is 1998.999... in float64
		// and must come out as 1999 paise.
		paise := int64(math.Round(p.Price * 100))
		items = append(items, service.CheckoutItem{
			ProductID:  p.ID,
			Name:       p.Name,
			Image:      p.Image,
			PricePaise: paise,
			Quantity:   qty,
		})
	}
	sess, err := h.Svc.CreateCheckoutSession(c.Request.Context(), userID(c), items, req.CouponCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          sess.OrderID,
		"amount":      sess.Amount,
		"amountPaise": sess.AmountPaise,
		"currency":    sess.Currency,
		"success_url": fmt.Sprintf("%s/purchase-success?session_id=%s", h.ClientURL, sess.OrderID),
		"cancel_url":  h.ClientURL + "/purchase-cancel",
	})
}

// CheckoutSuccess is the signed payment callback. Replays return the
// already-recorded order with 200, so clients and the provider can retry
// freely.
func (h *Payments) CheckoutSuccess(c *gin.Context) {
	var req struct {
		RazorpayPaymentID string `json:"razorpayPaymentId"`
		RazorpayOrderID   string `json:"razorpayOrderId"`
		RazorpaySignature string `json:"razorpaySignature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing payment details"})
		return
	}
	order, err := h.Svc.ConfirmCheckout(c.Request.Context(),
		req.RazorpayPaymentID, req.RazorpayOrderID, req.RazorpaySignature, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "payment verified and order recorded",
		"orderId":     order.ID,
		"totalAmount": float64(order.TotalPaise) / 100.0,
	})
}
