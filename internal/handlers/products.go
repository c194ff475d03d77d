package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
	"github.com/GurugubelliAjay/E-Commerce/internal/service"
)

type Products struct {
	Svc *service.CatalogService
}

func (h *Products) All(c *gin.Context) {
	ps, err := h.Svc.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": ps})
}

func (h *Products) Featured(c *gin.Context) {
	ps, err := h.Svc.GetFeatured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *Products) Recommended(c *gin.Context) {
	ps, err := h.Svc.Recommended(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *Products) ByCategory(c *gin.Context) {
	ps, err := h.Svc.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *Products) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		PricePaise  int64  `json:"pricePaise" binding:"required,gt=0"`
		Image       string `json:"image"`
		Category    string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		PricePaise:  req.PricePaise,
		ImageURL:    req.Image,
		Category:    req.Category,
	}
	if err := h.Svc.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *Products) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *Products) ToggleFeatured(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		return
	}
	p, err := h.Svc.ToggleFeatured(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, service.ErrInvalidRequest
	}
	return uint(id), nil
}
