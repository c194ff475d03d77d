package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
	"github.com/GurugubelliAjay/E-Commerce/internal/service"
)

type Auth struct {
	Svc    *service.AuthService
	Tokens *service.TokenService
	Secure bool // Secure cookie flag, off for local dev
}

func (h *Auth) setAuthCookies(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("accessToken", access, int(service.AccessTokenTTL.Seconds()), "/", "", h.Secure, true)
	c.SetCookie("refreshToken", refresh, int(service.RefreshTokenTTL.Seconds()), "/", "", h.Secure, true)
}

func (h *Auth) clearAuthCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", h.Secure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", h.Secure, true)
}

func userJSON(u *model.User) gin.H {
	return gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role}
}

func (h *Auth) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	u, access, refresh, err := h.Svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setAuthCookies(c, access, refresh)
	c.JSON(http.StatusCreated, userJSON(u))
}

func (h *Auth) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	u, access, refresh, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setAuthCookies(c, access, refresh)
	c.JSON(http.StatusOK, userJSON(u))
}

func (h *Auth) Logout(c *gin.Context) {
	if refresh, err := c.Cookie("refreshToken"); err == nil {
		_ = h.Svc.Logout(c.Request.Context(), refresh)
	}
	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Refresh rotates the access token off a valid, still-stored refresh token.
func (h *Auth) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refreshToken")
	if err != nil || refresh == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no refresh token provided"})
		return
	}
	access, _, err := h.Tokens.RotateAccessToken(c.Request.Context(), refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("accessToken", access, int(service.AccessTokenTTL.Seconds()), "/", "", h.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "access token refreshed"})
}

func (h *Auth) Profile(c *gin.Context) {
	u, err := h.Svc.Profile(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(u))
}
