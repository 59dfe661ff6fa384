package controllers

import (
	"net/http"
	"time"

	"equilibrio-api/config"
	"equilibrio-api/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 12 * time.Hour

// AuthController handles the admin login that protects mutating endpoints.
type AuthController struct {
	cfg *config.Config
}

// NewAuthController creates a new auth controller.
func NewAuthController(cfg *config.Config) *AuthController {
	return &AuthController{cfg: cfg}
}

// Login exchanges the admin password for a session token
// POST /api/admin/login
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	ip := c.ClientIP()

	if ac.cfg.AdminPasswordHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin login is not configured"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ac.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		middleware.RecordLoginAttempt(ip, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}
	middleware.RecordLoginAttempt(ip, true)

	token, expiresAt, err := middleware.IssueAdminToken(adminTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.Unix(),
	})
}
