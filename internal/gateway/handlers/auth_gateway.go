package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"xcelbot-system/config"
	"xcelbot-system/internal/utils"
)

type AuthHTTPHandler struct {
	cfg config.AuthConfig
}

func NewAuthHTTPHandler(cfg config.AuthConfig) *AuthHTTPHandler {
	return &AuthHTTPHandler{cfg: cfg}
}

type MintTokenRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	CompanyID int64  `json:"company_id" binding:"required"`
	Username  string `json:"username" binding:"required"`
}

// MintToken issues a signed token for local development. The route is
// disabled unless DEV_TOKEN_MINT is set.
func (h *AuthHTTPHandler) MintToken(c *gin.Context) {
	if !h.cfg.DevTokenMint {
		c.JSON(http.StatusNotFound, errorResponse("Not found"))
		return
	}

	var req MintTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	token, exp, err := utils.GenerateToken([]byte(h.cfg.JwtSecret), req.UserID, req.CompanyID, req.Username, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to sign token"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Token issued", map[string]interface{}{
		"token":      token,
		"expires_at": exp,
	}))
}
