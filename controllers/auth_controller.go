package controllers

import (
	"net/http"
	"time"

	"campusfind/utils"

	"github.com/gin-gonic/gin"
)

// AuthController issues reporter tokens for campus email addresses. Email
// ownership verification (the OTP mail flow) happens upstream in the UI;
// this endpoint turns a verified campus address into the signed identity the
// submission and lifecycle endpoints require.
type AuthController struct {
	jwtSecret          string
	jwtIssuer          string
	jwtExpiration      time.Duration
	allowedEmailDomain string
}

func NewAuthController(jwtSecret, jwtIssuer string, jwtExpiration time.Duration, allowedEmailDomain string) *AuthController {
	return &AuthController{
		jwtSecret:          jwtSecret,
		jwtIssuer:          jwtIssuer,
		jwtExpiration:      jwtExpiration,
		allowedEmailDomain: allowedEmailDomain,
	}
}

type loginRequest struct {
	Email string `json:"email" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateCampusEmail(req.Email, ac.allowedEmailDomain); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	rollNo := utils.RollNumberFromEmail(req.Email)

	token, err := utils.GenerateToken(rollNo, req.Email, ac.jwtSecret, ac.jwtIssuer, ac.jwtExpiration)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to issue token", nil)
		return
	}

	utils.SuccessResponse(c, "Logged in", gin.H{
		"token":  token,
		"rollNo": rollNo,
	})
}
