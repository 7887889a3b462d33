package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/middleware"
	"github.com/BruksfildServices01/healthconnect-api/internal/session"
)

const appCheckHeader = "X-Firebase-AppCheck"

type AuthHandler struct {
	sessions *session.Manager
}

func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// --------- Requests ---------

type SignupRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type OTPRequest struct {
	Phone          string `json:"phone" binding:"required"`
	ChallengeToken string `json:"challenge_token"`
}

type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.sessions.Signup(c.Request.Context(), req.Identifier, req.Password, session.SignupDetails{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.sessions.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// RequestOTP takes the bot-check token from the App Check header, or from the
// body for clients that cannot set headers.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if !bindJSON(c, &req) {
		return
	}

	challenge := c.GetHeader(appCheckHeader)
	if challenge == "" {
		challenge = req.ChallengeToken
	}

	phone, err := h.sessions.RequestOtp(c.Request.Context(), req.Phone, challenge)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"phone": phone})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.sessions.VerifyOtp(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) FirebaseLogin(c *gin.Context) {
	var req FirebaseLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.sessions.FirebaseLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	res, err := h.sessions.Logout(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
