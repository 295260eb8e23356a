package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"noteflow/dto"
	"noteflow/middleware"
	"noteflow/usecase"
	"noteflow/utils"
)

type AuthHandler struct {
	Auth         *usecase.AuthService
	CookieTTL    time.Duration
	CookieSecure bool
}

func NewAuthHandler(auth *usecase.AuthService, cookieTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{Auth: auth, CookieTTL: cookieTTL, CookieSecure: secure}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token,
		int(h.CookieTTL.Seconds()), "/", "", h.CookieSecure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.CookieSecure, true)
}

func profileOf(p dto.SignupProfile) usecase.Profile {
	return usecase.Profile{Name: p.Name, Email: p.Email, Phone: p.Phone, Picture: p.Picture}
}

// PhoneSignIn exchanges an OTP-confirmed phone credential for a session.
func (h *AuthHandler) PhoneSignIn(c *gin.Context) {
	var req dto.PhoneAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing phone auth token")
		return
	}

	user, token, err := h.Auth.PhoneSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, usecase.ErrSignupRequired) {
			middleware.AuthAttempts.WithLabelValues("signup_required", "phone").Inc()
			c.JSON(http.StatusNotFound, &utils.Response{
				Status: http.StatusNotFound,
				Error:  "No account for this phone number",
				Data:   dto.AuthResponse{Action: "signup_required"},
			})
			return
		}
		middleware.AuthAttempts.WithLabelValues("failure", "phone").Inc()
		utils.BadRequest(c, "Phone sign-in failed")
		return
	}

	middleware.AuthAttempts.WithLabelValues("success", "phone").Inc()
	h.setSessionCookie(c, token)
	utils.Success(c, dto.AuthResponse{Action: "signin", User: user})
}

// PhoneSignUp creates an account for a verified phone number.
func (h *AuthHandler) PhoneSignUp(c *gin.Context) {
	var req dto.PhoneAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing phone auth token")
		return
	}

	user, token, err := h.Auth.PhoneSignUp(c.Request.Context(), req.IDToken, profileOf(req.Profile))
	if err != nil {
		if errors.Is(err, usecase.ErrAccountExists) {
			middleware.AuthAttempts.WithLabelValues("conflict", "phone").Inc()
			utils.Conflict(c, "Account already exists, use sign-in")
			return
		}
		middleware.AuthAttempts.WithLabelValues("failure", "phone").Inc()
		utils.BadRequest(c, "Phone sign-up failed")
		return
	}

	middleware.AuthAttempts.WithLabelValues("success", "phone").Inc()
	h.setSessionCookie(c, token)
	utils.Created(c, dto.AuthResponse{Action: "signup", User: user})
}

// GoogleSignIn verifies a Google ID token. First contact returns prefill
// data instead of creating an account.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req dto.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing Google ID token")
		return
	}

	user, token, prefill, err := h.Auth.GoogleSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		middleware.AuthAttempts.WithLabelValues("failure", "google").Inc()
		utils.BadRequest(c, "Google sign-in failed")
		return
	}

	if prefill != nil {
		middleware.AuthAttempts.WithLabelValues("signup_prefill", "google").Inc()
		utils.Success(c, dto.AuthResponse{
			Action: "signup_prefill",
			Prefill: &dto.SignupProfile{
				Name:    prefill.Name,
				Email:   prefill.Email,
				Picture: prefill.Picture,
			},
		})
		return
	}

	middleware.AuthAttempts.WithLabelValues("success", "google").Inc()
	h.setSessionCookie(c, token)
	utils.Success(c, dto.AuthResponse{Action: "signin", User: user})
}

// GoogleSignUp completes a confirmed Google sign-up.
func (h *AuthHandler) GoogleSignUp(c *gin.Context) {
	var req dto.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing Google ID token")
		return
	}

	user, token, err := h.Auth.GoogleSignUp(c.Request.Context(), req.IDToken, profileOf(req.Profile))
	if err != nil {
		if errors.Is(err, usecase.ErrAccountExists) {
			middleware.AuthAttempts.WithLabelValues("conflict", "google").Inc()
			utils.Conflict(c, "Account already exists, use sign-in")
			return
		}
		middleware.AuthAttempts.WithLabelValues("failure", "google").Inc()
		utils.BadRequest(c, "Google sign-up failed")
		return
	}

	middleware.AuthAttempts.WithLabelValues("success", "google").Inc()
	h.setSessionCookie(c, token)
	utils.Created(c, dto.AuthResponse{Action: "signup", User: user})
}

// Me reports the identity behind the current session, if any.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.Success(c, dto.MeResponse{Authenticated: false})
		return
	}
	utils.Success(c, dto.MeResponse{Authenticated: true, User: &id})
}

// Logout clears the session cookie. There is no server-side session state
// to tear down.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	utils.Success(c, gin.H{"message": "Logged out"})
}
