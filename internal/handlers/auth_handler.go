package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vibro/internal/middleware"
	"vibro/internal/models"
	"vibro/internal/services"
)

type AuthHandler struct {
	login       services.LoginService
	google      services.GoogleAuthService
	users       services.UserService
	sessions    services.SessionService
	shortTTLSec int
	longTTLSec  int
}

func NewAuthHandler(
	login services.LoginService,
	google services.GoogleAuthService,
	users services.UserService,
	sessions services.SessionService,
	shortTTLSec, longTTLSec int,
) *AuthHandler {
	return &AuthHandler{
		login:       login,
		google:      google,
		users:       users,
		sessions:    sessions,
		shortTTLSec: shortTTLSec,
		longTTLSec:  longTTLSec,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, rememberMe bool) {
	maxAge := h.shortTTLSec
	if rememberMe {
		maxAge = h.longTTLSec
	}
	c.SetSameSite(http.SameSiteStrictMode)
	// empty domain keeps the __Host- prefix valid
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", true, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)
}

// @Summary      Sign in
// @Description  Two-step login: password + CAPTCHA first, then the emailed verification code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]interface{}
// @Failure      403    {object}  map[string]interface{}
// @Failure      429    {object}  map[string]interface{}
// @Failure      500    {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Malformed request body"})
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and password are required"})
		return
	}

	result, err := h.login.Login(c.Request.Context(), services.LoginAttempt{
		Email:            req.Email,
		Password:         req.Password,
		RememberMe:       req.RememberMe,
		CaptchaToken:     req.CaptchaToken,
		VerificationCode: req.VerificationCode,
		Fingerprint:      req.Fingerprint,
		ClientIP:         c.ClientIP(),
		UserAgent:        c.GetHeader("User-Agent"),
		AcceptLanguage:   c.GetHeader("Accept-Language"),
	})
	if err != nil {
		log.Printf("[auth][login] internal error email=%q: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	switch result.Status {
	case services.LoginRateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many attempts, try again later"})
	case services.LoginInvalidCredentials:
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
	case services.LoginCaptchaFailed:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Captcha verification failed"})
	case services.LoginCodeRequired:
		c.JSON(http.StatusOK, gin.H{
			"success":               true,
			"verification_required": true,
			"message":               "A verification code has been sent to your email",
		})
	case services.LoginCodeInvalid:
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired verification code"})
	case services.LoginSuccess:
		h.setSessionCookie(c, result.Session.Token, req.RememberMe)
		log.Printf("[auth][login] session established took=%s", time.Since(start).Truncate(time.Millisecond))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}

// GoogleLogin accepts a provider-issued ID token; issuance and consent are
// the provider's side of the fence.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		IDToken    string `json:"id_token" binding:"required"`
		RememberMe bool   `json:"remember_me"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "id_token is required"})
		return
	}

	claims, err := h.google.VerifyIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		if err == services.ErrGoogleTokenInvalid {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid Google token"})
			return
		}
		log.Printf("[auth][google] verify failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	user, err := h.users.FindOrCreateVerified(claims.Email, claims.Name, claims.Picture)
	if err != nil {
		if err == services.ErrUserNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
			return
		}
		log.Printf("[auth][google] find-or-create failed email=%q: %v", claims.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	session, err := h.sessions.Establish(user.Email, req.RememberMe)
	if err != nil {
		log.Printf("[auth][google] session failed email=%q: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	h.setSessionCookie(c, session.Token, req.RememberMe)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && token != "" {
		if err := h.sessions.Revoke(token); err != nil {
			log.Printf("[auth][logout] revoke failed: %v", err)
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	user, err := h.users.GetByID(id)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
