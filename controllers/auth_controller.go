package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"Gin_postgres_redis_club_tool/app"
	"Gin_postgres_redis_club_tool/auth"
	"Gin_postgres_redis_club_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthController struct{ *Srv }

func GetAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/auth/register
// The school ID maps to an institutional email (schoolId@domain) unless an
// explicit address on an approved domain is supplied. The account starts
// unverified and quiz-ungated.
func (ac *AuthController) Register(c *gin.Context) {
	var in struct {
		SchoolID  string `json:"schoolId" binding:"required"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Secret    string `json:"secret" binding:"required"`
		Email     string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if !auth.ValidSchoolID(in.SchoolID) {
		c.JSON(http.StatusBadRequest, app.H{"error": "school ID must be exactly 8 digits"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		email = fmt.Sprintf("%s@%s", in.SchoolID, ac.Cfg.EmailDomains[0])
	} else if !ac.approvedDomain(email) {
		c.JSON(http.StatusBadRequest, app.H{"error": "email must use an approved school domain"})
		return
	}

	if _, err := ac.Repo.FindUserBySchoolID(c.Request.Context(), in.SchoolID); err == nil {
		c.JSON(http.StatusConflict, app.H{"error": "this school ID is already registered"})
		return
	}

	hash, err := auth.HashSecret(in.Secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "registration failed, try again"})
		return
	}
	u := &models.User{
		ID:         uuid.NewString(),
		SchoolID:   in.SchoolID,
		Email:      email,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		SecretHash: hash,
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusConflict, app.H{"error": "account already exists"})
		return
	}

	ac.sendVerification(u.Email)
	c.JSON(http.StatusCreated, app.H{"ok": true, "needsVerification": true, "email": u.Email})
}

// GET /api/auth/verify?token=...
// Single use: the token's jti is consumed in Redis on first success.
func (ac *AuthController) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing token"})
		return
	}
	email, jti, err := auth.ParseVerifyToken(token, ac.Cfg.VerifySecret)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			c.JSON(http.StatusBadRequest, app.H{"error": "verification link expired, request a new one"})
			return
		}
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid verification link"})
		return
	}
	fresh, err := ac.Tokens.Consume(c.Request.Context(), jti)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "verification failed, try again"})
		return
	}
	if !fresh {
		c.JSON(http.StatusBadRequest, app.H{"error": "this verification link was already used"})
		return
	}
	if err := ac.Repo.SetEmailVerified(c.Request.Context(), email); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "verification failed, try again"})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "emailVerified": true})
}

// POST /api/auth/resend
func (ac *AuthController) ResendVerification(c *gin.Context) {
	var in struct {
		SchoolID string `json:"schoolId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, err := ac.Repo.FindUserBySchoolID(c.Request.Context(), in.SchoolID)
	if err != nil || u.EmailVerified {
		// don't leak which IDs exist
		c.JSON(http.StatusOK, app.H{"ok": true})
		return
	}
	ac.sendVerification(u.Email)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		SchoolID string `json:"schoolId" binding:"required"`
		Secret   string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, err := ac.Repo.FindUserBySchoolID(c.Request.Context(), in.SchoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, app.H{"error": "unknown school ID or wrong password"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": "login failed, try again"})
		return
	}
	if !auth.CheckSecret(u.SecretHash, in.Secret) {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unknown school ID or wrong password"})
		return
	}
	if !u.EmailVerified {
		c.JSON(http.StatusForbidden, app.H{"error": "verify your email before signing in"})
		return
	}
	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "login failed, try again"})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "user": identity(u)})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	secure := strings.HasPrefix(ac.WebOrigin, "https://")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/whoami
func (ac *AuthController) Whoami(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, identity(u))
}

// identity is the profile projection consumed by the clients (and mirrored by
// the lending engine's Session).
func identity(u *models.User) app.H {
	return app.H{
		"email":         u.Email,
		"firstName":     u.FirstName,
		"lastName":      u.LastName,
		"isAdmin":       u.IsAdmin,
		"quizPassed":    u.QuizPassed,
		"emailVerified": u.EmailVerified,
	}
}

func (ac *AuthController) approvedDomain(email string) bool {
	for _, d := range ac.Cfg.EmailDomains {
		if strings.HasSuffix(email, "@"+d) {
			return true
		}
	}
	return false
}

// sendVerification mails the signed link in the background; failures are
// logged, never surfaced.
func (ac *AuthController) sendVerification(email string) {
	token, err := auth.GenerateVerifyToken(email, ac.Cfg.VerifySecret, ac.Cfg.VerifyTTL)
	if err != nil {
		log.Printf("verify token for %s: %v", email, err)
		return
	}
	link := fmt.Sprintf("%s/verify?token=%s", ac.WebOrigin, token)
	if !ac.Mailer.Enabled() {
		log.Printf("[MAIL DISABLED] verification link for %s: %s", email, link)
		return
	}
	go func() {
		body := "Welcome to the music room! Verify your email to activate your account:\r\n\r\n" + link
		if err := ac.Mailer.Send(email, "Verify your music room account", body); err != nil {
			log.Printf("send verification to %s: %v", email, err)
		}
	}()
}
