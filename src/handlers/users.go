package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amosov/userdir/src/middleware"
	"github.com/amosov/userdir/src/services"
)

// UserHandler handles the self-service routes
type UserHandler struct {
	userService  *services.UserService
	emailService *services.EmailService
	notifier     *services.TelegramNotifier
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, emailService *services.EmailService, notifier *services.TelegramNotifier) *UserHandler {
	return &UserHandler{
		userService:  userService,
		emailService: emailService,
		notifier:     notifier,
	}
}

// RegisterRequest represents the self-registration form
type RegisterRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Surname  string `form:"surname" json:"surname" binding:"required"`
	Contact  string `form:"contact" json:"contact"`
	Email    string `form:"email" json:"email" binding:"required"`
	Area     string `form:"area" json:"area"`
	Password string `form:"password" json:"password" binding:"required"`
}

// HandleRegister creates a self-service account
func (uh *UserHandler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, surname, email and password are required"})
		return
	}

	user, err := uh.userService.Register(c.Request.Context(),
		req.Username, req.Surname, req.Contact, req.Email, req.Area, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "user with this name, surname and email already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Best-effort side effects after the write
	dispatchRegistrationEmail(uh.emailService, user.Email, user.Username)
	dispatchRegistrationNotice(uh.notifier, user)

	c.JSON(http.StatusCreated, user)
}

// LoginRequest represents the user login form
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// HandleLogin authenticates a user by email and sets the session cookie
func (uh *UserHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := uh.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := middleware.GenerateUserToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	setSessionCookie(c, middleware.UserTokenCookie, token)

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(sessionTTL).Unix(),
	})
}

// HandleLogout clears the user session cookie
func (uh *UserHandler) HandleLogout(c *gin.Context) {
	clearSessionCookie(c, middleware.UserTokenCookie)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// HandleGetProfile returns the authenticated user's own record
func (uh *UserHandler) HandleGetProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := uh.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			// Row deleted since the token was issued
			clearSessionCookie(c, middleware.UserTokenCookie)
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ProfileUpdateRequest represents the profile edit form
type ProfileUpdateRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Surname  string `form:"surname" json:"surname" binding:"required"`
	Contact  string `form:"contact" json:"contact"`
	Email    string `form:"email" json:"email" binding:"required"`
	Area     string `form:"area" json:"area"`
}

// HandleUpdateProfile updates the authenticated user's own record
func (uh *UserHandler) HandleUpdateProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req ProfileUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, surname and email are required"})
		return
	}

	err := uh.userService.Update(c.Request.Context(), userID, req.Username, req.Surname, req.Contact, req.Email, req.Area)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// HandleDeleteProfile removes the authenticated user's own record and ends
// the session
func (uh *UserHandler) HandleDeleteProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := uh.userService.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete profile"})
		return
	}

	clearSessionCookie(c, middleware.UserTokenCookie)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
