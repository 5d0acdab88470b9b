package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/amosov/userdir/src/middleware"
	"github.com/amosov/userdir/src/services"
)

// AdminHandler handles the admin console routes
type AdminHandler struct {
	adminService *services.AdminService
	userService  *services.UserService
	emailService *services.EmailService
	notifier     *services.TelegramNotifier
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, userService *services.UserService, emailService *services.EmailService, notifier *services.TelegramNotifier) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		userService:  userService,
		emailService: emailService,
		notifier:     notifier,
	}
}

// AdminRegisterRequest represents the first-run registration form
type AdminRegisterRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// HandleRegisterGate reports whether first-run registration is open.
// When an admin already exists the browser is sent to the login page.
func (ah *AdminHandler) HandleRegisterGate(c *gin.Context) {
	hasAdmins, err := ah.adminService.HasAdmins(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check registration state"})
		return
	}
	if hasAdmins {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}

	c.JSON(http.StatusOK, gin.H{"registration_open": true})
}

// HandleRegister creates the first admin account. The gate is re-checked at
// write time so two racing requests cannot both pass a stale read.
func (ah *AdminHandler) HandleRegister(c *gin.Context) {
	var req AdminRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	admin, err := ah.adminService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAdminExists) {
			c.Redirect(http.StatusFound, "/admin/login")
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Info().Str("username", admin.Username).Msg("first admin registered")
	c.JSON(http.StatusCreated, gin.H{"id": admin.ID, "username": admin.Username})
}

// AdminLoginRequest represents the admin login form
type AdminLoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// HandleLogin authenticates an admin and sets the session cookie
func (ah *AdminHandler) HandleLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	admin, err := ah.adminService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := middleware.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	setSessionCookie(c, middleware.AdminTokenCookie, token)

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(24 * time.Hour).Unix(),
	})
}

// HandleLogout clears the admin session cookie. The account is untouched;
// profile deletion is a separate, deliberate operation.
func (ah *AdminHandler) HandleLogout(c *gin.Context) {
	clearSessionCookie(c, middleware.AdminTokenCookie)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// HandleDeleteProfile removes the authenticated admin's own account and ends
// the session
func (ah *AdminHandler) HandleDeleteProfile(c *gin.Context) {
	adminID := c.GetInt64("admin_id")

	if err := ah.adminService.DeleteAdmin(c.Request.Context(), adminID); err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete admin"})
		return
	}

	clearSessionCookie(c, middleware.AdminTokenCookie)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// HandleDashboard returns the admin identity and a directory summary
func (ah *AdminHandler) HandleDashboard(c *gin.Context) {
	count, err := ah.userService.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"admin_id":   c.GetInt64("admin_id"),
		"username":   c.GetString("admin_username"),
		"user_count": count,
	})
}

// UserFormRequest represents the add-user and edit-user forms
type UserFormRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Surname  string `form:"surname" json:"surname" binding:"required"`
	Contact  string `form:"contact" json:"contact"`
	Email    string `form:"email" json:"email" binding:"required"`
	Area     string `form:"area" json:"area"`
}

// HandleAddUser creates a user record without a credential
func (ah *AdminHandler) HandleAddUser(c *gin.Context) {
	var req UserFormRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, surname and email are required"})
		return
	}

	user, err := ah.userService.Create(c.Request.Context(), req.Username, req.Surname, req.Contact, req.Email, req.Area)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	// Best-effort side effects after the write
	dispatchWelcomeEmail(ah.emailService, user.Email, user.Username)
	dispatchRegistrationNotice(ah.notifier, user)

	c.JSON(http.StatusCreated, user)
}

// SearchRequest represents the search form
type SearchRequest struct {
	Query string `form:"query" json:"query"`
}

// HandleSearchUser returns users whose username, surname or email contains
// the query, case-insensitively
func (ah *AdminHandler) HandleSearchUser(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request"})
		return
	}

	users, err := ah.userService.Search(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// HandleGetUser returns a single user record for editing
func (ah *AdminHandler) HandleGetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := ah.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// HandleEditUser updates a user's profile fields
func (ah *AdminHandler) HandleEditUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UserFormRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, surname and email are required"})
		return
	}

	err := ah.userService.Update(c.Request.Context(), id, req.Username, req.Surname, req.Contact, req.Email, req.Area)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// HandleDeleteUser removes a user record by id
func (ah *AdminHandler) HandleDeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ah.userService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// HandleSendTempPassword overwrites the user's credential with a generated
// temporary password and emails the plaintext value to the stored address
func (ah *AdminHandler) HandleSendTempPassword(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tempPassword, email, err := ah.userService.ResetPassword(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
		return
	}

	if ah.emailService != nil {
		go func() {
			if err := ah.emailService.SendTempPasswordEmail(email, tempPassword); err != nil {
				log.Error().Err(err).Msg("failed to send temp password email")
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"status": "temp password sent"})
}

// parseIDParam reads the :id route parameter, answering 400 on garbage
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}
