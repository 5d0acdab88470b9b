package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/amosov/userdir/src/models"
	"github.com/amosov/userdir/src/services"
)

// sessionTTL matches the token expiry set by the middleware package
const sessionTTL = 24 * time.Hour

func setSessionCookie(c *gin.Context, name, token string) {
	c.SetCookie(
		name,
		token,
		int(sessionTTL.Seconds()),
		"/",
		"",
		true, // Secure
		true, // HttpOnly
	)
}

func clearSessionCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", true, true)
}

// Notification dispatch is best-effort: failures are logged, never surfaced
// to the caller, and the response does not wait for delivery.

func dispatchWelcomeEmail(emailService *services.EmailService, to, name string) {
	if emailService == nil {
		return
	}
	go func() {
		if err := emailService.SendWelcomeEmail(to, name); err != nil {
			log.Error().Err(err).Msg("failed to send welcome email")
		}
	}()
}

func dispatchRegistrationEmail(emailService *services.EmailService, to, name string) {
	if emailService == nil {
		return
	}
	go func() {
		if err := emailService.SendRegistrationEmail(to, name); err != nil {
			log.Error().Err(err).Msg("failed to send registration email")
		}
	}()
}

func dispatchRegistrationNotice(notifier *services.TelegramNotifier, user *models.User) {
	if notifier == nil {
		return
	}
	// Copy for the goroutine; the request-scoped value must not be shared
	u := *user
	go func() {
		if err := notifier.NotifyUserRegistered(&u); err != nil {
			log.Error().Err(err).Msg("failed to send registration notification")
		}
	}()
}
