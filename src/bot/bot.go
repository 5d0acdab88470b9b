package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/amosov/userdir/src/logging"
	"github.com/amosov/userdir/src/services"
)

// Command grammar. Patterns mirror the exact-match text commands the bot
// accepts; anything else is ignored.
var (
	startRe  = regexp.MustCompile(`^/start`)
	helpRe   = regexp.MustCompile(`^/help`)
	searchRe = regexp.MustCompile(`^/search (.+)`)
	editRe   = regexp.MustCompile(`^/edit (\d+)`)
	updateRe = regexp.MustCompile(`^/update (\d+) (\w+) (.+)`)
)

const (
	replyWelcome        = "Welcome to the admin bot. Use /help to see available commands."
	replyHelp           = "Available commands:\n/search [query]\n/edit [user_id]\n/update [user_id] [field] [value]"
	replyNotBotAdmin    = "You are not authorized to use this bot."
	replyNotAuthorized  = "You are not authorized to use this command."
	replyUserNotFound   = "User not found."
	replyUpdateOK       = "User updated successfully."
	replyUpdateNotFound = "User not found or update failed."
	replyNoUsers        = "No users found."
	replyInternalError  = "Something went wrong. Please try again later."
)

// Bot is the Telegram command front-end onto the user directory. Its
// allow-list of numeric sender IDs is independent of the web console's
// admin accounts.
type Bot struct {
	api      *tgbotapi.BotAPI
	users    *services.UserService
	adminIDs map[int64]struct{}
	logger   zerolog.Logger
}

// New creates the command bot
func New(token string, users *services.UserService, adminIDs []int64) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram token is required")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	return newBot(api, users, adminIDs), nil
}

func newBot(api *tgbotapi.BotAPI, users *services.UserService, adminIDs []int64) *Bot {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}

	return &Bot{
		api:      api,
		users:    users,
		adminIDs: ids,
		logger:   logging.NewLogger("bot"),
	}
}

// Run long-polls for updates until the context is cancelled. Updates are
// handled one at a time, in arrival order.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info().Str("username", b.api.Self.UserName).Msg("bot polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info().Msg("bot polling stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
				continue
			}

			reply := b.HandleCommand(ctx, update.Message.From.ID, update.Message.Text)
			if reply == "" {
				continue
			}

			if _, err := b.api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, reply)); err != nil {
				b.logger.Error().Err(err).Int64("chat_id", update.Message.Chat.ID).Msg("failed to send reply")
			}
		}
	}
}

// isAdmin reports whether the sender is on the allow-list
func (b *Bot) isAdmin(senderID int64) bool {
	_, ok := b.adminIDs[senderID]
	return ok
}

// HandleCommand maps one incoming message to its reply text. An empty reply
// means the message matched no command and is ignored.
func (b *Bot) HandleCommand(ctx context.Context, senderID int64, text string) string {
	switch {
	case startRe.MatchString(text):
		return replyWelcome

	case helpRe.MatchString(text):
		if !b.isAdmin(senderID) {
			return replyNotBotAdmin
		}
		return replyHelp

	case searchRe.MatchString(text):
		if !b.isAdmin(senderID) {
			return replyNotAuthorized
		}
		return b.handleSearch(ctx, searchRe.FindStringSubmatch(text)[1])

	case editRe.MatchString(text):
		if !b.isAdmin(senderID) {
			return replyNotAuthorized
		}
		return b.handleEdit(ctx, editRe.FindStringSubmatch(text)[1])

	case updateRe.MatchString(text):
		if !b.isAdmin(senderID) {
			return replyNotAuthorized
		}
		m := updateRe.FindStringSubmatch(text)
		return b.handleUpdate(ctx, m[1], m[2], m[3])
	}

	return ""
}

func (b *Bot) handleSearch(ctx context.Context, query string) string {
	users, err := b.users.Search(ctx, query)
	if err != nil {
		b.logger.Error().Err(err).Str("query", query).Msg("search failed")
		return replyInternalError
	}
	if len(users) == 0 {
		return replyNoUsers
	}

	var sb strings.Builder
	sb.WriteString("Search results:\n")
	for _, u := range users {
		fmt.Fprintf(&sb, "ID: %d, Name: %s, Surname: %s, Email: %s\n", u.ID, u.Username, u.Surname, u.Email)
	}
	return sb.String()
}

func (b *Bot) handleEdit(ctx context.Context, idText string) string {
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return replyUserNotFound
	}

	user, err := b.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return replyUserNotFound
		}
		b.logger.Error().Err(err).Int64("user_id", id).Msg("lookup failed")
		return replyInternalError
	}

	return fmt.Sprintf("Editing user:\nID: %d, Name: %s, Surname: %s, Email: %s",
		user.ID, user.Username, user.Surname, user.Email)
}

func (b *Bot) handleUpdate(ctx context.Context, idText, field, value string) string {
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return replyUpdateNotFound
	}

	err = b.users.UpdateField(ctx, id, field, value)
	if err != nil {
		if errors.Is(err, services.ErrInvalidField) {
			return fmt.Sprintf("Invalid field. Valid fields are: %s", strings.Join(services.UserFields(), ", "))
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return replyUpdateNotFound
		}
		b.logger.Error().Err(err).Int64("user_id", id).Str("field", field).Msg("update failed")
		return replyInternalError
	}

	return replyUpdateOK
}
