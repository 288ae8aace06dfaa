package botapi

import (
	"errors"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
)

// errorOutcomes maps Bot API errors to lookup outcomes.
// Errors not listed here are transport errors.
var errorOutcomes = map[error]entities.OutcomeKind{
	tgbot.ErrorBadRequest: entities.OutcomeInvalidRequest, // 400
	tgbot.ErrorForbidden:  entities.OutcomeForbidden,      // 403
	tgbot.ErrorNotFound:   entities.OutcomeNotFound,       // 404
}

func classify(err error) (entities.OutcomeKind, bool) {
	for sentinel, kind := range errorOutcomes {
		if errors.Is(err, sentinel) {
			return kind, true
		}
	}
	// a 400 carrying migrate_to_chat_id does not wrap ErrorBadRequest
	if tgbot.IsMigrateError(err) {
		return entities.OutcomeInvalidRequest, true
	}
	return entities.OutcomeTransportError, false
}

// toRecord converts a getChat result; chat-only fields are dropped for non-chat kinds
func toRecord(c *models.ChatFullInfo, extras chatExtras) *entities.ProfileRecord {
	kind := entities.EntityKind(c.Type)
	if kind == "" {
		kind = entities.KindPrivate
	}
	if kind == entities.KindPrivate && extras.IsBot {
		kind = entities.KindBot
	}

	record := &entities.ProfileRecord{
		ID:          c.ID,
		Handle:      c.Username,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Bio:         c.Bio,
		Description: c.Description,
		Kind:        kind,
		IsBot:       kind == entities.KindBot,

		HasPrivateForwards:         c.HasPrivateForwards,
		JoinToSendMessages:         c.JoinToSendMessages,
		JoinByRequest:              c.JoinByRequest,
		HasRestrictedVoiceAndVideo: c.HasRestrictedVoiceAndVideoMessages,
	}

	if kind.IsChat() {
		record.Title = c.Title
		record.MembersCount = extras.MembersCount
		record.InviteLink = c.InviteLink
		if len(c.ActiveUsernames) > 0 {
			record.ActiveUsernames = append([]string(nil), c.ActiveUsernames...)
		}
	}

	return record
}
