package events

import (
	"context"
	"fmt"

	"rently/internal/directory"
	"rently/pkg/kafka"
	"rently/pkg/logger"
	"rently/pkg/model"
)

// NewUserRegisteredHandler returns the handler for the user registration
// stream. Each event upserts the local user replica so admission can resolve
// the requester without calling the user service.
func NewUserRegisteredHandler(dir directory.Directory, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.UserRegisteredEvent
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("failed to decode user registered event: %w", err)
		}

		if event.UserID == "" {
			log.Warn("Skipping user registered event without user_id",
				"event_id", msg.GetEventID(),
			)
			return nil
		}

		user := &model.User{
			ID:    event.UserID,
			Name:  event.Name,
			Email: event.Email,
		}
		if err := dir.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", event.UserID, err)
		}

		log.Info("User directory updated from registration event",
			"user_id", event.UserID,
			"event_id", msg.GetEventID(),
		)
		return nil
	}
}
