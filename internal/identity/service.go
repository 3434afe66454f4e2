package identity

import (
	"context"
	"fmt"
	"strings"

	"quickshow/internal/users"

	"github.com/go-playground/validator/v10"
)

// Service applies identity lifecycle events to the local user mirror.
type Service interface {
	HandleEvent(ctx context.Context, event Event) error
}

type service struct {
	repo     users.Repository
	validate *validator.Validate
}

func NewService(repo users.Repository) Service {
	return &service{
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *service) HandleEvent(ctx context.Context, event Event) error {
	switch event.Type {
	case EventUserCreated, EventUserUpdated:
		// Create and update share the same upsert: re-delivery of either
		// converges on the provider's latest state.
		if err := s.validate.Struct(event); err != nil {
			return fmt.Errorf("invalid %s payload: %w", event.Type, err)
		}
		user := &users.User{
			ID:    event.Data.ID,
			Name:  strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName),
			Email: event.Data.PrimaryEmail(),
			Image: event.Data.ImageURL,
		}
		if err := s.repo.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to sync user %s: %w", event.Data.ID, err)
		}
		return nil

	case EventUserDeleted:
		if event.Data.ID == "" {
			return fmt.Errorf("invalid %s payload: missing user id", event.Type)
		}
		if err := s.repo.Delete(ctx, event.Data.ID); err != nil {
			return fmt.Errorf("failed to delete user %s: %w", event.Data.ID, err)
		}
		return nil

	default:
		// Unknown lifecycle kinds are acknowledged and skipped so the
		// provider does not retry them forever.
		return nil
	}
}
