// Package newsletter records newsletter sign-ups.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bilgisen/finsmart/internal/models"
	"github.com/bilgisen/finsmart/internal/utils"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidEmail is returned for addresses that fail validation
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrNotFound is returned by stores for unknown keys
	ErrNotFound = errors.New("subscription not found")
)

// Subscription is one newsletter sign-up
type Subscription struct {
	Email        string        `json:"email" validate:"required,email,max=254"`
	Region       models.Region `json:"region"`
	SubscribedAt time.Time     `json:"subscribed_at"`
}

// Store persists subscriptions by key
type Store interface {
	Get(ctx context.Context, key string) (Subscription, error)
	Save(ctx context.Context, key string, sub Subscription) error
	List(ctx context.Context) ([]Subscription, error)
	Delete(ctx context.Context, key string) error
}

// Service validates and records sign-ups
type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Subscribe records email. Subscribing twice is a no-op that returns the
// original subscription with created=false.
func (s *Service) Subscribe(ctx context.Context, email string, region models.Region) (Subscription, bool, error) {
	sub := Subscription{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Region:       region,
		SubscribedAt: s.now().UTC(),
	}
	if err := s.validate.Struct(sub); err != nil {
		return Subscription{}, false, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	key := utils.HashKey(sub.Email)
	existing, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return Subscription{}, false, fmt.Errorf("lookup subscription: %w", err)
	}

	if err := s.store.Save(ctx, key, sub); err != nil {
		return Subscription{}, false, fmt.Errorf("save subscription: %w", err)
	}
	return sub, true, nil
}

// Unsubscribe removes email. ErrNotFound is returned when it was never subscribed.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	key := utils.HashKey(email)
	if _, err := s.store.Get(ctx, key); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// List returns every subscription, oldest first
func (s *Service) List(ctx context.Context) ([]Subscription, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubscribedAt.Before(subs[j].SubscribedAt)
	})
	return subs, nil
}
