// Package profile reads and edits the delivery details kept per user.
package profile

import (
	"context"
	"errors"
	"strings"

	"pizzapalace/internal/domain"
	"pizzapalace/internal/logger"

	"go.uber.org/zap"
)

type profileRepo interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, p domain.Profile) (*domain.Profile, error)
}

// Input holds the editable profile fields.
type Input struct {
	FullName string `json:"fullName" binding:"max=200"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	Address  string `json:"address" binding:"max=500"`
}

type Service struct {
	repo   profileRepo
	logger *zap.Logger
}

func New(repo profileRepo, log *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.OrNop(log).Named("profile")}
}

// Get returns the user's profile. A missing row yields a default one.
func (s *Service) Get(ctx context.Context, u domain.User) (*domain.Profile, error) {
	p, err := s.repo.Get(ctx, u.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Profile{ID: u.ID, Email: u.Email, FullName: u.FullName}, nil
	}
	if err != nil {
		s.logger.Warn("load profile failed", zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// Update overwrites the editable fields.
func (s *Service) Update(ctx context.Context, u domain.User, in Input) (*domain.Profile, error) {
	p, err := s.repo.Upsert(ctx, domain.Profile{
		ID:       u.ID,
		Email:    u.Email,
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
	})
	if err != nil {
		s.logger.Error("update profile failed", zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}
	return p, nil
}
