package user

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new account. The username and email must both be unused.
func (s *Service) Create(ctx context.Context, u *User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return s.repo.Create(ctx, u)
}

// UsernameTaken reports whether an account already uses username.
func (s *Service) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.taken(s.repo.GetByUsername(ctx, username))
}

// EmailTaken reports whether an account already uses email.
func (s *Service) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.taken(s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email))))
}

func (s *Service) taken(_ User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// ListRegular returns every account that is not a superuser.
func (s *Service) ListRegular(ctx context.Context) ([]User, error) {
	return s.repo.ListRegular(ctx)
}
