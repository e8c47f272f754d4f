package auth

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=auth

import (
	"context"

	"libraryapi/internal/user"
)

// Users is the part of the account store the identity provider needs.
type Users interface {
	Create(ctx context.Context, u *user.User) error
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
}
