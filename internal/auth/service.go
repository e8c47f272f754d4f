package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"libraryapi/internal/identity"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/platform/validation"
	"libraryapi/internal/user"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("user account is disabled")
)

type Service struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      Users
}

func NewService(secret string, accessTTL, refreshTTL time.Duration, users Users) *Service {
	return &Service{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
	}
}

type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// validateRegistration checks field rules, password confirmation and uniqueness. A
// non-nil validation.Errors is returned for input problems.
func (s *Service) validateRegistration(ctx context.Context, in RegisterInput) error {
	errs := validation.Struct(in)
	if errs == nil {
		errs = validation.Errors{}
	}
	if _, bad := errs["password"]; !bad && in.Password != in.Password2 {
		errs.Add("password", "Passwords do not match")
	}

	if in.Username != "" {
		taken, err := s.users.UsernameTaken(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("username", "A user with this username already exists")
		}
	}
	if _, bad := errs["email"]; !bad && in.Email != "" {
		taken, err := s.users.EmailTaken(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("email", "A user with this email already exists")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Register creates an active, non-superuser account and issues its first
// token pair.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, crypto.TokenPair, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validateRegistration(ctx, in); err != nil {
		return user.User{}, crypto.TokenPair{}, err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return user.User{}, crypto.TokenPair{}, err
	}

	u := &user.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, user.ErrAlreadyExists) {
			return user.User{}, crypto.TokenPair{}, validation.Errors{
				"username": {"A user with this username or email already exists"},
			}
		}
		return user.User{}, crypto.TokenPair{}, err
	}

	pair, err := s.issue(*u)
	if err != nil {
		return user.User{}, crypto.TokenPair{}, err
	}
	return *u, pair, nil
}

// Login checks the password and returns a fresh token pair.
func (s *Service) Login(ctx context.Context, username, password string) (crypto.TokenPair, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return crypto.TokenPair{}, ErrInvalidCredentials
		}
		return crypto.TokenPair{}, err
	}
	if !crypto.VerifyPassword(u.Password, password) {
		return crypto.TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return crypto.TokenPair{}, ErrInactive
	}
	return s.issue(u)
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	u, err := s.userFromToken(ctx, refreshToken, crypto.TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	access, _, err := crypto.GenerateToken(s.secret, strconv.FormatInt(u.ID, 10), u.IsSuperuser, crypto.TokenTypeAccess, s.accessTTL)
	return access, err
}

// Authenticate resolves an access token to the caller. The account is
// reloaded so deactivation and superuser changes apply immediately.
func (s *Service) Authenticate(ctx context.Context, token string) (identity.Principal, error) {
	u, err := s.userFromToken(ctx, token, crypto.TokenTypeAccess)
	if err != nil {
		return identity.Principal{}, err
	}
	return identity.Principal{
		UserID:      u.ID,
		Username:    u.Username,
		IsSuperuser: u.IsSuperuser,
	}, nil
}

func (s *Service) userFromToken(ctx context.Context, token, tokenType string) (user.User, error) {
	claims, err := crypto.ParseTyped(s.secret, token, tokenType)
	if err != nil {
		return user.User{}, ErrUnauthorized
	}
	id, err := strconv.ParseInt(claims.Sub, 10, 64)
	if err != nil {
		return user.User{}, ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUnauthorized
		}
		return user.User{}, err
	}
	if !u.IsActive {
		return user.User{}, ErrUnauthorized
	}
	return u, nil
}

func (s *Service) issue(u user.User) (crypto.TokenPair, error) {
	return crypto.GeneratePair(s.secret, strconv.FormatInt(u.ID, 10), u.IsSuperuser, s.accessTTL, s.refreshTTL)
}
