package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"webquote/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type jwtService interface {
	GenerateToken(userID int64, username, role string) (string, error)
}

// UserRepository is the slice of user storage the login flow needs.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

type Service struct {
	users UserRepository
	jwt   jwtService
}

func NewService(users UserRepository, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Login verifies the password and issues an access token carrying the
// identity the rest of the system trusts.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, AccessToken: token}, nil
}

// Me returns the account behind an identity.
func (s *Service) Me(ctx context.Context, ident domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, ident.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
