package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"
	"cloudscale_back_end/internal/utils"
)

const minPasswordLength = 6

type RegisterInput struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=30"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type AuthService struct {
	users    database.UserStore
	notifier Notifier
	now      func() time.Time
}

func NewAuthService(users database.UserStore, notifier Notifier) *AuthService {
	return &AuthService{users: users, notifier: notifier, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	switch {
	case in.Username == "":
		return nil, fmt.Errorf("%w: nom d'utilisateur requis", ErrValidation)
	case !strings.Contains(in.Email, "@"):
		return nil, fmt.Errorf("%w: email invalide", ErrValidation)
	case len(in.Password) < minPasswordLength:
		return nil, fmt.Errorf("%w: mot de passe trop court", ErrValidation)
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: un compte avec cet email existe déjà", ErrConflict)
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash mot de passe: %w", err)
	}

	user := &models.User{
		Username:   in.Username,
		Email:      in.Email,
		Password:   hashed,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Phone:      strings.TrimSpace(in.Phone),
		LastActive: s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email ou nom d'utilisateur déjà utilisé", ErrConflict)
		}
		return nil, err
	}

	if s.notifier != nil {
		registered := *user
		notifyAsync("bienvenue", func(ctx context.Context) error {
			return s.notifier.SendWelcome(ctx, registered)
		})
	}
	return user, nil
}

// Login ne modifie lastActive qu'après vérification du mot de passe
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	ok, err := utils.VerifyPassword(in.Password, user.Password)
	if err != nil && !errors.Is(err, utils.ErrInvalidHash) {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	user.LastActive = s.now()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("mise à jour lastActive: %w", err)
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: utilisateur %d", ErrNotFound, userID)
	}
	return user, err
}
