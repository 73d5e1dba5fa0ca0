package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prepmate/auth-service/internal/domain"
	"github.com/prepmate/auth-service/internal/password"
	"github.com/prepmate/auth-service/internal/repository"
	"github.com/prepmate/auth-service/internal/token"
	"go.uber.org/zap"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrTermsNotAccepted   = errors.New("terms of use and privacy policy not accepted")
	ErrInvalidCredentials = errors.New("incorrect email/username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrMailDelivery       = errors.New("verification email could not be delivered")
)

// VerificationMailer dispatches a verification token to a user's email
// address. IsConfigured reports whether delivery is possible at all.
type VerificationMailer interface {
	SendVerification(ctx context.Context, email, tok string) error
	IsConfigured() bool
}

type AuthService struct {
	userRepo        repository.UserRepository
	codec           *token.Codec
	mailer          VerificationMailer
	tokenTTL        time.Duration
	requireVerified bool
	logger          *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, codec *token.Codec, mailer VerificationMailer, tokenTTL time.Duration, requireVerified bool, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		codec:           codec,
		mailer:          mailer,
		tokenTTL:        tokenTTL,
		requireVerified: requireVerified,
		logger:          logger,
	}
}

type RegisterInput struct {
	Email             string  `json:"email"`
	Username          string  `json:"username"`
	Password          string  `json:"password"`
	HowToUse          *string `json:"how_to_use,omitempty"`
	AboutRegistration *string `json:"about_registration,omitempty"`
	AgreedToTerms     bool    `json:"agreed_to_terms"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new account. The returned user never carries the
// password hash on the wire. A verification email is attempted when the
// mailer is configured; a delivery failure does not undo the already
// committed registration.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	existing, err = s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("looking up username: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	if !input.AgreedToTerms {
		return nil, ErrTermsNotAccepted
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:                uuid.New(),
		Email:             email,
		Username:          input.Username,
		HashedPassword:    hash,
		HowToUse:          input.HowToUse,
		AboutRegistration: input.AboutRegistration,
		AgreedToTerms:     input.AgreedToTerms,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// The existence checks above race with concurrent registrations;
	// the unique indexes settle it.
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if s.mailer != nil && s.mailer.IsConfigured() {
		tok, err := s.codec.Issue(user.Email, s.tokenTTL)
		if err == nil {
			err = s.mailer.SendVerification(ctx, user.Email, tok)
		}
		if err != nil {
			s.logger.Warn("verification email not sent after registration",
				zap.String("email", user.Email), zap.Error(err))
		}
	}

	return user, nil
}

// Login authenticates by identifier (email or username) and password and
// returns a bearer token. Unknown identifier and wrong password collapse
// into the single ErrInvalidCredentials so callers cannot enumerate
// accounts.
func (s *AuthService) Login(ctx context.Context, identifier, plaintext string) (*TokenResponse, error) {
	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if user == nil || !password.Verify(plaintext, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	if s.requireVerified && !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	tok, err := s.codec.Issue(user.Email, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &TokenResponse{AccessToken: tok, TokenType: "bearer"}, nil
}

// LoginWithForm is the OAuth2 password-grant shaped entry point. The form
// username field carries an email or a username; semantics are identical
// to Login.
func (s *AuthService) LoginWithForm(ctx context.Context, username, plaintext string) (*TokenResponse, error) {
	return s.Login(ctx, username, plaintext)
}

// RequestVerificationEmail issues a fresh verification token and mails it
// to the given address.
func (s *AuthService) RequestVerificationEmail(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("looking up email: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	tok, err := s.codec.Issue(user.Email, s.tokenTTL)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, user.Email, tok); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	return nil
}

// ResolveIdentity decodes a bearer token and returns the user it names.
// A validly signed, unexpired token whose subject no longer exists is
// rejected with ErrUserNotFound rather than trusted.
func (s *AuthService) ResolveIdentity(ctx context.Context, tok string) (*domain.User, error) {
	claims, err := s.codec.Decode(tok)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
