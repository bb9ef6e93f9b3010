package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kawa-mspr/auth-service/internal/logging"
	"github.com/kawa-mspr/auth-service/internal/user"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password. The two cases are deliberately indistinguishable so
	// responses do not reveal which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFieldsRequired     = errors.New("required fields not provided")
	ErrEmailExists        = errors.New("email already exists")
)

// UserStore captures the persistence operations the auth workflow needs.
type UserStore interface {
	Create(ctx context.Context, email, firstName, lastName, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// WelcomeMailer sends the post-registration welcome email. A nil mailer
// disables it.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, toEmail, firstName string) error
}

// RegisterInput holds the registration fields. All four are required.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginResult carries the issued bearer token.
type LoginResult struct {
	Token string `json:"token"`
}

// Service implements the authentication workflow: credential verification,
// token issuance, registration, and token verification. It holds only
// injected collaborators and is safe for concurrent use.
type Service struct {
	store  UserStore
	hasher Hasher
	tokens TokenService
	mailer WelcomeMailer
	logger *logging.Logger
}

func NewService(store UserStore, hasher Hasher, tokens TokenService, mailer WelcomeMailer, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

// Login verifies the credentials and issues a token on success. An unknown
// email and a mismatched password both fail with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, existing.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID, existing.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	s.logger.Info("user logged in successfully", "user_id", existing.ID)
	return &LoginResult{Token: token}, nil
}

// Register validates the input, checks email uniqueness, hashes the password
// and persists the new user. The plaintext password never reaches the store.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	if input.Email == "" || input.Password == "" || input.FirstName == "" || input.LastName == "" {
		return nil, ErrFieldsRequired
	}

	// Fast-path duplicate check for a friendly error. The unique constraint
	// on email closes the race between this check and the insert.
	exists, err := s.store.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.store.Create(ctx, input.Email, input.FirstName, input.LastName, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered successfully", "user_id", newUser.ID)

	if s.mailer != nil {
		// Fire and forget: the registration outcome never depends on email
		// delivery.
		go func() {
			emailCtx := context.Background()
			if err := s.mailer.SendWelcomeEmail(emailCtx, newUser.Email, newUser.FirstName); err != nil {
				s.logger.Warn("failed to send welcome email", "email", newUser.Email, "error", err)
			}
		}()
	}

	return newUser, nil
}

// VerifyToken delegates to the token service.
func (s *Service) VerifyToken(tokenStr string) (*TokenClaims, error) {
	return s.tokens.VerifyToken(tokenStr)
}
