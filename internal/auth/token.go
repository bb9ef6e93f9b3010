package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: malformed tokens, bad
// signatures, and expired tokens. Callers do not need to tell these apart;
// they all map to the same HTTP outcome.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims are the fields embedded in an issued token.
type TokenClaims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	CreateToken(userID uuid.UUID, email string) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// PasetoService implements TokenService with PASETO v4.local tokens
// (symmetric encryption, XChaCha20-Poly1305). Tokens are stateless: validity
// is re-derived from the key and clock on every verification.
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	ttl          time.Duration
}

func NewPasetoService(symmetricKey []byte, ttl time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{symmetricKey: key, ttl: ttl}, nil
}

// CreateToken issues a token bound to the user's stable identifier. It is a
// pure function of the identity, the key, and the current time.
func (s *PasetoService) CreateToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetSubject(userID.String())
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.ttl))
	token.SetString("email", email)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken checks integrity and expiry and extracts the claims. Every
// failure mode collapses into ErrInvalidToken.
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, err := token.GetString("email")
	if err != nil {
		return nil, ErrInvalidToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		Subject:   subject,
		Email:     email,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
