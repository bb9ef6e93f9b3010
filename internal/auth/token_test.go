package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestNewPasetoService_KeyLength(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		wantErr bool
	}{
		{name: "valid 32-byte key", key: testKey, wantErr: false},
		{name: "short key", key: []byte("too-short"), wantErr: true},
		{name: "empty key", key: nil, wantErr: true},
		{name: "33-byte key", key: append([]byte{}, append(testKey, 'x')...), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPasetoService(tt.key, time.Hour)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPasetoService_RoundTrip(t *testing.T) {
	svc, err := NewPasetoService(testKey, time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.CreateToken(userID, "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestPasetoService_ExpiredToken(t *testing.T) {
	svc, err := NewPasetoService(testKey, -time.Minute)
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "jane@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoService_TamperedToken(t *testing.T) {
	svc, err := NewPasetoService(testKey, time.Hour)
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "jane@example.com")
	require.NoError(t, err)

	// Flip a byte in the middle of the token body.
	raw := []byte(token)
	mid := len(raw) / 2
	if raw[mid] == 'A' {
		raw[mid] = 'B'
	} else {
		raw[mid] = 'A'
	}

	_, err = svc.VerifyToken(string(raw))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoService_WrongKey(t *testing.T) {
	svc, err := NewPasetoService(testKey, time.Hour)
	require.NoError(t, err)

	other, err := NewPasetoService([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "jane@example.com")
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoService_MalformedToken(t *testing.T) {
	svc, err := NewPasetoService(testKey, time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", "v4.local.not-a-token"} {
		_, err := svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
