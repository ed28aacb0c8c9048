package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
)

func TestCheckImage(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantType string
		wantErr  error
	}{
		{"png", pngHeader, "image/png", nil},
		{"jpeg", jpegHeader, "image/jpeg", nil},
		{"gif", gifHeader, "image/gif", nil},
		{"empty", nil, "", ErrImageEmpty},
		{"too large", append(append([]byte{}, pngHeader...), make([]byte, MaxImageSize)...), "", ErrImageTooLarge},
		{"pdf", []byte("%PDF-1.7\n"), "", ErrImageType},
		{"text", []byte("hello world"), "", ErrImageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckImage(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got)
		})
	}
}

func TestCloudinaryUploader_NotInitialized(t *testing.T) {
	u := NewCloudinaryUploader(nil)

	_, err := u.Upload(context.Background(), pngHeader, EventsFolder)
	assert.Error(t, err)
	assert.Error(t, u.Delete(context.Background(), "DevEvent/abc"))
}

func signHS256(t *testing.T, secret string, claims *OrganizerClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenVerifier_HMAC(t *testing.T) {
	verifier, err := NewTokenVerifier("super-secret", "")
	require.NoError(t, err)
	defer verifier.Close()

	tokenStr := signHS256(t, "super-secret", &OrganizerClaims{
		Role:  RoleOrganizer,
		Email: "organizer@devevent.io",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "org-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "org-1", claims.Subject)
	assert.True(t, claims.CanEditEvents())
	assert.False(t, claims.IsAdmin())
}

func TestTokenVerifier_Rejects(t *testing.T) {
	verifier, err := NewTokenVerifier("super-secret", "")
	require.NoError(t, err)

	wrongKey := signHS256(t, "other-secret", &OrganizerClaims{Role: RoleAdmin})
	_, err = verifier.Verify(wrongKey)
	assert.Error(t, err)

	expired := signHS256(t, "super-secret", &OrganizerClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	_, err = verifier.Verify(expired)
	assert.Error(t, err)

	_, err = verifier.Verify("not.a.token")
	assert.Error(t, err)
}

func TestNewTokenVerifier_RequiresKey(t *testing.T) {
	_, err := NewTokenVerifier("", "")
	assert.Error(t, err)
}

func TestOrganizerClaims_Roles(t *testing.T) {
	assert.True(t, (&OrganizerClaims{Role: RoleAdmin}).CanEditEvents())
	assert.False(t, (&OrganizerClaims{Role: "attendee"}).CanEditEvents())
}
