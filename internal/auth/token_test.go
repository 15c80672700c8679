package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
)

func signWith(t *testing.T, secret, memberID string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": memberID,
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestVerifyCredential(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tests := []struct {
		name       string
		credential string
		wantKind   apperr.Kind
		wantMember string
	}{
		{
			name:       "Missing credential",
			credential: "",
			wantKind:   apperr.KindUnauthenticated,
		},
		{
			name:       "Placeholder credential",
			credential: "Bearer undefined",
			wantKind:   apperr.KindUnauthenticated,
		},
		{
			name:       "Empty after scheme strip",
			credential: "Bearer ",
			wantKind:   apperr.KindUnauthenticated,
		},
		{
			name:       "Malformed token",
			credential: "Bearer not.a.token",
			wantKind:   apperr.KindInvalidToken,
		},
		{
			name:       "Expired token",
			credential: "Bearer " + signWith(t, "test-secret", "member-1", time.Now().Add(-time.Hour)),
			wantKind:   apperr.KindInvalidToken,
		},
		{
			name:       "Wrong secret",
			credential: "Bearer " + signWith(t, "other-secret", "member-1", time.Now().Add(time.Hour)),
			wantKind:   apperr.KindInvalidToken,
		},
		{
			name:       "Valid token",
			credential: "Bearer " + signWith(t, "test-secret", "member-1", time.Now().Add(time.Hour)),
			wantMember: "member-1",
		},
		{
			name:       "Valid token without scheme prefix",
			credential: signWith(t, "test-secret", "member-2", time.Now().Add(time.Hour)),
			wantMember: "member-2",
		},
		{
			name:       "Extra whitespace after scheme",
			credential: "Bearer   " + signWith(t, "test-secret", "member-3", time.Now().Add(time.Hour)),
			wantMember: "member-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := VerifyCredential(tt.credential)
			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantMember, identity.MemberID)
			}
		})
	}
}

func TestSignTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignToken("member-42")
	assert.NoError(t, err)

	identity, err := VerifyCredential("Bearer " + token)
	assert.NoError(t, err)
	assert.Equal(t, "member-42", identity.MemberID)
}
