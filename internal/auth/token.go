package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
)

// Identity is the claim set decoded from a valid credential.
type Identity struct {
	MemberID string
}

const tokenLifetime = 24 * time.Hour

// SignToken issues an HS256 token carrying the member id as subject.
func SignToken(memberID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": memberID,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// VerifyCredential checks a raw Authorization header value and decodes it
// into an Identity. A missing or placeholder credential is unauthenticated;
// a credential that is present but fails signature or expiry checks is an
// invalid token.
func VerifyCredential(raw string) (Identity, error) {
	// Frontends that lost their session send the literal "Bearer undefined"
	if raw == "" || raw == "Bearer undefined" {
		return Identity{}, apperr.Unauthenticated("access denied")
	}

	tokenStr := raw
	if strings.HasPrefix(tokenStr, "Bearer ") {
		tokenStr = strings.TrimLeft(strings.TrimPrefix(tokenStr, "Bearer "), " \t")
	}
	if tokenStr == "" {
		return Identity{}, apperr.Unauthenticated("access denied")
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.InvalidToken("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperr.InvalidToken("invalid or expired token")
	}
	memberID, ok := claims["sub"].(string)
	if !ok || memberID == "" {
		return Identity{}, apperr.InvalidToken("token carries no member id")
	}

	return Identity{MemberID: memberID}, nil
}
