package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, exp, err := IssueSessionToken("secret", "S_ABCDEF123456", time.Hour)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Errorf("expiry %v is too early", exp)
	}

	id, err := ParseSessionToken("secret", token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if id != "S_ABCDEF123456" {
		t.Errorf("session id = %q", id)
	}
}

func TestSessionTokenRejected(t *testing.T) {
	good, _, _ := IssueSessionToken("secret", "S_1", time.Hour)
	expired, _, _ := IssueSessionToken("secret", "S_1", -time.Minute)
	noSession, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", good},
		{"expired", "secret", expired},
		{"missing session", "secret", noSession},
		{"garbage", "secret", "not.a.token"},
		{"empty", "secret", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSessionToken(tt.secret, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
