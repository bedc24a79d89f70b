package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, expiresAt, err := tm.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expiry should be in the future")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.SessionID != "session-1" {
		t.Errorf("session id = %q", claims.SessionID)
	}
}

func TestTokenRejections(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	other := NewTokenManager("other-secret", time.Minute)

	token, _, _ := other.GenerateToken("session-1")
	if _, err := tm.ParseToken(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
	if _, err := tm.ParseToken("not-a-token"); err == nil {
		t.Error("garbage must be rejected")
	}

	expired := NewTokenManager("secret", time.Nanosecond)
	token, _, _ = expired.GenerateToken("session-1")
	time.Sleep(time.Millisecond)
	if _, err := tm.ParseToken(token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestTokenRejectsForeignIssuer(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	claims := &Claims{
		SessionID: "session-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tm.ParseToken(token); err == nil {
		t.Error("token from another issuer must be rejected")
	}
}
