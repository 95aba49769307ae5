package auth

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now()
	sess := models.Session{ID: "4", Name: "Alisson", Role: "barbeiro", LoginTime: now, ExpiresAt: now.Add(time.Hour)}

	raw, err := IssueToken("secret", sess)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseToken("secret", raw)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "4" || claims.Role != "barbeiro" || claims.Name != "Alisson" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := ParseToken("other", raw); err == nil {
		t.Fatal("wrong secret must fail")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	now := time.Now()
	sess := models.Session{ID: "4", LoginTime: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}

	raw, err := IssueToken("secret", sess)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("secret", raw); err == nil {
		t.Fatal("expired token must fail")
	}
}
