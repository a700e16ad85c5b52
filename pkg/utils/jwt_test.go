package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFileToken_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, time.Hour)
	attachmentID := uuid.New()
	orgID := uuid.New()

	token, err := m.GenerateFileToken(attachmentID, orgID, 15*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := m.ValidateFileToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.AttachmentID != attachmentID {
		t.Errorf("attachment id = %s, want %s", claims.AttachmentID, attachmentID)
	}
	if claims.OrganizationID != orgID {
		t.Errorf("organization id = %s, want %s", claims.OrganizationID, orgID)
	}
}

func TestFileToken_ExpiredIsRejected(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, time.Hour)

	token, err := m.GenerateFileToken(uuid.New(), uuid.New(), -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.ValidateFileToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestFileToken_WrongSecretIsRejected(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, time.Hour)
	other := NewJWTManager("other-secret", time.Hour, time.Hour)

	token, err := m.GenerateFileToken(uuid.New(), uuid.New(), 15*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := other.ValidateFileToken(token); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestFileToken_AccessTokenIsNotAFileToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, time.Hour)

	access, err := m.GenerateAccessToken(uuid.New(), "mechanic@shop.test", []string{"staff"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// An access token parses as FileClaims with a nil attachment id; the
	// download handler must treat that as invalid.
	claims, err := m.ValidateFileToken(access)
	if err == nil && claims.AttachmentID != uuid.Nil {
		t.Fatal("access token must not grant file access")
	}
}
