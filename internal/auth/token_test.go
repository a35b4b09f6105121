package auth

import (
	"testing"
	"time"

	"github.com/example/go-store-orders/internal/authz"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	tok, err := svc.Issue("user-1", authz.RoleSeller)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, role, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("subject = %q, want user-1", userID)
	}
	if role != authz.RoleSeller {
		t.Fatalf("role = %q, want %q", role, authz.RoleSeller)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	tok, err := NewTokenService("secret-a", time.Hour).Issue("user-1", authz.RoleSeller)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := NewTokenService("secret-b", time.Hour).Validate(tok); err == nil {
		t.Fatal("expected validation failure for wrong secret")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)
	tok, err := svc.Issue("user-1", authz.RoleStoreAdministrator)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := svc.Validate(tok); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, _, err := svc.Validate("not-a-token"); err == nil {
		t.Fatal("expected validation failure for malformed token")
	}
}
