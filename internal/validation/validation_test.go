package validation

import (
	"errors"
	"testing"

	"learnhub/internal/apperr"
	"learnhub/internal/domain"
)

func TestCredentialsValidation(t *testing.T) {
	if err := Struct(domain.Credentials{Email: "ana@example.com", Password: "x"}); err != nil {
		t.Fatalf("expected valid credentials, got %v", err)
	}

	err := Struct(domain.Credentials{Email: "not-an-email"})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ae.Fields["email"] != "email" {
		t.Fatalf("expected email tag failure, got %v", ae.Fields)
	}
	if ae.Fields["password"] != "required" {
		t.Fatalf("expected password required, got %v", ae.Fields)
	}
}

func TestRegistrationPasswordLength(t *testing.T) {
	err := Struct(domain.Registration{Email: "a@b.co", Username: "ana", Password: "123"})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Fields["password"] != "min" {
		t.Fatalf("expected min failure on password, got %v", err)
	}
}

func TestID(t *testing.T) {
	if ID("courseId", "c1") != nil {
		t.Fatalf("expected non-empty id to pass")
	}
	if apperr.KindOf(ID("courseId", "  ")) != apperr.KindValidation {
		t.Fatalf("expected blank id to fail")
	}
}
