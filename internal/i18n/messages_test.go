package i18n

import (
	"testing"

	"learnhub/internal/apperr"
)

func TestKnownMessagesAreLocalized(t *testing.T) {
	ru := NewTranslator("ru-RU")
	if got := ru.Message("rpc error: Invalid Credentials"); got != "Неверный email или пароль." {
		t.Fatalf("unexpected ru message %q", got)
	}
	en := NewTranslator("en")
	if got := en.Message("invalid credentials"); got != "Invalid email or password." {
		t.Fatalf("unexpected en message %q", got)
	}
}

func TestUnknownMessagePassesThroughRaw(t *testing.T) {
	ru := NewTranslator("ru")
	raw := "Promo code SUMMER24 has been used up"
	if got := ru.Message(raw); got != raw {
		t.Fatalf("expected raw message, got %q", got)
	}
}

func TestUnsupportedLocaleFallsBackToEnglish(t *testing.T) {
	tr := NewTranslator("ja")
	if tr.Locale() != "en" {
		t.Fatalf("expected en fallback, got %s", tr.Locale())
	}
}

func TestForErrorUsesKindWhenMessageIsEmpty(t *testing.T) {
	en := NewTranslator("en")
	err := &apperr.Error{Kind: apperr.KindNetwork}
	if got := en.ForError(err); got != "The platform is unreachable. Please try again." {
		t.Fatalf("unexpected text %q", got)
	}
	if en.ForError(nil) != "" {
		t.Fatalf("nil error should render empty")
	}
}

func TestForErrorLocalizesPlatformMessages(t *testing.T) {
	en := NewTranslator("en")
	expired := apperr.Auth("Invalid or expired token", 401)
	expired.Remote = true
	if got := en.ForError(expired); got != "Your session has expired. Please sign in again." {
		t.Fatalf("unexpected text %q", got)
	}

	promo := apperr.Validation("Promo code SUMMER24 has been used up", nil)
	promo.Remote = true
	if got := en.ForError(promo); got != "Promo code SUMMER24 has been used up" {
		t.Fatalf("unknown platform text should pass through, got %q", got)
	}
}

func TestForErrorNeverShowsAgentInternalText(t *testing.T) {
	ru := NewTranslator("ru")
	cases := map[error]string{
		apperr.ErrNoSession:                              "Войдите, чтобы продолжить.",
		apperr.Network("platform unreachable", nil):      "Платформа недоступна. Попробуйте еще раз.",
		apperr.Shape("login response has no token", nil): "Платформа недоступна. Попробуйте еще раз.",
		apperr.Validation("invalid input", nil):          "Проверьте выделенные поля.",
		apperr.NotFound("course not found"):              "Ничего не найдено.",
	}
	for err, want := range cases {
		if got := ru.ForError(err); got != want {
			t.Fatalf("%v: expected %q, got %q", err, want, got)
		}
	}
}
