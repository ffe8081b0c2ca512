// Package i18n turns backend error messages into user-facing text. Messages
// the agent recognizes are localized; anything else is shown as the server
// sent it.
package i18n

import (
	"errors"
	"strings"

	"learnhub/internal/apperr"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

// known maps a lower-case substring of a backend message to a catalog key.
var known = []struct {
	needle string
	key    string
}{
	{"invalid credentials", "Invalid email or password."},
	{"user already exists", "An account with this email already exists."},
	{"email not verified", "Please confirm your email before signing in."},
	{"invalid or expired token", "Your session has expired. Please sign in again."},
	{"token expired", "Your session has expired. Please sign in again."},
	{"device limit", "You are signed in on too many devices."},
	{"too many requests", "Too many attempts. Please wait and try again."},
	{"course not found", "This course is no longer available."},
	{"reset token", "This password reset link is invalid or has expired."},
}

const (
	keyAuth       = "Please sign in to continue."
	keyNotFound   = "Nothing was found."
	keyNetwork    = "The platform is unreachable. Please try again."
	keyValidation = "Please check the highlighted fields."
	keyUnknown    = "Something went wrong. Please try again."
)

func init() {
	ru := map[string]string{
		"Invalid email or password.":                         "Неверный email или пароль.",
		"An account with this email already exists.":         "Аккаунт с таким email уже существует.",
		"Please confirm your email before signing in.":       "Подтвердите email перед входом.",
		"Your session has expired. Please sign in again.":    "Сессия истекла. Войдите снова.",
		"You are signed in on too many devices.":             "Превышен лимит устройств.",
		"Too many attempts. Please wait and try again.":      "Слишком много попыток. Попробуйте позже.",
		"This course is no longer available.":                "Курс больше недоступен.",
		"This password reset link is invalid or has expired.": "Ссылка для сброса пароля недействительна или устарела.",
		keyAuth:       "Войдите, чтобы продолжить.",
		keyNotFound:   "Ничего не найдено.",
		keyNetwork:    "Платформа недоступна. Попробуйте еще раз.",
		keyValidation: "Проверьте выделенные поля.",
		keyUnknown:    "Что-то пошло не так. Попробуйте еще раз.",
	}
	for key, msg := range ru {
		_ = message.SetString(language.Russian, key, msg)
		_ = message.SetString(language.English, key, key)
	}
	for _, k := range known {
		_ = message.SetString(language.English, k.key, k.key)
	}
}

type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

func NewTranslator(locale string) *Translator {
	_, idx, _ := matcher.Match(language.Make(locale))
	tag := supported[idx]
	return &Translator{tag: tag, printer: message.NewPrinter(tag)}
}

func (t *Translator) Locale() string {
	return t.tag.String()
}

// Message localizes a known backend message and passes anything else
// through untouched.
func (t *Translator) Message(raw string) string {
	lower := strings.ToLower(raw)
	for _, k := range known {
		if strings.Contains(lower, k.needle) {
			return t.printer.Sprintf(k.key)
		}
	}
	return raw
}

// ForError renders err for the user. Text written by the platform goes
// through Message; the agent's own messages are internal and are replaced
// by a localized line for the error's kind.
func (t *Translator) ForError(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Remote {
		if msg := strings.TrimSpace(appErr.Message); msg != "" {
			return t.Message(msg)
		}
	}
	switch apperr.KindOf(err) {
	case apperr.KindAuth:
		return t.printer.Sprintf(keyAuth)
	case apperr.KindNotFound:
		return t.printer.Sprintf(keyNotFound)
	case apperr.KindNetwork, apperr.KindShape:
		return t.printer.Sprintf(keyNetwork)
	case apperr.KindValidation:
		return t.printer.Sprintf(keyValidation)
	default:
		return t.printer.Sprintf(keyUnknown)
	}
}
