// Package bind decodes and validates JSON request bodies into the typed
// inputs handlers take
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"

	perr "adwarden/internal/platform/errors"
	"adwarden/internal/platform/logger"
)

// MaxBody caps how much of a request body ParseJSON reads
const MaxBody = 1 << 20

type validation struct {
	v     *validator.Validate
	trans ut.Translator
}

// messages replace the stock english texts that read poorly in an envelope
var messages = map[string]string{
	"min":     "{0} must be at least {1}",
	"max":     "{0} must be at most {1}",
	"chat_id": "{0} must be a single id of at most 64 characters",
}

var validate = sync.OnceValue(func() *validation {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = entrans.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterValidation("chat_id", chatID)

	for tag, text := range messages {
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field(), fe.Param())
				return msg
			},
		)
	}
	return &validation{v: v, trans: trans}
})

// chatID accepts one platform user or group id: non empty, no whitespace,
// at most 64 runes
func chatID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && utf8.RuneCountInString(s) <= 64 && !strings.ContainsFunc(s, unicode.IsSpace)
}

// ParseJSON decodes r's body into a T and validates it. Unknown fields and
// trailing data are rejected. A GET or DELETE without a body yields the zero
// T; other methods need one
func ParseJSON[T any](r *http.Request) (T, error) {
	var dst T
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	switch err := dec.Decode(&dst); {
	case errors.Is(err, io.EOF):
		if r.Method == http.MethodGet || r.Method == http.MethodDelete {
			return dst, nil
		}
		return dst, perr.JSONErrf("empty body")
	case err != nil:
		return dst, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return dst, perr.JSONErrf("unexpected trailing data")
	}
	return dst, Validate(dst)
}

// Validate runs the struct tags of v. The first failure becomes a
// validation error naming its json field
func Validate(v any) error {
	err := validate().v.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		logger.Get().Error().Err(err).Msg("validator misuse")
		return perr.Wrap(err, perr.ErrorCodeJSON, "validation error")
	}
	fe := fields[0]
	return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(validate().trans)), fe.Field())
}
