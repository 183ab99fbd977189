// Package validation checks request payloads with struct tags and reports
// failures as Turkish messages keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/tr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	tr_translations "github.com/go-playground/validator/v10/translations/tr"
)

// ErrInvalid is matched by every *Error
var ErrInvalid = errors.New("invalid input")

var (
	validate *validator.Validate
	trans    ut.Translator
)

var fieldNames = map[string]string{
	"username":   "Kullanıcı adı",
	"password":   "Şifre",
	"word":       "Kelime",
	"avatar_url": "Avatar adresi",
	"option":     "Seçenek",
	"step":       "Adım",
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	turkish := tr.New()
	uni := ut.New(turkish, turkish)
	var found bool
	trans, found = uni.GetTranslator("tr")
	if !found {
		panic("validation: turkish translator not found")
	}
	if err := tr_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("validation: failed to register translations: %v", err))
	}

	register("required", "{0} alanı zorunludur.", false)
	register("max", "{0} en fazla {1} karakter olabilir.", true)
	register("url", "{0} geçerli bir adres olmalıdır.", false)
	register("oneof", "{0} şunlardan biri olmalıdır: {1}.", true)
}

// register overrides the message for tag, substituting the translated
// field name and, when withParam is set, the tag parameter
func register(tag, msg string, withParam bool) {
	err := validate.RegisterTranslation(tag, trans, func(u ut.Translator) error {
		return u.Add(tag, msg, true)
	}, func(u ut.Translator, fe validator.FieldError) string {
		params := []string{FieldName(fe.Field())}
		if withParam {
			params = append(params, fe.Param())
		}
		t, err := u.T(tag, params...)
		if err != nil {
			return fe.Error()
		}
		return t
	})
	if err != nil {
		panic(fmt.Sprintf("validation: failed to register %s: %v", tag, err))
	}
}

// FieldName returns the display name for a JSON field
func FieldName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}

// Error lists the failed fields with their messages
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return strings.Join(msgs, " ")
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Struct validates v. It returns nil or an *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = fe.Translate(trans)
	}
	return out
}
