// Package validate — проверка входных DTO поверх go-playground/validator
// с сообщениями на португальском (pt-BR) и именами полей из json-тегов.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	ptBR "github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptBRTranslations "github.com/go-playground/validator/v10/translations/pt_BR"
)

const (
	// TagLocation — "<lugar>, <lugar>": два непустых сегмента через запятую.
	TagLocation = "location"
	// TagTrimmedMin — минимальная длина строки в рунах после strings.TrimSpace.
	TagTrimmedMin = "trimmed_min"
)

var locationRe = regexp.MustCompile(`^[^,]+,\s*[^,]+$`)

// Error — ошибки валидации по полям: json-имя поля -> сообщение.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator — потокобезопасен после New, переиспользуется всеми запросами.
type Validator struct {
	v *validator.Validate
	t ut.Translator
}

// New собирает валидатор с переводами pt-BR и пользовательскими тегами.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	pt := ptBR.New()
	uni := ut.New(pt, pt)

	t, found := uni.GetTranslator("pt_BR")
	if !found {
		return nil, errors.New("validate: pt_BR translator not found")
	}

	if err := ptBRTranslations.RegisterDefaultTranslations(v, t); err != nil {
		return nil, fmt.Errorf("validate: register translations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := registerCustomTags(v, t); err != nil {
		return nil, err
	}

	return &Validator{v: v, t: t}, nil
}

// MustNew — New с panic при ошибке (для тестов и main).
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}

	return v
}

// Struct проверяет структуру по тегам validate.
// Возвращает *Error либо nil.
func (v *Validator) Struct(s any) error {
	return v.wrap("", v.v.Struct(s))
}

// Var проверяет одно значение; field — имя поля в сообщении.
func (v *Validator) Var(field string, value any, tag string) error {
	return v.wrap(field, v.v.Var(value, tag))
}

func (v *Validator) wrap(field string, err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		name := fe.Field()
		msg := strings.TrimSpace(fe.Translate(v.t))

		if name == "" {
			name = field
			msg = field + " " + msg
		}

		out.Fields[name] = msg
	}

	return out
}

func registerCustomTags(v *validator.Validate, t ut.Translator) error {
	if err := v.RegisterValidation(TagLocation, func(fl validator.FieldLevel) bool {
		return locationRe.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("validate: register %s: %w", TagLocation, err)
	}

	if err := v.RegisterValidation(TagTrimmedMin, func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}

		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	}); err != nil {
		return fmt.Errorf("validate: register %s: %w", TagTrimmedMin, err)
	}

	custom := map[string]string{
		TagLocation:   "{0} deve estar no formato \"Cidade, Estado\"",
		TagTrimmedMin: "{0} deve ter pelo menos {1} caracteres",
	}

	for tag, text := range custom {
		tag, text := tag, text

		err := v.RegisterTranslation(tag, t,
			func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, err := ut.T(tag, fe.Field(), fe.Param())
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		)
		if err != nil {
			return fmt.Errorf("validate: register translation %s: %w", tag, err)
		}
	}

	return nil
}
