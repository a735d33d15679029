package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,50}$`)

var reservedUsernames = map[string]struct{}{
	"admin": {}, "administrator": {}, "root": {}, "system": {}, "user": {}, "guest": {},
	"anonymous": {}, "api": {}, "www": {}, "mail": {}, "email": {}, "support": {}, "help": {},
	"info": {}, "contact": {}, "service": {}, "test": {}, "demo": {}, "sample": {},
	"example": {}, "null": {}, "undefined": {}, "by-id": {},
}

// UsernameProblem возвращает причину, по которой имя пользователя недопустимо, или "".
func UsernameProblem(username string) string {
	if strings.TrimSpace(username) == "" {
		return "Username is required"
	}
	if !usernamePattern.MatchString(username) {
		return "Username must be 3-50 characters long and contain only letters, digits, dots, underscores and hyphens"
	}
	for _, sep := range []struct{ char, name string }{{".", "a dot"}, {"-", "a hyphen"}, {"_", "an underscore"}} {
		if strings.HasPrefix(username, sep.char) || strings.HasSuffix(username, sep.char) {
			return "Username cannot start or end with " + sep.name
		}
	}
	if strings.Contains(username, "..") || strings.Contains(username, "--") || strings.Contains(username, "__") {
		return "Username cannot contain consecutive special characters"
	}
	if _, ok := reservedUsernames[strings.ToLower(username)]; ok {
		return "This username is reserved and cannot be used"
	}
	return ""
}

// FieldErrors — ошибки проверки полей запроса: поле (имя из json-тега) → сообщение.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator проверяет DTO по тегам `validate`.
type Validator struct {
	v *validator.Validate
}

// NewValidator регистрирует пользовательские теги username и notblank.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// ошибки регистрации возможны только при пустом имени тега
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return UsernameProblem(fl.Field().String()) == ""
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &Validator{v: v}
}

// Struct проверяет s и возвращает FieldErrors, если какие-то поля недопустимы.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("ошибка проверки запроса: %w", err)
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

// Var проверяет одно значение, например имя пользователя из пути запроса.
func (val *Validator) Var(field string, value any, tag string) error {
	err := val.v.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return FieldErrors{field: messageFor(field, verrs[0])}
	}
	return fmt.Errorf("ошибка проверки поля %s: %w", field, err)
}

func message(fe validator.FieldError) string {
	return messageFor(fe.Field(), fe)
}

func messageFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "username":
		value, _ := fe.Value().(string)
		return UsernameProblem(value)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
