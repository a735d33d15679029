package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок, которые видит клиент. Проверяются через errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateResource = errors.New("duplicate resource")
	ErrBusinessRule      = errors.New("business rule violation")
	ErrInvalidArgument   = errors.New("invalid argument")

	// ErrStillReferenced — удаление запрещено внешним ключом (у пользователя остались записи).
	ErrStillReferenced = errors.New("resource is still referenced")
)

// Коды правил валидационного слоя.
const (
	RuleTooManyTasks   = "too_many_tasks"
	RuleAlreadyExists  = "already_exists"
	RuleFutureDate     = "future_date"
	RuleDateTooOld     = "date_too_old"
	RuleMissingField   = "missing_field"
	RuleBadParameter   = "bad_parameter"
	RuleInvalidRange   = "invalid_range"
	RuleRangeTooOld    = "range_too_old"
	RuleRangeTooWide   = "range_too_wide"
	RuleRecentActivity = "recent_activity"
	RuleOwnedRecords   = "owned_records"
)

// Error — типизированная ошибка домена: вид (один из Err*), код правила и сообщение для клиента.
type Error struct {
	Kind    error
	Rule    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// RuleViolation создаёт ошибку нарушения бизнес-правила.
func RuleViolation(rule, format string, args ...any) *Error {
	return &Error{Kind: ErrBusinessRule, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument создаёт ошибку некорректного входного параметра.
func InvalidArgument(rule, format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidArgument, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// NotFound создаёт ошибку «не найдено» с указанием ресурса и ключа поиска.
func NotFound(resource, field string, value any) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("%s not found with %s: '%v'", resource, field, value),
	}
}

// Duplicate создаёт ошибку конфликта уникальности.
func Duplicate(resource, field string, value any, cause error) *Error {
	return &Error{
		Kind:    ErrDuplicateResource,
		Message: fmt.Sprintf("%s already exists with %s: '%v'", resource, field, value),
		Err:     cause,
	}
}

// RuleOf возвращает код правила, если err — *Error.
func RuleOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Rule
	}
	return ""
}

// MessageOf возвращает клиентское сообщение ошибки домена или пустую строку.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
