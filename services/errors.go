package services

import (
	"errors"
	"fmt"

	"github.com/esportdb/esport-manager/validation"
)

// Ошибки, которые ядро возвращает вызывающему. Все они восстановимые:
// хранилище после любой из них остаётся неизменным.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError перечисляет все нарушенные правила, не только первое.
type ValidationError struct {
	Entity     string                 `json:"entity"`
	Violations []validation.Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	errs := validation.Errors{Violations: e.Violations}
	return fmt.Sprintf("%s %s", e.Entity, errs.Error())
}

func newValidationError(entity string, errs *validation.Errors) *ValidationError {
	return &ValidationError{Entity: entity, Violations: errs.Violations}
}

// ConflictError — коллизия уникального ограничения.
type ConflictError struct {
	Entity string `json:"entity"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// ReferentialIntegrityError — удаление заблокировано политикой RESTRICT
// либо запись ссылается на несуществующий id.
type ReferentialIntegrityError struct {
	Entity string `json:"entity"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

func danglingReference(entity, field string, id int) *ReferentialIntegrityError {
	return &ReferentialIntegrityError{
		Entity: entity,
		Field:  field,
		Reason: fmt.Sprintf("referenced id %d does not exist", id),
	}
}
