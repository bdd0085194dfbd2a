package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Правила, на которые ссылаются нарушения. Хэндлеры и отчёты импорта
// отдают их клиенту как есть.
const (
	RuleRequired      = "required"
	RuleEnum          = "enum"
	RuleLength        = "length"
	RuleNonNegative   = "non_negative"
	RuleEmailFormat   = "email_format"
	RuleDateOrder     = "date_order"
	RuleDistinctTeams = "distinct_teams"
	RuleWinnerInMatch = "winner_in_match"
	RuleScoreRange    = "score_range"
)

type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors накапливает все нарушения, а не только первое.
type Errors struct {
	Violations []Violation `json:"violations"`
}

func (e *Errors) Add(field, rule, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{
		Field:   field,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}

func (e *Errors) Any() bool {
	return len(e.Violations) > 0
}

func (e *Errors) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Map возвращает нарушения в виде field -> message (для JSON-ответов).
// При нескольких нарушениях одного поля сообщения склеиваются.
func (e *Errors) Map() map[string]string {
	m := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		if prev, ok := m[v.Field]; ok {
			m[v.Field] = prev + "; " + v.Message
			continue
		}
		m[v.Field] = v.Message
	}
	return m
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func checkRequired(e *Errors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, RuleRequired, "%s is required", field)
		return false
	}
	return true
}

func checkLength(e *Errors, field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		e.Add(field, RuleLength, "%s must be between %d and %d characters", field, min, max)
	}
}

func checkMaxLength(e *Errors, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		e.Add(field, RuleLength, "%s must be at most %d characters", field, max)
	}
}

func checkEmail(e *Errors, field, value string) {
	if !emailRegex.MatchString(value) {
		e.Add(field, RuleEmailFormat, "%s is not a well-formed email address", field)
	}
}
