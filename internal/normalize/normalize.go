// Package normalize turns raw route form input into a canonical RouteRecord.
// It is pure: no I/O, no store handles, fully deterministic.
package normalize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"trailpost/internal/models"
)

// Scope is the visibility a route is shared with.
type Scope string

const (
	ScopePublic  Scope = "public"
	ScopePrivate Scope = "private"
)

// Input is the raw form submission, untrimmed and in whatever case the user
// typed it.
type Input struct {
	Title       string
	City        string
	Difficulty  string
	Slope       string
	Description string
	Scope       string
}

// ValidationError reports a rejected form field. No store call may be issued
// once one of these is returned.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field == "scope" {
		return "please select public or private access"
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// Route validates and canonicalizes a form submission. Title, city,
// difficulty and slope are capitalized per word; the description is kept
// verbatim. The ordering indices are derived from the canonical category
// values, never taken from input.
func Route(in Input) (models.RouteRecord, Scope, error) {
	title := Capitalize(in.Title)
	city := Capitalize(in.City)
	difficulty := Capitalize(in.Difficulty)
	slope := Capitalize(in.Slope)
	description := strings.TrimSpace(in.Description)

	for _, f := range []struct{ name, value string }{
		{"title", title},
		{"city", city},
		{"difficulty", difficulty},
		{"slope", slope},
		{"description", description},
	} {
		if f.value == "" {
			return models.RouteRecord{}, "", &ValidationError{Field: f.name}
		}
	}

	scope, err := ParseScope(in.Scope)
	if err != nil {
		return models.RouteRecord{}, "", err
	}

	rec := models.RouteRecord{
		Title:       title,
		City:        city,
		Description: description,
		AvgRating:   0.0,
	}
	rec.SetDifficulty(difficulty)
	rec.SetSlope(slope)
	return rec, scope, nil
}

// ParseScope accepts "public" or "private", case-insensitively.
func ParseScope(raw string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ScopePublic):
		return ScopePublic, nil
	case string(ScopePrivate):
		return ScopePrivate, nil
	default:
		return "", &ValidationError{Field: "scope"}
	}
}

// Capitalize upper-cases the first letter of every space-separated word and
// lower-cases the remainder, trimming surrounding whitespace. Runs of spaces
// collapse to one, matching how every stored route title was written.
func Capitalize(text string) string {
	words := strings.Split(strings.TrimSpace(text), " ")
	out := words[:0]
	for _, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		out = append(out, string(unicode.ToUpper(r))+strings.ToLower(w[size:]))
	}
	return strings.Join(out, " ")
}
