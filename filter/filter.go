// Package filter provides an expression-based item filter for the
// digest pipeline. Expressions are compiled once and evaluated against
// each fetched item's metadata; items that do not match are dropped
// before assembly.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/c01000100/plex-digest/tautulli"
)

// Filter is a compiled item filter expression.
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile compiles a filter expression.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	// Static helper functions usable in expressions. Substring tests
	// use the built-in contains/startsWith/endsWith operators combined
	// with lower() for case-insensitive matching.
	env := map[string]interface{}{
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"now": time.Now,
	}

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expr
}

// Match evaluates the filter against an item's metadata.
func (f *Filter) Match(item *tautulli.Metadata) (bool, error) {
	durationMinutes, _ := item.DurationMinutes()

	env := map[string]interface{}{
		"Item": item,

		"isMovie": func() bool {
			return item.IsMovie()
		},
		"isEpisode": func() bool {
			return !item.IsMovie()
		},
		"starring": func(name string) bool {
			for _, actor := range item.Actors {
				if strings.Contains(strings.ToLower(actor), strings.ToLower(name)) {
					return true
				}
			}
			return false
		},

		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"now": time.Now,

		// Direct item properties for convenience
		"Title":            item.Title,
		"GrandparentTitle": item.GrandparentTitle,
		"MediaType":        item.MediaType,
		"Studio":           item.Studio,
		"ContentRating":    item.ContentRating,
		"Summary":          item.Summary,
		"ReleaseDate":      item.ReleaseDate,
		"DurationMinutes":  durationMinutes,
		"Actors":           item.Actors,
		"Added":            item.AddedAtTime(),
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter: %w", err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression must evaluate to a boolean, got %T", result)
	}

	return matched, nil
}
