package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-schoolsite/pkg/model"
)

// Accepted layouts for pastDate, tried in order. Date-only values are read as
// midnight UTC. Month and day may drop their leading zero.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	time.RFC3339,
	"2006-01-02T15:04",
}

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9_'+\-.]*[A-Z0-9_+\-]@([A-Z0-9][A-Z0-9\-]*\.)+[A-Z]{2,}$`)

func compileRequired(ctx RuleContext) (Predicate, error) {
	if ctx.Field.Kind == model.FieldKindFile {
		return func(v FieldValue) bool { return len(v.Files) > 0 }, nil
	}
	return func(v FieldValue) bool { return v.Raw != "" }, nil
}

func compileMinLength(ctx RuleContext) (Predicate, error) {
	n, err := intParam(ctx.Rule, "value")
	if err != nil {
		return nil, err
	}
	return func(v FieldValue) bool { return utf8.RuneCountInString(v.Raw) >= n }, nil
}

func compileMaxLength(ctx RuleContext) (Predicate, error) {
	n, err := intParam(ctx.Rule, "value")
	if err != nil {
		return nil, err
	}
	return func(v FieldValue) bool { return utf8.RuneCountInString(v.Raw) <= n }, nil
}

func compilePattern(ctx RuleContext) (Predicate, error) {
	expr := ctx.Rule.Params["pattern"]
	if expr == "" {
		return nil, fmt.Errorf("validation: pattern rule requires a pattern")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("validation: compile pattern %q: %w", expr, err)
	}
	return func(v FieldValue) bool { return re.MatchString(v.Raw) }, nil
}

func compileEmail(RuleContext) (Predicate, error) {
	return func(v FieldValue) bool { return IsEmail(v.Raw) }, nil
}

func compileDigitCount(ctx RuleContext) (Predicate, error) {
	lo, err := intParam(ctx.Rule, "min")
	if err != nil {
		return nil, err
	}
	hi, err := intParam(ctx.Rule, "max")
	if err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, fmt.Errorf("validation: digitCount max %d is below min %d", hi, lo)
	}
	return func(v FieldValue) bool {
		n := CountDigits(v.Raw)
		return n >= lo && n <= hi
	}, nil
}

func compilePastDate(ctx RuleContext) (Predicate, error) {
	now := ctx.Now
	if now == nil {
		now = time.Now
	}
	return func(v FieldValue) bool {
		t, ok := ParseDate(v.Raw)
		return ok && !t.After(now())
	}, nil
}

func compileOneOf(ctx RuleContext) (Predicate, error) {
	raw := ctx.Rule.Params["values"]
	allowed := make(map[string]struct{})
	for _, value := range strings.Split(raw, ",") {
		if value = strings.TrimSpace(value); value != "" {
			allowed[value] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		for _, value := range ctx.Field.OptionValues() {
			allowed[value] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("validation: oneOf rule requires values or field options")
	}
	return func(v FieldValue) bool {
		_, ok := allowed[v.Raw]
		return ok
	}, nil
}

// IsEmail reports whether value is a syntactically valid email address. The
// local part may not start with a dot or contain consecutive dots, and the
// domain needs a top-level label of two or more letters.
func IsEmail(value string) bool {
	if strings.HasPrefix(value, ".") || strings.Contains(value, "..") {
		return false
	}
	return emailPattern.MatchString(value)
}

// CountDigits returns the number of ASCII digits in value; spaces and
// punctuation are ignored.
func CountDigits(value string) int {
	n := 0
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			n++
		}
	}
	return n
}

// ParseDate parses value using the accepted date layouts.
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func intParam(rule model.ValidationRule, key string) (int, error) {
	raw, ok := rule.Params[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("validation: %s rule requires %q", rule.Kind, key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("validation: %s rule %q must be a non-negative integer, got %q", rule.Kind, key, raw)
	}
	return n, nil
}
