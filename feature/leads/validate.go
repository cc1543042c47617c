package leads

import (
	"regexp"
	"strings"
)

// AllowedSources is the fixed set of values accepted for the Source field.
// Matching is exact and case-sensitive.
var AllowedSources = []string{
	"Website",
	"LinkedIn",
	"Referral",
	"Webinar",
	"Trade Show",
	"Cold Call",
}

// emailPattern is a design-level substitute for a full RFC validator: no
// whitespace anywhere, exactly one @, and a dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationResult carries the outcome of validating a single lead.
// Violations are collected in rule order, never fail-fast.
type ValidationResult struct {
	Valid      bool
	Violations []string
}

// Validate checks every field-level rule and returns all violations.
func Validate(l Lead) ValidationResult {
	var violations []string

	if strings.TrimSpace(l.Name) == "" {
		violations = append(violations, "name must not be empty")
	}
	if !emailPattern.MatchString(l.Email) {
		violations = append(violations, "email is not a valid address")
	}
	if NormalizeCompany(l.Company) == "" {
		violations = append(violations, "company must not be empty")
	}
	if l.Source == "" {
		violations = append(violations, "source must not be empty")
	} else if !isAllowedSource(l.Source) {
		violations = append(violations, "source must be one of: "+strings.Join(AllowedSources, ", "))
	}

	return ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

func isAllowedSource(s string) bool {
	for _, allowed := range AllowedSources {
		if s == allowed {
			return true
		}
	}
	return false
}
