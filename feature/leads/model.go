package leads

import "strings"

// Lead represents a single prospective-contact record from an input batch.
// A Lead is constructed once from an input row and never mutated in place.
type Lead struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Source  string `json:"source"`
}

// DedupeKey returns the lead's identity within a batch: the
// lowercase-normalized email address.
func (l Lead) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(l.Email))
}

// Normalized returns a copy of the lead with every field in its canonical
// comparison form: name trimmed, email lowercased, company whitespace
// collapsed. Source is compared verbatim.
func (l Lead) Normalized() Lead {
	return Lead{
		Name:    strings.TrimSpace(l.Name),
		Email:   l.DedupeKey(),
		Company: NormalizeCompany(l.Company),
		Source:  l.Source,
	}
}

// Equals reports whether two leads match on all four normalized fields.
func (l Lead) Equals(other Lead) bool {
	return l.Normalized() == other.Normalized()
}

// NormalizeCompany trims the company name and collapses internal whitespace
// runs to single spaces. It is computed regardless of validity and is the
// value used for all downstream comparison.
func NormalizeCompany(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
