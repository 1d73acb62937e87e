package catalog

import "strings"

// Seniority is the experience tier a specialty rate is charged at
type Seniority string

const (
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
)

// AllSeniorities lists the tiers from cheapest to most expensive
func AllSeniorities() []Seniority {
	return []Seniority{SeniorityJunior, SeniorityMid, SenioritySenior}
}

// IsValid reports whether s is a known tier
func (s Seniority) IsValid() bool {
	switch s {
	case SeniorityJunior, SeniorityMid, SenioritySenior:
		return true
	}
	return false
}

// ParseSeniority normalizes a tier name. Empty input defaults to mid.
func ParseSeniority(s string) (Seniority, bool) {
	v := Seniority(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return SeniorityMid, true
	}
	if v == "pleno" {
		v = SeniorityMid
	}
	return v, v.IsValid()
}
