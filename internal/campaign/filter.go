package campaign

import "strings"

// HRScope filters the directory by contact pool.
type HRScope int

const (
	ScopeAll HRScope = iota
	ScopeGlobal
	ScopeUser
)

// VerifiedFilter filters the directory by verification state.
type VerifiedFilter int

const (
	VerifiedAny VerifiedFilter = iota
	VerifiedOnly
	UnverifiedOnly
)

func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterCampaigns returns the campaigns whose name, company or template name
// contains query (case-insensitive). Order is preserved; an empty query
// returns the input unchanged.
func FilterCampaigns(list []Campaign, query string) []Campaign {
	if strings.TrimSpace(query) == "" {
		return list
	}
	out := make([]Campaign, 0, len(list))
	for _, c := range list {
		if matches(query, c.CampaignName, c.Company, c.TemplateName()) {
			out = append(out, c)
		}
	}
	return out
}

// FilterTemplates returns the templates whose name or subject contains query.
func FilterTemplates(list []Template, query string) []Template {
	if strings.TrimSpace(query) == "" {
		return list
	}
	out := make([]Template, 0, len(list))
	for _, t := range list {
		if matches(query, t.Name, t.Subject) {
			out = append(out, t)
		}
	}
	return out
}

// FilterHRs narrows the contact directory by free-text query, verification
// state and pool scope.
func FilterHRs(list []HRContact, query string, verified VerifiedFilter, scope HRScope) []HRContact {
	out := make([]HRContact, 0, len(list))
	for _, hr := range list {
		if !matches(query, hr.Name, hr.Email, hr.Company) {
			continue
		}
		if verified == VerifiedOnly && !hr.IsVerified {
			continue
		}
		if verified == UnverifiedOnly && hr.IsVerified {
			continue
		}
		if scope == ScopeGlobal && !hr.IsGlobal {
			continue
		}
		if scope == ScopeUser && hr.IsGlobal {
			continue
		}
		out = append(out, hr)
	}
	return out
}
