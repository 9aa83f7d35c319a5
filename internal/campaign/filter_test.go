package campaign

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testCampaigns = []Campaign{
	{ID: "1", CampaignName: "Summer Outreach", Company: "Acme", Template: &Template{Name: "Intro"}},
	{ID: "2", CampaignName: "Winter Push", Company: "Globex", Template: &Template{Name: "Follow-up"}},
	{ID: "3", CampaignName: "Acme Follow", Company: "Initech"},
}

func idsOf(list []Campaign) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterCampaigns(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns everything", "", []string{"1", "2", "3"}},
		{"matches name", "winter", []string{"2"}},
		{"matches company", "acme", []string{"1", "3"}},
		{"matches template name", "follow-up", []string{"2"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idsOf(FilterCampaigns(testCampaigns, tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterCampaigns(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestFilterHRs(t *testing.T) {
	hrs := []HRContact{
		{ID: "a", Name: "Ana Field", Email: "ana@acme.com", IsVerified: true, IsGlobal: true},
		{ID: "b", Name: "Bo Chen", Email: "bo@acme.com", IsVerified: false, IsGlobal: true},
		{ID: "c", Name: "Cris Vega", Email: "cris@globex.com", IsVerified: true, IsGlobal: false},
	}

	got := FilterHRs(hrs, "", VerifiedOnly, ScopeAll)
	if len(got) != 2 {
		t.Fatalf("verified filter: want 2, got %d", len(got))
	}

	got = FilterHRs(hrs, "", UnverifiedOnly, ScopeAll)
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("unverified filter: got %+v", got)
	}

	got = FilterHRs(hrs, "", VerifiedAny, ScopeUser)
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("user scope filter: got %+v", got)
	}

	got = FilterHRs(hrs, "acme", VerifiedAny, ScopeGlobal)
	if len(got) != 2 {
		t.Fatalf("query + scope: want 2, got %d", len(got))
	}
}

func TestFilterTemplates(t *testing.T) {
	tpls := []Template{
		{ID: "1", Name: "Cold Intro", Subject: "Hello {{name}}"},
		{ID: "2", Name: "Referral", Subject: "Re: {{position}}"},
	}
	got := FilterTemplates(tpls, "referral")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(FilterTemplates(tpls, "")) != 2 {
		t.Fatal("empty query should return all")
	}
}
