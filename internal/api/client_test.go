package api

import (
	"codemailx/internal/campaign"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Token: "test-token", Timeout: 5 * time.Second})
}

func TestClientSendsBearerToken(t *testing.T) {
	defer goleak.VerifyNone(t)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(campaign.EmailLimit{RemainingLimit: 3, MaxLimit: 10})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "test-token", Timeout: 5 * time.Second})
	limit, err := c.EmailLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, 3, limit.RemainingLimit)
	assert.Equal(t, 10, limit.MaxLimit)

	c.httpClient.CloseIdleConnections()
}

func TestHRsByCompanyQueryParam(t *testing.T) {
	var gotCompany, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCompany = r.URL.Query().Get("company")
		json.NewEncoder(w).Encode([]campaign.HRContact{
			{ID: "h1", Name: "Dana", Company: "Acme Corp", IsVerified: true},
		})
	})

	hrs, err := c.HRsByCompany(context.Background(), "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "/hr/by-company", gotPath)
	assert.Equal(t, "Acme Corp", gotCompany)
	require.Len(t, hrs, 1)
	assert.Equal(t, "h1", hrs[0].ID)
}

func TestCreateCampaignPostsPayload(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotPayload campaign.Payload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		json.NewEncoder(w).Encode(campaign.Campaign{
			ID:           "c42",
			CampaignName: gotPayload.CampaignName,
			Status:       campaign.StatusPending,
		})
	})

	payload := campaign.Payload{
		CampaignName: "Autumn Outreach",
		Company:      "Acme",
		HRList:       []string{"h1", "h2"},
		Template:     "t1",
		Placeholders: []campaign.KV{{Key: "position", Value: "Backend Engineer"}},
	}
	created, err := c.CreateCampaign(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/campaigns/", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, payload.HRList, gotPayload.HRList)
	assert.Equal(t, "c42", created.ID)
	assert.Equal(t, campaign.StatusPending, created.Status)
}

func TestCreateCampaignWrappedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":  "Campaign created",
			"campaign": campaign.Campaign{ID: "c7", Status: campaign.StatusPending},
		})
	})

	created, err := c.CreateCampaign(context.Background(), campaign.Payload{CampaignName: "x"})
	require.NoError(t, err)
	assert.Equal(t, "c7", created.ID)
}

func TestListCampaignsPopulatedHRList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"_id": "c1",
			"campaignName": "Push",
			"company": "Acme",
			"hrList": [{"_id": "h1", "name": "Dana", "email": "dana@acme.com"}, "h2"],
			"status": "Pending"
		}]`))
	})

	items, err := c.ListCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, campaign.HRRefList{"h1", "h2"}, items[0].HRList)
}

func TestUpdateCampaignPutsToID(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(campaign.Campaign{ID: "c9"})
	})

	updated, err := c.UpdateCampaign(context.Background(), "c9", campaign.Payload{CampaignName: "y"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/campaigns/c9", gotPath)
	assert.Equal(t, "c9", updated.ID)
}

func TestSendCampaignSurfacesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "Daily email limit reached"})
	})

	err := c.SendCampaign(context.Background(), "c1")
	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Daily email limit reached", apiErr.Error())
}

func TestErrorFallsBackToStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	_, err := c.ListCampaigns(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "request failed with status 500", apiErr.Error())
	assert.Equal(t, "boom", apiErr.Body)
}

func TestDashboardDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/dashboard", r.URL.Path)
		json.NewEncoder(w).Encode(campaign.Dashboard{
			Campaigns:       campaign.CampaignStats{Total: 5, Successful: 3, Failed: 1},
			EmailsSent:      120,
			EmailsSentToday: 4,
			EmailsSentLast5Days: []campaign.DailyEmailCount{
				{Date: "2026-08-28", Count: 10},
			},
			GlobalHRCount: 60,
			TopCompanies:  []campaign.CompanyHRCount{{Company: "Acme", HRCount: 12}},
		})
	})

	dash, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, dash.Campaigns.Total)
	assert.Equal(t, 60, dash.GlobalHRCount)
	require.Len(t, dash.TopCompanies, 1)
	assert.Equal(t, "Acme", dash.TopCompanies[0].Company)
}

func TestCompaniesDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hr/companies", r.URL.Path)
		json.NewEncoder(w).Encode([]campaign.Company{{Name: "Acme"}, {Name: "Globex"}})
	})

	companies, err := c.Companies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "Globex", companies[1].Name)
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:5000/api/"})
	assert.Equal(t, "http://localhost:5000/api", c.baseURL)
}

func TestDefaultsApplied(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, DefaultConfig().BaseURL, c.baseURL)
	assert.Equal(t, DefaultConfig().Timeout, c.httpClient.Timeout)
}
