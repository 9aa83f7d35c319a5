package api

import (
	"codemailx/internal/campaign"
	"context"
	"net/http"
	"net/url"
)

// EmailLimit fetches the caller's remaining daily send quota.
func (c *Client) EmailLimit(ctx context.Context) (*campaign.EmailLimit, error) {
	var limit campaign.EmailLimit
	if err := c.do(ctx, http.MethodGet, "/campaigns/email-limit", nil, nil, &limit); err != nil {
		return nil, err
	}
	return &limit, nil
}

// ListCampaigns returns the caller's campaigns, newest first per the server.
func (c *Client) ListCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	var campaigns []campaign.Campaign
	if err := c.do(ctx, http.MethodGet, "/campaigns", nil, nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// campaignResponse tolerates both a bare campaign document and a
// {"campaign": {...}} wrapper.
type campaignResponse struct {
	campaign.Campaign
	Wrapped *campaign.Campaign `json:"campaign"`
}

func (r campaignResponse) unwrap() campaign.Campaign {
	if r.Wrapped != nil {
		return *r.Wrapped
	}
	return r.Campaign
}

// CreateCampaign saves a new campaign and returns the persisted document.
func (c *Client) CreateCampaign(ctx context.Context, payload campaign.Payload) (campaign.Campaign, error) {
	var created campaignResponse
	if err := c.do(ctx, http.MethodPost, "/campaigns/", nil, payload, &created); err != nil {
		return campaign.Campaign{}, err
	}
	return created.unwrap(), nil
}

// UpdateCampaign overwrites an existing campaign and returns the updated
// document.
func (c *Client) UpdateCampaign(ctx context.Context, id string, payload campaign.Payload) (campaign.Campaign, error) {
	var updated campaignResponse
	if err := c.do(ctx, http.MethodPut, "/campaigns/"+id, nil, payload, &updated); err != nil {
		return campaign.Campaign{}, err
	}
	return updated.unwrap(), nil
}

// SendCampaign triggers delivery of a saved campaign.
func (c *Client) SendCampaign(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/campaigns/"+id+"/send", nil, nil, nil)
}

// ListTemplates returns the template directory.
func (c *Client) ListTemplates(ctx context.Context) ([]campaign.Template, error) {
	var templates []campaign.Template
	if err := c.do(ctx, http.MethodGet, "/templates", nil, nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// HRsByCompany returns the contacts reachable for one company.
func (c *Client) HRsByCompany(ctx context.Context, company string) ([]campaign.HRContact, error) {
	params := url.Values{"company": {company}}
	var hrs []campaign.HRContact
	if err := c.do(ctx, http.MethodGet, "/hr/by-company", params, nil, &hrs); err != nil {
		return nil, err
	}
	return hrs, nil
}

// Companies returns the distinct company names known to the directory.
func (c *Client) Companies(ctx context.Context) ([]campaign.Company, error) {
	var companies []campaign.Company
	if err := c.do(ctx, http.MethodGet, "/hr/companies", nil, nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// ListHRs returns the full contact directory, global and personal.
func (c *Client) ListHRs(ctx context.Context) ([]campaign.HRContact, error) {
	var hrs []campaign.HRContact
	if err := c.do(ctx, http.MethodGet, "/hr", nil, nil, &hrs); err != nil {
		return nil, err
	}
	return hrs, nil
}

// Dashboard returns the aggregated account metrics.
func (c *Client) Dashboard(ctx context.Context) (*campaign.Dashboard, error) {
	var dash campaign.Dashboard
	if err := c.do(ctx, http.MethodGet, "/users/dashboard", nil, nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// Client satisfies campaign.Service.
var _ campaign.Service = (*Client)(nil)
