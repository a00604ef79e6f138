package nimble

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Contact is one person record extracted from the feed. Fields the feed did
// not supply are nil.
type Contact struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// The feed nests every field under a list of value objects:
//
//	{"resources": [{"fields": {"first name": [{"value": "Craig"}], ...}}]}
type apiResponse struct {
	Resources []Resource `json:"resources"`
}

type Resource struct {
	Fields map[string][]FieldValue `json:"fields"`
}

type FieldValue struct {
	Value *string `json:"value"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch requests person records with the fixed field selection. A non-2xx
// response is returned as an *APIError carrying status and body so the
// caller can log it and treat the cycle as empty.
func (c *Client) Fetch(ctx context.Context) ([]Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("fields", "first name,last name,email")
	params.Set("record_type", "person")
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 300 {
		return nil, &APIError{Status: res.StatusCode, Body: string(body)}
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

// FetchContacts is Fetch followed by ParseResources.
func (c *Client) FetchContacts(ctx context.Context) ([]Contact, error) {
	resources, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ParseResources(resources), nil
}

// ParseResources extracts the three contact fields from each resource,
// taking the first value object per field. A missing field or empty value
// list yields nil for that field only; no record is ever dropped here.
func ParseResources(resources []Resource) []Contact {
	parsed := make([]Contact, 0, len(resources))
	for _, res := range resources {
		parsed = append(parsed, Contact{
			FirstName: firstValue(res.Fields["first name"]),
			LastName:  firstValue(res.Fields["last name"]),
			Email:     firstValue(res.Fields["email"]),
		})
	}
	return parsed
}

func firstValue(values []FieldValue) *string {
	if len(values) == 0 {
		return nil
	}
	return values[0].Value
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nimble api error: status %d: %s", e.Status, e.Body)
}
