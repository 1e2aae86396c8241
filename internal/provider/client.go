package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a Twilio REST API client.
type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	httpClient *http.Client
}

// NewClient creates a new Twilio client.
func NewClient(baseURL, accountSID, authToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ErrorResponse represents a provider API error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// CreateCall originates one voice call via the provider REST API.
func (c *Client) CreateCall(ctx context.Context, req *CallRequest) (*CallResource, error) {
	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	form.Set("Url", req.VoiceScriptRef)
	if req.StatusCallback != "" {
		form.Set("StatusCallback", req.StatusCallback)
		for _, event := range req.CallbackEvents {
			form.Add("StatusCallbackEvent", event)
		}
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)

	var result CallResource
	if err := c.postForm(ctx, endpoint, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateMessage sends one SMS message via the provider REST API.
func (c *Client) CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResource, error) {
	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	form.Set("Body", req.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	var result MessageResource
	if err := c.postForm(ctx, endpoint, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// postForm sends a form-encoded POST and decodes the JSON response into out.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("provider API error [%d]: %s (code: %d)", resp.StatusCode, errResp.Message, errResp.Code)
		}
		return fmt.Errorf("provider API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
