package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"skyrng/internal/meter"
)

// SyncRequest is the wire shape of a snapshot push: the full aggregate plus
// a client-side timestamp added at send time.
type SyncRequest struct {
	meter.PlayerRngData
	Timestamp int64 `json:"timestamp"`
}

// SyncAck is the success payload of a snapshot push
type SyncAck struct {
	ReceivedAt int64 `json:"receivedAt"`
}

// SyncResult is the outcome of a snapshot push: either the acknowledgement
// payload, or an error message with the HTTP status code when one was
// received (0 for transport failures).
type SyncResult struct {
	Ok         bool
	Ack        SyncAck
	Err        string
	StatusCode int
}

// Credential is what the backend issues once a link code verifies
type Credential struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Client talks to the remote sync backend. The HTTP transport itself is a
// boundary concern: the injected http.Client carries the timeout policy.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend client for baseURL. A nil httpClient gets a default
// with a bounded timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Sync pushes the aggregate snapshot under the given bearer token
func (c *Client) Sync(ctx context.Context, data meter.PlayerRngData, token string) SyncResult {
	body, err := json.Marshal(SyncRequest{
		PlayerRngData: data,
		Timestamp:     time.Now().UnixMilli(),
	})
	if err != nil {
		return SyncResult{Err: fmt.Sprintf("encode snapshot: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/rng/sync", bytes.NewReader(body))
	if err != nil {
		return SyncResult{Err: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return SyncResult{Err: fmt.Sprintf("sync request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SyncResult{
			Err:        fmt.Sprintf("backend rejected sync: %s", resp.Status),
			StatusCode: resp.StatusCode,
		}
	}

	var ack SyncAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		// 2xx with an unreadable body still counts as delivered
		return SyncResult{Ok: true, StatusCode: resp.StatusCode}
	}
	return SyncResult{Ok: true, Ack: ack, StatusCode: resp.StatusCode}
}

// Verify exchanges an 8-character link code for a credential
func (c *Client) Verify(ctx context.Context, code string) (Credential, error) {
	body, _ := json.Marshal(map[string]string{"code": code})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/link/verify", bytes.NewReader(body))
	if err != nil {
		return Credential{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Credential{}, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Credential{}, fmt.Errorf("link code rejected: %s", resp.Status)
	}

	var cred Credential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return Credential{}, fmt.Errorf("decode credential: %w", err)
	}
	if cred.Token == "" {
		return Credential{}, fmt.Errorf("backend returned an empty credential")
	}
	return cred, nil
}

// Unlink revokes the credential on the backend. Best-effort; local unlink
// proceeds even when this fails.
func (c *Client) Unlink(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/link/revoke", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend rejected revoke: %s", resp.Status)
	}
	return nil
}
