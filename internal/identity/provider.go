package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/grandparser/backend/internal/config"
)

// Subject is the identity provider's view of an authenticated user.
type Subject struct {
	ID    string
	Email string
}

// Provider looks up subjects at the external identity service. It is only
// consulted during auto-provisioning, when a subject has no local User row.
type Provider interface {
	Lookup(ctx context.Context, subjectID string) (*Subject, error)
}

// HTTPProvider queries a Clerk-style user API with a bearer secret key.
type HTTPProvider struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewHTTPProvider(cfg config.IdentityConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL:   cfg.APIURL,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type providerUser struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (p *HTTPProvider) Lookup(ctx context.Context, subjectID string) (*Subject, error) {
	url := fmt.Sprintf("%s/v1/users/%s", p.baseURL, subjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var body providerUser
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	email := ""
	if len(body.EmailAddresses) > 0 {
		email = body.EmailAddresses[0].EmailAddress
	}
	if email == "" {
		// Some subjects carry no address; keep a derivable placeholder.
		email = subjectID + "@unknown.user"
	}

	return &Subject{ID: body.ID, Email: email}, nil
}
