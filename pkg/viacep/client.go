package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://viacep.com.br/ws"
	defaultTimeout             = 3 * time.Second
	requestBodyReadLimit int64 = 1024
)

// Client wraps the ViaCEP postal-code lookup API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured ViaCEP base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout bounds each lookup request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the ViaCEP client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// Address is the normalized payload returned for a known CEP.
type Address struct {
	Cep    string
	Street string
	City   string
	State  string
}

// Lookup resolves a normalized 8-digit CEP to an address. A CEP the provider
// does not know yields (nil, nil); transport and decoding failures return a
// dependency error.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "viacep client not configured")
	}
	trimmed := strings.TrimSpace(cep)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cep is required")
	}

	url := fmt.Sprintf("%s/%s/json/", strings.TrimRight(c.baseURL, "/"), trimmed)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build cep lookup request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute cep lookup request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "cep lookup request failed")
	}

	var apiResp struct {
		Cep        string          `json:"cep"`
		Logradouro string          `json:"logradouro"`
		Localidade string          `json:"localidade"`
		UF         string          `json:"uf"`
		Erro       json.RawMessage `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cep lookup response")
	}

	// ViaCEP signals an unknown CEP with {"erro": true} on a 200 response.
	// Older deployments encode the flag as the string "true".
	if flag := strings.Trim(string(apiResp.Erro), `"`); flag == "true" {
		return nil, nil
	}
	if apiResp.UF == "" {
		return nil, nil
	}

	return &Address{
		Cep:    strings.ReplaceAll(apiResp.Cep, "-", ""),
		Street: apiResp.Logradouro,
		City:   apiResp.Localidade,
		State:  apiResp.UF,
	}, nil
}
