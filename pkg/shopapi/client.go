package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
)

const (
	genericFailureMessage       = "request to shop service failed"
	responseBodyReadLimit int64 = 4096
)

var errBaseURLRequired = errors.New("shop api base url is required")

// Client talks to the upstream shop API that owns the catalog, brands, and
// durable sale records. Authentication is a bearer token; when no token is
// configured the credential goes out empty and the server is expected to
// reject the call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
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

// NewClient builds the shop API client from configuration.
func NewClient(cfg config.ShopAPIConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// SubmitSale posts a finalized sale and returns the record the server created.
func (c *Client) SubmitSale(ctx context.Context, req SubmitSaleRequest) (*SaleRecord, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop api client not configured")
	}

	var record SaleRecord
	if err := c.do(ctx, http.MethodPost, "sales", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListSales fetches the shop's sale history.
func (c *Client) ListSales(ctx context.Context) ([]SaleRecord, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop api client not configured")
	}

	var records []SaleRecord
	if err := c.do(ctx, http.MethodGet, "sales", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetSale fetches a single sale record by id.
func (c *Client) GetSale(ctx context.Context, id string) (*SaleRecord, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop api client not configured")
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}

	var record SaleRecord
	if err := c.do(ctx, http.MethodGet, "sales/"+url.PathEscape(trimmed), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListProducts fetches the product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop api client not configured")
	}

	var products []Product
	if err := c.do(ctx, http.MethodGet, "products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListBrands fetches the brand list used for brand_id resolution.
func (c *Client) ListBrands(ctx context.Context) ([]Brand, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shop api client not configured")
	}

	var brands []Brand
	if err := c.do(ctx, http.MethodGet, "brands", nil, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

// Ping probes the upstream API for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("shop api client not configured")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	c.setHeaders(httpReq)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("shop api unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal shop api request")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build shop api request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, genericFailureMessage)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.errorFromResponse(resp)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode shop api response")
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}

// errorFromResponse surfaces the server-provided message verbatim when one
// exists, falling back to the generic message.
func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))

	message := extractMessage(raw)
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))

	if resp.StatusCode == http.StatusNotFound {
		if message == "" {
			message = "resource not found"
		}
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, message)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if message == "" {
			message = "shop api rejected credentials"
		}
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause, message)
	}

	if message == "" {
		message = genericFailureMessage
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, message)
}

func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if strings.TrimSpace(body.Message) != "" {
		return strings.TrimSpace(body.Message)
	}
	return strings.TrimSpace(body.Error)
}
