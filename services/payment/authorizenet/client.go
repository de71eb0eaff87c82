package authorizenet

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bendiy/authnet-go/config"
	"github.com/bendiy/authnet-go/mapper"
)

const (
	SandboxEndpoint    = "https://apitest.authorize.net/xml/v1/request.api"
	ProductionEndpoint = "https://api.authorize.net/xml/v1/request.api"
	RequestTimeout     = 30 * time.Second
)

// refIDOperations are the operations that get a generated refId attached.
var refIDOperations = map[string]bool{
	"createTransactionRequest":     true,
	"createCustomerProfileRequest": true,
}

// Client posts gateway operations to the single request endpoint. Every
// request is one JSON document whose single top-level key names the
// operation. Configuration is fixed at construction.
type Client struct {
	cfg    config.AuthNetConfig
	client *http.Client
}

func NewClient(cfg config.AuthNetConfig) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
	}
}

// Endpoint returns the request URL for the configured environment. An
// explicit endpoint in the configuration wins, which is how tests point
// the client at a local gateway.
func (c *Client) Endpoint() string {
	if c.cfg.Endpoint != "" {
		return c.cfg.Endpoint
	}
	if c.cfg.Environment == "production" {
		return ProductionEndpoint
	}
	return SandboxEndpoint
}

func (c *Client) merchantAuthentication() mapper.Record {
	return mapper.Record{
		"name":           c.cfg.APILoginID,
		"transactionKey": c.cfg.TransactionKey,
	}
}

// newRefID generates a merchant reference id. The gateway caps refId at
// 20 characters.
func newRefID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return id[:20]
}

// Do sends one gateway operation. The payload is copied, merchant
// authentication is injected over any caller-supplied value, and the raw
// reply is classified into a Response or a typed *Error.
func (c *Client) Do(ctx context.Context, operation string, payload mapper.Record) (*Response, error) {
	start := time.Now()

	merged := mapper.Record{}
	for k, v := range payload {
		merged[k] = v
	}
	merged["merchantAuthentication"] = c.merchantAuthentication()
	if refIDOperations[operation] && merged["refId"] == nil {
		merged["refId"] = newRefID()
	}

	body, err := marshalOrdered(mapper.Record{operation: merged}, "")
	if err != nil {
		return nil, &Error{Type: ErrorTypeGateway, Message: "error encoding request: " + err.Error(), cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Type: ErrorTypeGateway, Message: "error creating request: " + err.Error(), cause: err}
	}

	// the gateway dispatches on Content-Type and rejects the
	// form-encoded default of generic HTTP clients
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Type: ErrorTypeGateway, Message: "error making request: " + err.Error(), cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Type: ErrorTypeGateway, Message: "error reading response body: " + err.Error(), cause: err}
	}

	log.Printf("%s completed in %v", operation, time.Since(start))

	return Classify(resp.StatusCode, resp.Header, respBody)
}
