package schemaapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
	errorsMember      = "errors"
)

// Client posts schema definitions to a schema administration endpoint.
type Client struct {
	httpClient *http.Client
}

// New creates a Client. A zero timeout leaves the request unbounded.
func New(httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{httpClient: httpClient}
}

// PostSchema sends body as-is under a JSON content type. Any failure to
// produce a response is reported as domain.ErrTransport; a body that is not
// a JSON object is domain.ErrMalformedResponse. The status code is recorded
// but does not decide the outcome.
func (c *Client) PostSchema(ctx context.Context, targetURL string, body []byte) (domain.SchemaResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		return domain.SchemaResponse{}, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	req.Header.Set(contentTypeHeader, contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SchemaResponse{}, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SchemaResponse{}, fmt.Errorf("%w: read body: %w", domain.ErrTransport, err)
	}

	return decodeResponse(resp.StatusCode, data)
}

func decodeResponse(status int, data []byte) (domain.SchemaResponse, error) {
	var members map[string]jsontext.Value
	if err := json.Unmarshal(data, &members, jsontext.AllowDuplicateNames(true)); err != nil {
		return domain.SchemaResponse{}, fmt.Errorf("%w (status %d): %w", domain.ErrMalformedResponse, status, err)
	}
	if members == nil {
		return domain.SchemaResponse{}, fmt.Errorf("%w (status %d): body is null", domain.ErrMalformedResponse, status)
	}

	response := domain.SchemaResponse{StatusCode: status}
	for name := range members {
		response.Members = append(response.Members, name)
	}
	sort.Strings(response.Members)

	if value, ok := members[errorsMember]; ok {
		response.HasErrors = true
		response.Errors = value
	}
	return response, nil
}
