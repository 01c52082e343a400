// Package shopify is the authenticated executor for one store account.
// It speaks both the REST admin API and the GraphQL admin API and reports
// every failure as *apierr.RemoteAPIError. It never retries.
package shopify

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

	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/metrics"
	"go.uber.org/zap"
)

const (
	accessTokenHeader = "X-Shopify-Access-Token"

	defaultAPIVersion     = "2023-10"
	defaultRESTTimeout    = time.Minute
	defaultGraphQLTimeout = 5 * time.Minute
	defaultUploadTimeout  = 10 * time.Minute

	maxErrorBodyLen = 2048
)

// Store describes one store account
type Store struct {
	// Name labels the store in logs and metrics ("main" or "external")
	Name string
	// Domain is the shop domain, e.g. "my-shop.myshopify.com".
	// A value with an http(s) scheme is used verbatim as the base URL.
	Domain      string
	AccessToken string
	APIVersion  string
}

// Client executes requests against one store
type Client struct {
	store   Store
	baseURL string
	logger  *zap.Logger

	restClient    *http.Client
	graphqlClient *http.Client
	uploadClient  *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient makes every request class go through hc
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.restClient = hc
		c.graphqlClient = hc
		c.uploadClient = hc
	}
}

// WithTimeouts sets the per-class request timeouts. Zero values keep the defaults.
func WithTimeouts(rest, graphql, upload time.Duration) Option {
	return func(c *Client) {
		if rest > 0 {
			c.restClient = &http.Client{Timeout: rest}
		}
		if graphql > 0 {
			c.graphqlClient = &http.Client{Timeout: graphql}
		}
		if upload > 0 {
			c.uploadClient = &http.Client{Timeout: upload}
		}
	}
}

// NewClient creates a new store client
func NewClient(store Store, logger *zap.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(store.Domain) == "" {
		return nil, fmt.Errorf("store %q: domain is required", store.Name)
	}
	if strings.TrimSpace(store.AccessToken) == "" {
		return nil, fmt.Errorf("store %q: access token is required", store.Name)
	}
	if store.APIVersion == "" {
		store.APIVersion = defaultAPIVersion
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		store:         store,
		baseURL:       baseURL(store.Domain),
		logger:        logger.With(zap.String("store", store.Name)),
		restClient:    &http.Client{Timeout: defaultRESTTimeout},
		graphqlClient: &http.Client{Timeout: defaultGraphQLTimeout},
		uploadClient:  &http.Client{Timeout: defaultUploadTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func baseURL(domain string) string {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return domain
	}
	return "https://" + domain
}

// Name returns the store label
func (c *Client) Name() string {
	return c.store.Name
}

func (c *Client) apiPrefix() string {
	return "/admin/api/" + c.store.APIVersion + "/"
}

func (c *Client) resourceURL(resourcePath string) string {
	return c.baseURL + c.apiPrefix() + strings.TrimLeft(resourcePath, "/")
}

// Execute performs a JSON REST call. resourcePath is relative to the
// versioned admin path and may carry a query string ("products.json?limit=250").
// body is JSON-encoded when non-nil; the response is decoded into out when non-nil.
func (c *Client) Execute(ctx context.Context, method, resourcePath string, body, out any) error {
	_, err := c.doREST(ctx, method, resourcePath, body, out)
	return err
}

// ExecutePage performs a GET and returns the resource path of the next page
// from the Link header, or "" when this is the last page.
func (c *Client) ExecutePage(ctx context.Context, resourcePath string, out any) (string, error) {
	header, err := c.doREST(ctx, http.MethodGet, resourcePath, nil, out)
	if err != nil {
		return "", err
	}
	return c.nextPagePath(header.Get("Link")), nil
}

func (c *Client) doREST(ctx context.Context, method, resourcePath string, body, out any) (http.Header, error) {
	started := time.Now()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resourceURL(resourcePath), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(accessTokenHeader, c.store.AccessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, header, err := c.send(c.restClient, req)
	if err == nil && out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if decodeErr := json.Unmarshal(respBody, out); decodeErr != nil {
			err = &apierr.RemoteAPIError{
				Message: fmt.Sprintf("invalid JSON response: %v", decodeErr),
				RawBody: truncate(string(respBody)),
				Err:     decodeErr,
			}
		}
	}

	metrics.ObserveRemote(c.store.Name, "rest", started, err)
	c.logger.Debug("store REST call",
		zap.String("method", method),
		zap.String("path", resourcePath),
		zap.Duration("duration", time.Since(started)),
		zap.Error(err),
	)
	return header, err
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// Query posts a GraphQL document and decodes its "data" member into out.
// A non-empty "errors" member fails the call whatever the HTTP status.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	started := time.Now()
	err := c.doQuery(ctx, query, variables, out)

	metrics.ObserveRemote(c.store.Name, "graphql", started, err)
	c.logger.Debug("store GraphQL call",
		zap.String("operation", operationName(query)),
		zap.Duration("duration", time.Since(started)),
		zap.Error(err),
	)
	return err
}

func (c *Client) doQuery(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resourceURL("graphql.json"), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(accessTokenHeader, c.store.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	respBody, _, sendErr := c.send(c.graphqlClient, req)

	var gql graphqlResponse
	decodeErr := json.Unmarshal(respBody, &gql)
	if decodeErr == nil {
		if msg := graphqlErrorMessage(gql.Errors); msg != "" {
			status := 0
			var remote *apierr.RemoteAPIError
			if errors.As(sendErr, &remote) {
				status = remote.StatusCode
			}
			return &apierr.RemoteAPIError{StatusCode: status, Message: msg, RawBody: truncate(string(respBody))}
		}
	}
	if sendErr != nil {
		return sendErr
	}
	if decodeErr != nil {
		return &apierr.RemoteAPIError{
			Message: fmt.Sprintf("invalid JSON response: %v", decodeErr),
			RawBody: truncate(string(respBody)),
			Err:     decodeErr,
		}
	}
	if out == nil || len(gql.Data) == 0 || string(gql.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return &apierr.RemoteAPIError{
			Message: fmt.Sprintf("invalid GraphQL data: %v", err),
			RawBody: truncate(string(respBody)),
			Err:     err,
		}
	}
	return nil
}

// send executes req and returns the body. Non-2xx statuses become RemoteAPIError
// carrying the body, which is returned as well so callers can inspect it.
func (c *Client) send(hc *http.Client, req *http.Request) ([]byte, http.Header, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, nil, &apierr.RemoteAPIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, &apierr.RemoteAPIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return respBody, resp.Header, &apierr.RemoteAPIError{
			StatusCode: resp.StatusCode,
			Message:    restErrorMessage(resp.StatusCode, respBody),
			RawBody:    truncate(string(respBody)),
		}
	}
	return respBody, resp.Header, nil
}

// nextPagePath extracts the rel="next" target of a Link header as a resource path
func (c *Client) nextPagePath(link string) string {
	for _, part := range strings.Split(link, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		isNext := false
		for _, attr := range segments[1:] {
			if strings.EqualFold(strings.TrimSpace(attr), `rel="next"`) {
				isNext = true
			}
		}
		if !isNext {
			continue
		}
		target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		u, err := url.Parse(target)
		if err != nil {
			continue
		}
		path := u.Path
		if idx := strings.Index(path, c.apiPrefix()); idx >= 0 {
			path = path[idx+len(c.apiPrefix()):]
		}
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		return path
	}
	return ""
}

// restErrorMessage returns the REST "errors" detail, then "error", then the plain body
func restErrorMessage(status int, body []byte) string {
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if msg := graphqlErrorMessage(envelope.Errors); msg != "" {
			return msg
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return truncate(text)
	}
	return http.StatusText(status)
}

// graphqlErrorMessage flattens an "errors" member, which the platform sends
// as an array of {message}, a single string, or a field-keyed object.
func graphqlErrorMessage(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	var list []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &list); err == nil {
		messages := make([]string, 0, len(list))
		for _, item := range list {
			if item.Message != "" {
				messages = append(messages, item.Message)
			}
		}
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
		if len(list) == 0 {
			return ""
		}
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}
	return string(trimmed)
}

// operationName returns the first operation or root field name of a GraphQL document
func operationName(query string) string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '(' || r == '{' || r == '}' || r == ':' || r == ','
	})
	for i, f := range fields {
		if (f == "query" || f == "mutation") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func truncate(s string) string {
	if len(s) <= maxErrorBodyLen {
		return s
	}
	return s[:maxErrorBodyLen] + "..."
}
