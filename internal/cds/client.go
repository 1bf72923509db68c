// Package cds is the HTTP client for the core data service: it fetches
// per-template validation schemas and creates or updates component
// documents. The service is treated as a black box; this package owns the
// wire shapes, the deterministic component addressing scheme, and the
// per-request trace headers.
package cds

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds each request to the service.
const DefaultTimeout = 30 * time.Second

// apiPrefix is the service's versioned base path.
const apiPrefix = "/core-data-service/v1"

// componentNamespace seeds deterministic component ids so that the same
// (kind, name) always addresses the same resource slot across runs.
var componentNamespace = uuid.MustParse("8e3f1d52-4a0f-4a6e-9c11-2f7a90d1b0c4")

// ComponentID derives the deterministic identifier for a business key.
// Supplying it on create makes the initial request idempotent at the
// transport layer.
func ComponentID(kind, name string) string {
	id := uuid.NewSHA1(componentNamespace, []byte(kind+":"+name))
	return "comp_" + hex.EncodeToString(id[:])
}

// TemplateSchema pairs a template id with its fetched validation schema.
// Schemas travel as a single ordered sequence of pairs so that ids and
// schemas can never zip out of sync.
type TemplateSchema struct {
	TemplateID string
	Name       string
	Schema     map[string]any
	Missing    bool // fetch or parse failed; Schema is empty
}

// UploadResponse is the body returned by component create/update.
type UploadResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatusError reports a non-2xx response, preserving the body for logs.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("core data service returned %d: %s", e.Status, e.Body)
}

// Client talks to one core data service instance.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient builds a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// templateResponse is the wire shape of GET /templates/{id}. The component
// schema itself is a JSON document embedded as a string.
type templateResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ValidationSchemas struct {
		ComponentSchema string `json:"componentSchema"`
	} `json:"validationSchemas"`
}

// FetchTemplateSchemas fetches one schema per template id, preserving input
// order. A fetch or parse failure yields a pair with Missing set and an
// empty schema; the caller decides whether that rejects the batch or
// degrades to permissive validation.
func (c *Client) FetchTemplateSchemas(ctx context.Context, templateIDs []string) []TemplateSchema {
	out := make([]TemplateSchema, 0, len(templateIDs))

	for _, id := range templateIDs {
		ts := TemplateSchema{TemplateID: id, Schema: map[string]any{}}

		tpl, err := c.fetchTemplate(ctx, id)
		if err != nil {
			c.logger.Warn("template schema unavailable", "template_id", id, "error", err)
			ts.Missing = true
			out = append(out, ts)
			continue
		}

		ts.Name = tpl.Name
		if tpl.ValidationSchemas.ComponentSchema == "" {
			c.logger.Warn("template has no component schema", "template_id", id)
			ts.Missing = true
			out = append(out, ts)
			continue
		}

		var schema map[string]any
		if err := json.Unmarshal([]byte(tpl.ValidationSchemas.ComponentSchema), &schema); err != nil {
			c.logger.Warn("template schema is not valid JSON", "template_id", id, "error", err)
			ts.Missing = true
			out = append(out, ts)
			continue
		}

		ts.Schema = schema
		out = append(out, ts)
	}

	return out
}

func (c *Client) fetchTemplate(ctx context.Context, templateID string) (*templateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+apiPrefix+"/templates/"+templateID, nil)
	if err != nil {
		return nil, err
	}
	addTraceHeaders(req)

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return nil, &StatusError{Status: res.StatusCode, Body: string(body)}
	}

	var tpl templateResponse
	if err := json.NewDecoder(res.Body).Decode(&tpl); err != nil {
		return nil, fmt.Errorf("decode template response: %w", err)
	}
	return &tpl, nil
}

// CreateComponent submits a document to the create endpoint, addressed by
// its deterministic component id.
func (c *Client) CreateComponent(ctx context.Context, componentID string, doc any) (*UploadResponse, error) {
	return c.send(ctx, http.MethodPost, apiPrefix+"/component/"+componentID, doc)
}

// UpdateComponent retries an upload with the update verb against the same
// addressed resource. The caller strips immutable fields from doc first.
func (c *Client) UpdateComponent(ctx context.Context, componentID string, doc any) (*UploadResponse, error) {
	return c.send(ctx, http.MethodPatch, apiPrefix+"/component/"+componentID, doc)
}

func (c *Client) send(ctx context.Context, method, path string, doc any) (*UploadResponse, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal component: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	addTraceHeaders(req)

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return nil, &StatusError{Status: res.StatusCode, Body: string(body)}
	}

	var out UploadResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		// Some deployments return 202 with an empty body; the caller falls
		// back to the deterministic id.
		return &UploadResponse{}, nil
	}
	return &out, nil
}

// addTraceHeaders attaches fresh correlation identifiers to a request.
// Observational only; retries get new ids.
func addTraceHeaders(req *http.Request) {
	trace := uuid.New()
	span := uuid.New()
	req.Header.Set("X-B3-TraceId", hex.EncodeToString(trace[:]))
	req.Header.Set("X-B3-SpanId", hex.EncodeToString(span[:8]))
	req.Header.Set("X-B3-Sampled", "1")
}
