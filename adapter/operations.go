package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/apiadapter/errors"
	"github.com/kbukum/apiadapter/httpclient"
	"github.com/kbukum/apiadapter/logger"
	"github.com/kbukum/apiadapter/observability"
)

// MediaType is the JSON:API media type sent in Accept and Content-Type.
const MediaType = "application/vnd.api+json"

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-Id"

// Operation names, as reported in logs, spans and metrics.
const (
	OpFindRecord   = "findRecord"
	OpFindAll      = "findAll"
	OpQuery        = "query"
	OpFindMany     = "findMany"
	OpCreateRecord = "createRecord"
	OpUpdateRecord = "updateRecord"
	OpDeleteRecord = "deleteRecord"
)

// Document is a raw JSON:API response. Body is passed through untouched.
type Document struct {
	Status  int
	Headers map[string]string
	Body    json.RawMessage
}

// FindRecord fetches GET {type}/{id}.
func (a *ResourceAdapter) FindRecord(ctx context.Context, resourceType, id string) (*Document, error) {
	if id == "" {
		return nil, apperrors.Configuration("id", "is required")
	}
	return a.send(ctx, call{op: OpFindRecord, method: http.MethodGet, resourceType: resourceType, id: id})
}

// FindAll fetches GET {type}.
func (a *ResourceAdapter) FindAll(ctx context.Context, resourceType string) (*Document, error) {
	return a.send(ctx, call{op: OpFindAll, method: http.MethodGet, resourceType: resourceType})
}

// Query fetches GET {type}?{params}.
func (a *ResourceAdapter) Query(ctx context.Context, resourceType string, params url.Values) (*Document, error) {
	return a.send(ctx, call{op: OpQuery, method: http.MethodGet, resourceType: resourceType, query: params})
}

// FindMany fetches several records of one type in a single request using
// the filter[id]=1,2 convention.
func (a *ResourceAdapter) FindMany(ctx context.Context, resourceType string, ids []string) (*Document, error) {
	if len(ids) == 0 {
		return nil, apperrors.Configuration("ids", "is required")
	}
	return a.send(ctx, call{
		op: OpFindMany, method: http.MethodGet, resourceType: resourceType,
		query: url.Values{"filter[id]": {strings.Join(ids, ",")}},
	})
}

// CreateRecord sends POST {type} with payload.
func (a *ResourceAdapter) CreateRecord(ctx context.Context, resourceType string, payload json.RawMessage) (*Document, error) {
	return a.send(ctx, call{op: OpCreateRecord, method: http.MethodPost, resourceType: resourceType, body: payload})
}

// UpdateRecord sends PATCH {type}/{id} with payload.
func (a *ResourceAdapter) UpdateRecord(ctx context.Context, resourceType, id string, payload json.RawMessage) (*Document, error) {
	if id == "" {
		return nil, apperrors.Configuration("id", "is required")
	}
	return a.send(ctx, call{op: OpUpdateRecord, method: http.MethodPatch, resourceType: resourceType, id: id, body: payload})
}

// DeleteRecord sends DELETE {type}/{id}.
func (a *ResourceAdapter) DeleteRecord(ctx context.Context, resourceType, id string) (*Document, error) {
	if id == "" {
		return nil, apperrors.Configuration("id", "is required")
	}
	return a.send(ctx, call{op: OpDeleteRecord, method: http.MethodDelete, resourceType: resourceType, id: id})
}

type call struct {
	op           string
	method       string
	resourceType string
	id           string
	query        url.Values
	body         json.RawMessage
}

// send builds, authorizes and performs a request. Transport errors are
// returned as received. A response is returned whenever one arrived, even
// alongside an error.
func (a *ResourceAdapter) send(ctx context.Context, c call) (*Document, error) {
	u, err := a.BuildURL(c.resourceType, c.id)
	if err != nil {
		return nil, err
	}
	if len(c.query) > 0 {
		u += "?" + c.query.Encode()
	}

	req := a.newRequest(c.method, u, c.body)
	reqID, _ := lookupHeader(req.Headers, HeaderRequestID)

	ctx, op := observability.StartOperation(ctx, a.tracer, a.metrics, c.op, c.resourceType, reqID)
	op.SetAttributes(
		attribute.String(observability.AttrMethod, c.method),
		attribute.String(observability.AttrURL, u),
		attribute.String(observability.AttrAuthorizer, a.cfg.Authorizer),
	)
	log := a.log.WithFields(logger.Fields(
		logger.FieldOperation, c.op,
		logger.FieldMethod, c.method,
		logger.FieldURL, u,
		logger.FieldRequestID, reqID,
	))

	if err := a.AuthorizeRequest(ctx, &req); err != nil {
		op.End(ctx, 0, err)
		return nil, err
	}

	log.Debug("sending request")
	resp, err := a.transport.Do(ctx, req)
	if resp == nil {
		log.Warn("request failed", logger.Fields(logger.FieldError, errorString(err)))
		op.End(ctx, 0, err)
		return nil, err
	}

	doc := &Document{Status: resp.StatusCode, Headers: resp.Headers, Body: json.RawMessage(resp.Body)}
	if authErr := a.handleResponse(ctx, resp.StatusCode); authErr != nil {
		if err != nil {
			authErr = authErr.WithCause(err)
		}
		op.End(ctx, resp.StatusCode, authErr)
		return doc, authErr
	}

	log.Debug("response received", logger.Fields(
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDuration, op.Duration().Milliseconds(),
	))
	op.End(ctx, resp.StatusCode, err)
	return doc, err
}

func (a *ResourceAdapter) newRequest(method, u string, body json.RawMessage) httpclient.Request {
	req := httpclient.Request{Method: method, URL: u}
	for name, value := range a.cfg.Headers {
		setHeader(&req, name, value)
	}
	setHeader(&req, "Accept", MediaType)
	if body != nil {
		setHeader(&req, "Content-Type", MediaType)
		req.Body = body
	}
	if _, ok := lookupHeader(req.Headers, HeaderRequestID); a.requestIDs && !ok {
		setHeader(&req, HeaderRequestID, uuid.NewString())
	}
	return req
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	for existing, value := range headers {
		if strings.EqualFold(existing, name) {
			return value, true
		}
	}
	return "", false
}

func errorString(err error) string {
	if err == nil {
		return "no response"
	}
	return err.Error()
}
