package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MediaType is the JSON:API media type served and expected by the server.
const MediaType = "application/vnd.api+json"

func init() {
	gin.SetMode(gin.TestMode)
}

// Request is a request as received by the server.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Option configures the server.
type Option func(*Server)

// WithNamespace mounts the resources under /<namespace>. Defaults to "v1".
func WithNamespace(ns string) Option {
	return func(s *Server) { s.namespace = ns }
}

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// Server is a fake JSON:API resource server.
type Server struct {
	namespace string
	token     string

	engine *gin.Engine
	ts     *httptest.Server

	mu       sync.Mutex
	requests []Request
	store    map[string]map[string]map[string]any
	status   int
	nextID   int
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		namespace: "v1",
		store:     make(map[string]map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.record, requestID, s.forcedStatus, s.requireBearer)

	g := s.engine.Group("/" + s.namespace)
	g.GET("/:type", s.list)
	g.GET("/:type/:id", s.show)
	g.POST("/:type", s.create)
	g.PATCH("/:type/:id", s.update)
	g.DELETE("/:type/:id", s.destroy)

	s.ts = httptest.NewServer(s.engine)
	t.Cleanup(s.ts.Close)
	return s
}

// URL returns the server origin, e.g. "http://127.0.0.1:PORT".
func (s *Server) URL() string { return s.ts.URL }

// Namespace returns the path prefix the resources are mounted under.
func (s *Server) Namespace() string { return s.namespace }

// Close shuts the server down. Later requests fail at the transport.
func (s *Server) Close() { s.ts.Close() }

// Seed stores a resource.
func (s *Server) Seed(resourceType, id string, attributes map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(resourceType, id, attributes)
}

// RespondWith makes every following request answer with status and a
// JSON:API error document. Zero restores normal handling.
func (s *Server) RespondWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// LastRequest returns the most recent request. It fails the test if none
// was received.
func (s *Server) LastRequest(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("apitest: no requests received")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) put(resourceType, id string, attributes map[string]any) {
	if s.store[resourceType] == nil {
		s.store[resourceType] = make(map[string]map[string]any)
	}
	s.store[resourceType][id] = maps.Clone(attributes)
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Header:   c.Request.Header.Clone(),
		Body:     body,
	})
	s.mu.Unlock()
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Next()
}

func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-Id")
	if id == "" {
		id = uuid.New().String()
	}
	c.Header("X-Request-Id", id)
	c.Next()
}

func (s *Server) forcedStatus(c *gin.Context) {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	if status != 0 {
		abortWithError(c, status)
		return
	}
	c.Next()
}

func (s *Server) requireBearer(c *gin.Context) {
	if s.token == "" {
		c.Next()
		return
	}
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || scheme != "Bearer" || token != s.token {
		abortWithError(c, http.StatusUnauthorized)
		return
	}
	c.Next()
}

type resource struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type document struct {
	Data any `json:"data"`
}

type errorObject struct {
	Status string `json:"status"`
	Title  string `json:"title"`
}

func abortWithError(c *gin.Context, status int) {
	body, _ := json.Marshal(map[string][]errorObject{
		"errors": {{Status: fmt.Sprint(status), Title: http.StatusText(status)}},
	})
	c.Data(status, MediaType, body)
	c.Abort()
}

func respond(c *gin.Context, status int, data any) {
	body, _ := json.Marshal(document{Data: data})
	c.Data(status, MediaType, body)
}

func (s *Server) list(c *gin.Context) {
	typ := c.Param("type")
	var ids []string
	if filter := c.Query("filter[id]"); filter != "" {
		ids = strings.Split(filter, ",")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ids == nil {
		ids = slices.Sorted(maps.Keys(s.store[typ]))
	}
	data := make([]resource, 0, len(ids))
	for _, id := range ids {
		if attrs, ok := s.store[typ][id]; ok {
			data = append(data, resource{Type: typ, ID: id, Attributes: attrs})
		}
	}
	respond(c, http.StatusOK, data)
}

func (s *Server) show(c *gin.Context) {
	typ, id := c.Param("type"), c.Param("id")
	s.mu.Lock()
	attrs, ok := s.store[typ][id]
	s.mu.Unlock()
	if !ok {
		abortWithError(c, http.StatusNotFound)
		return
	}
	respond(c, http.StatusOK, resource{Type: typ, ID: id, Attributes: attrs})
}

func (s *Server) decode(c *gin.Context) (resource, bool) {
	var doc struct {
		Data resource `json:"data"`
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&doc); err != nil || doc.Data.Type != c.Param("type") {
		abortWithError(c, http.StatusUnprocessableEntity)
		return resource{}, false
	}
	return doc.Data, true
}

func (s *Server) create(c *gin.Context) {
	res, ok := s.decode(c)
	if !ok {
		return
	}
	s.mu.Lock()
	if res.ID == "" {
		s.nextID++
		res.ID = fmt.Sprintf("new-%d", s.nextID)
	}
	s.put(res.Type, res.ID, res.Attributes)
	s.mu.Unlock()
	respond(c, http.StatusCreated, res)
}

func (s *Server) update(c *gin.Context) {
	res, ok := s.decode(c)
	if !ok {
		return
	}
	id := c.Param("id")
	s.mu.Lock()
	current, found := s.store[res.Type][id]
	if found {
		merged := maps.Clone(current)
		maps.Copy(merged, res.Attributes)
		s.put(res.Type, id, merged)
		res.ID, res.Attributes = id, merged
	}
	s.mu.Unlock()
	if !found {
		abortWithError(c, http.StatusNotFound)
		return
	}
	respond(c, http.StatusOK, res)
}

func (s *Server) destroy(c *gin.Context) {
	typ, id := c.Param("type"), c.Param("id")
	s.mu.Lock()
	_, found := s.store[typ][id]
	delete(s.store[typ], id)
	s.mu.Unlock()
	if !found {
		abortWithError(c, http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
