package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PATCH, DELETE, ...).
	Method string
	// URL is the absolute request URL.
	URL string
	// Headers are request-specific headers (override client defaults).
	Headers map[string]string
	// Query are URL query parameters merged into URL.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, json.RawMessage,
	// string, or any value that will be JSON-encoded.
	Body any
}

// SetHeader sets a request header, allocating the map if needed.
func (r *Request) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
