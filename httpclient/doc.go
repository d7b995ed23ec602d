// Package httpclient is the request transport behind the resource adapter.
//
// It performs a single HTTP exchange for a fully built URL and classifies
// the outcome. Transient failures are retried for idempotent methods only;
// POST and PATCH are never resent. It knows nothing about namespaces,
// resource types or credentials: URL building and authorization happen
// before Do is called.
//
//	c, err := httpclient.New(httpclient.Config{Timeout: 10 * time.Second, RetryAttempts: 3})
//	resp, err := c.Do(ctx, httpclient.Request{
//	    Method:  http.MethodGet,
//	    URL:     "https://api.example.com/v1/users/7",
//	    Headers: map[string]string{"Authorization": "Bearer abc"},
//	})
//
// Non-2xx responses are returned together with a classified *Error so the
// caller can both inspect the status and branch on the error kind.
// Network failures carry no response. W3C trace context from ctx is
// injected into every request.
package httpclient
