// Package resilience retries transient failures with exponential backoff
// and jitter.
//
//	resp, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() (*Response, error) {
//	    return send(ctx, req)
//	})
//
// RetryIf decides which errors are transient. Context cancellation always
// stops the loop.
package resilience
