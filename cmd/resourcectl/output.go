package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/apiadapter/adapter"
	apperrors "github.com/kbukum/apiadapter/errors"
	"github.com/kbukum/apiadapter/httpclient"
)

// print writes the document body, or the status when there is none, and
// passes err through.
func (a *app) print(doc *adapter.Document, err error) error {
	if err != nil {
		return err
	}
	if doc == nil {
		return errNoDocument
	}
	if len(doc.Body) == 0 {
		_, err = fmt.Fprintf(a.out, "HTTP %d\n", doc.Status)
		return err
	}
	if a.output == outputRaw {
		_, err = fmt.Fprintln(a.out, string(doc.Body))
		return err
	}
	var buf bytes.Buffer
	if json.Indent(&buf, doc.Body, "", "  ") != nil {
		_, err = fmt.Fprintln(a.out, string(doc.Body))
		return err
	}
	_, err = fmt.Fprintln(a.out, buf.String())
	return err
}

// describeError renders an error for the terminal.
func describeError(err error) string {
	var transportErr *httpclient.Error
	switch {
	case apperrors.IsAuthorizationFailure(err):
		return fmt.Sprintf("authorization failed: %v", err)
	case apperrors.IsConfiguration(err):
		return fmt.Sprintf("configuration error: %v", err)
	case errors.As(err, &transportErr) && transportErr.IsNetwork():
		return fmt.Sprintf("transport error: %v", transportErr.AppError())
	case errors.As(err, &transportErr):
		return fmt.Sprintf("request failed: %v", err)
	default:
		return fmt.Sprintf("error: %v", err)
	}
}
