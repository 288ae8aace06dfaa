package botapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

const maxResponseBytes = 1 << 20

type captureKey struct{}

// capturedBody receives the raw response of one request
type capturedBody struct {
	body []byte
}

func withCapture(ctx context.Context, c *capturedBody) context.Context {
	return context.WithValue(ctx, captureKey{}, c)
}

// capturingClient keeps a copy of the response body for requests whose
// context carries a capturedBody, and hands the library an identical body
type capturingClient struct {
	client *http.Client
}

func (c *capturingClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return resp, err
	}

	captured, ok := req.Context().Value(captureKey{}).(*capturedBody)
	if !ok {
		return resp, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}

	captured.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
