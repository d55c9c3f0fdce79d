package surveysim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// apiError is the error body the service writes.
type apiError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Message)
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request and decodes the JSON body into out.
func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil {
			apiErr.Message = string(data)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

// submitResponses posts every questionnaire using a bounded worker pool and
// reports which ones the service accepted.
func submitResponses(ctx context.Context, config *Config, client *HTTPClient, clientID string, qs []service.ResponseInput, stats *Stats) ([]bool, error) {
	log := logger.Named("surveysim")
	log.Info(ctx, "submitting questionnaires",
		logger.Int("count", len(qs)),
		logger.Int("workers", config.Workers),
	)

	path := "/clients/" + clientID + "/responses"
	ok := make([]bool, len(qs))

	var (
		submitted  atomic.Int64
		successful atomic.Int64
		failed     atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))

	for i := range qs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			err := client.Post(gctx, path, qs[i], nil)
			n := submitted.Add(1)
			if err != nil {
				failed.Add(1)
				if config.Verbose {
					log.Warn(gctx, "submission failed", logger.Int("index", i), logger.Error(err))
				}
			} else {
				ok[i] = true
				successful.Add(1)
			}
			if n%progressEvery == 0 {
				log.Info(gctx, "progress",
					logger.Int("submitted", int(n)),
					logger.Int("accepted", int(successful.Load())),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.ResponsesSubmitted = int(submitted.Load())
	stats.ResponsesAccepted = int(successful.Load())
	stats.ResponsesFailed = int(failed.Load())

	if err := ctx.Err(); err != nil {
		return ok, fmt.Errorf("submission interrupted: %w", err)
	}
	return ok, nil
}
