// Package kanon talks to the Kanon universal classification API, the
// scoring backend behind query evaluation. The client implements
// eval.Scorer; a disk cache can be layered on top with CachedScorer.
package kanon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"iql/internal/eval"
	"iql/internal/source"
	"iql/internal/template"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.isaacus.com/v1"
	// APIKeyEnv is consulted when no key is configured explicitly.
	APIKeyEnv = "ISAACUS_API_KEY"

	classifyPath = "/classifications/universal"

	// rate-limited calls retry up to maxRetries before surfacing an error
	maxRetries     = 3
	retryBaseDelay = 500 * time.Millisecond
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL string
	APIKey  string
	// Model selects the classifier; defaults to the full model.
	Model string
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client scores statements through the universal classification endpoint.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient builds a client. The API key falls back to the ISAACUS_API_KEY
// environment variable; a missing key is only an error at call time, so
// offline commands can still construct the full stack.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		http:    opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.apiKey == "" {
		c.apiKey = os.Getenv(APIKeyEnv)
	}
	if c.model == "" {
		c.model = template.ModelUniversal
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// Model reports the classifier the client scores with.
func (c *Client) Model() string { return c.model }

type classifyRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
	Model string   `json:"model"`
}

type classifyResponse struct {
	Classifications []classification `json:"classifications"`
}

type classification struct {
	Score  float64 `json:"score"`
	Chunks []chunk `json:"chunks"`
}

type chunk struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Score submits the statement as a query over the corpus and maps the top
// classification to a leaf score. Failures come back as *eval.BackendError
// so the evaluator can apply its failure policy.
func (c *Client) Score(ctx context.Context, statement, corpus string) (eval.LeafScore, error) {
	if c.apiKey == "" {
		return eval.LeafScore{}, &eval.BackendError{
			Kind: eval.BackendInvalidInput,
			Err:  fmt.Errorf("no API key: set %s or configure one", APIKeyEnv),
		}
	}

	body, err := json.Marshal(classifyRequest{
		Query: statement,
		Texts: []string{corpus},
		Model: c.model,
	})
	if err != nil {
		return eval.LeafScore{}, &eval.BackendError{Kind: eval.BackendInvalidInput, Err: err}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return eval.LeafScore{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		score, retry, err := c.doScore(ctx, body)
		if err == nil {
			return score, nil
		}
		if !retry {
			return eval.LeafScore{}, err
		}
		lastErr = err
	}
	return eval.LeafScore{}, lastErr
}

// doScore performs one request. The bool result marks retryable failures
// (rate limiting only; everything else fails fast).
func (c *Client) doScore(ctx context.Context, body []byte) (eval.LeafScore, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+classifyPath, bytes.NewReader(body))
	if err != nil {
		return eval.LeafScore{}, false, &eval.BackendError{Kind: eval.BackendInvalidInput, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return eval.LeafScore{}, false, err
		}
		return eval.LeafScore{}, false, &eval.BackendError{Kind: eval.BackendUnavailable, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeScore(resp.Body)
	case resp.StatusCode == http.StatusTooManyRequests:
		return eval.LeafScore{}, true, &eval.BackendError{
			Kind: eval.BackendRateLimited,
			Err:  apiError(resp),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return eval.LeafScore{}, false, &eval.BackendError{
			Kind: eval.BackendInvalidInput,
			Err:  apiError(resp),
		}
	default:
		return eval.LeafScore{}, false, &eval.BackendError{
			Kind: eval.BackendUnavailable,
			Err:  apiError(resp),
		}
	}
}

func decodeScore(r io.Reader) (eval.LeafScore, bool, error) {
	var cr classifyResponse
	if err := json.NewDecoder(r).Decode(&cr); err != nil {
		return eval.LeafScore{}, false, &eval.BackendError{Kind: eval.BackendUnavailable, Err: err}
	}
	if len(cr.Classifications) == 0 {
		return eval.LeafScore{}, false, &eval.BackendError{
			Kind: eval.BackendUnavailable,
			Err:  errors.New("empty classifications in response"),
		}
	}

	cl := cr.Classifications[0]
	out := eval.LeafScore{Score: cl.Score}
	for _, ch := range cl.Chunks {
		if ch.End <= ch.Start || ch.Start < 0 {
			continue
		}
		out.Spans = append(out.Spans, source.Span{
			Start: uint32(ch.Start),
			End:   uint32(ch.End),
		})
	}
	return out, false, nil
}

// apiError extracts a short message from an error response body.
func apiError(resp *http.Response) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail string `json:"detail"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error.Message != "" {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, payload.Error.Message)
		}
		if payload.Detail != "" {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, payload.Detail)
		}
	}
	return errors.New("HTTP " + strconv.Itoa(resp.StatusCode))
}
