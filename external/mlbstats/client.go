package mlbstats

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/mlb-schedule/internal/domain/schedule"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/platform/resilience"
	"github.com/riskibarqy/mlb-schedule/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL    = "https://statsapi.mlb.com/api"
	defaultWindowDays = 31
	defaultMaxWorkers = 4
	schedulePath      = "/v1/schedule/games/"
	sportIDMLB        = "1"
	hydrateFields     = "probablePitcher"
	maxResponseBytes  = 16 << 20
)

var errMLBTransient = crerr.New("mlb stats transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	WindowDays     int
	MaxWorkers     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the MLB Stats API schedule endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	windowDays int
	maxWorkers int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]byte]
	backoff    func(attempt int) time.Duration
}

var _ schedule.Provider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	windowDays := cfg.WindowDays
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: max(cfg.MaxRetries, 0),
		windowDays: windowDays,
		maxWorkers: maxWorkers,
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		backoff:    linearBackoff,
	}
}

// FetchSchedule returns the days between start and end inclusive, in
// provider order. Ranges longer than the window size are fetched window by
// window on a bounded pool and reassembled in date order.
func (c *Client) FetchSchedule(ctx context.Context, start, end time.Time) ([]schedule.SourceDay, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", usecase.ErrInvalidInput, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	windows := splitWindows(start, end, c.windowDays)
	if len(windows) == 1 {
		return c.fetchWindow(ctx, windows[0])
	}

	results := make([][]schedule.SourceDay, len(windows))
	errs := make([]error, len(windows))

	pool, err := ants.NewPool(min(c.maxWorkers, len(windows)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, w := range windows {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results[i], errs[i] = c.fetchWindow(ctx, w)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit schedule window to worker pool: %w", err)
		}
	}
	workers.Wait()

	total := 0
	for i := range windows {
		if errs[i] != nil {
			return nil, errs[i]
		}
		total += len(results[i])
	}

	out := make([]schedule.SourceDay, 0, total)
	for _, days := range results {
		out = append(out, days...)
	}
	return out, nil
}

func (c *Client) fetchWindow(ctx context.Context, w window) ([]schedule.SourceDay, error) {
	query := url.Values{}
	query.Set("sportId", sportIDMLB)
	query.Set("startDate", w.start.Format(time.DateOnly))
	query.Set("endDate", w.end.Format(time.DateOnly))
	query.Set("hydrate", hydrateFields)

	var envelope scheduleEnvelope
	if err := c.doJSON(ctx, schedulePath, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch schedule start=%s end=%s: %w", w.start.Format(time.DateOnly), w.end.Format(time.DateOnly), err)
	}

	return envelope.toDomain(), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "mlb stats circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: schedule provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, shared := c.flight.Do(fullURL, func() ([]byte, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(reqErr, isTransient)
		return raw, reqErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", usecase.ErrUpstream, err)
	}
	if shared {
		c.logger.DebugContext(ctx, "mlb stats request shared with in-flight call", "url", fullURL)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %w", usecase.ErrUpstream, crerr.Wrap(err, "decode schedule payload"))
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %v", errMLBTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errMLBTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errMLBTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "mlb stats request failed", "url", fullURL, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

type window struct {
	start time.Time
	end   time.Time
}

// splitWindows cuts [start, end] into consecutive inclusive windows of at most size days.
func splitWindows(start, end time.Time, size int) []window {
	start = truncateDay(start)
	end = truncateDay(end)
	if size <= 0 {
		return []window{{start: start, end: end}}
	}

	out := make([]window, 0, 1)
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, size) {
		last := cursor.AddDate(0, 0, size-1)
		if last.After(end) {
			last = end
		}
		out = append(out, window{start: cursor, end: last})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isTransient(err error) bool {
	return stderrors.Is(err, errMLBTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func linearBackoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * time.Second
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
