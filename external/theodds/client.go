package theodds

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/platform/resilience"
	"github.com/riskibarqy/mlb-schedule/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL   = "https://api.the-odds-api.com"
	defaultSport     = "baseball_mlb"
	defaultRegions   = "us"
	oddsFormat       = "american"
	maxResponseBytes = 8 << 20
	redacted         = "REDACTED"
)

var apiKeyParamRegex = regexp.MustCompile(`apiKey=[^&\s"']+`)
var errOddsTransient = crerr.New("odds api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Sport          string
	Regions        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads upcoming moneyline odds from The Odds API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sport      string
	regions    string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]byte]
	backoff    func(attempt int) time.Duration
}

var _ odds.Provider = (*Client)(nil)

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

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		sport:      firstNonEmpty(cfg.Sport, defaultSport),
		regions:    firstNonEmpty(cfg.Regions, defaultRegions),
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		backoff:    func(attempt int) time.Duration { return time.Duration(attempt+1) * time.Second },
	}
}

// FetchOdds returns every upcoming event for the configured sport in provider order.
func (c *Client) FetchOdds(ctx context.Context) ([]odds.Record, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: odds api key is not configured", usecase.ErrDependencyUnavailable)
	}

	query := url.Values{}
	query.Set("regions", c.regions)
	query.Set("oddsFormat", oddsFormat)
	query.Set("apiKey", c.apiKey)

	path := "/v4/sports/" + url.PathEscape(c.sport) + "/odds/"

	var events []eventItem
	if err := c.doJSON(ctx, path, query, &events); err != nil {
		return nil, fmt.Errorf("fetch odds sport=%s: %w", c.sport, err)
	}

	out := make([]odds.Record, 0, len(events))
	for _, event := range events {
		out = append(out, event.toDomain())
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "odds api circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: odds provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path + "?" + query.Encode()

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(reqErr, isTransient)
		return raw, reqErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", usecase.ErrUpstream, err)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %w", usecase.ErrUpstream, crerr.Wrap(err, "decode odds payload"))
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	preview := buildRequestPreview(http.MethodGet, redactURL(fullURL))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "create odds request")
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errOddsTransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errOddsTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				c.logger.DebugContext(ctx, "odds api request completed",
					"request", preview,
					"requests_remaining", resp.Header.Get("x-requests-remaining"),
					"requests_used", resp.Header.Get("x-requests-used"),
				)
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errOddsTransient, resp.StatusCode, c.sanitize(abbreviateBody(raw)))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, c.sanitize(abbreviateBody(raw)))
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
	c.logger.WarnContext(ctx, "odds api request failed", "request", preview, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, redacted)
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apiKey="+redacted)
}

func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apiKeyParamRegex.ReplaceAllString(rawURL, "apiKey="+redacted)
	}
	query := parsed.Query()
	if query.Has("apiKey") {
		query.Set("apiKey", redacted)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

// buildRequestPreview renders a curl line that is safe to log.
func buildRequestPreview(method, redactedURL string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X ")
	_, _ = buf.WriteString(method)
	_, _ = buf.WriteString(" -H 'accept: application/json' '")
	_, _ = buf.WriteString(strings.ReplaceAll(redactedURL, "'", `'"'"'`))
	_ = buf.WriteByte('\'')

	return buf.String()
}

func isTransient(err error) bool {
	return stderrors.Is(err, errOddsTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
