package stormglass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ngmaloney/surf-lamp/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Stormglass v2 API root
	DefaultBaseURL = "https://api.stormglass.io/v2"

	// DefaultTimeout bounds a whole request, body included
	DefaultTimeout = 5 * time.Second

	// maxErrorBody caps how much of an error response ends up in HTTPError
	maxErrorBody = 512
)

// Client implements Fetcher using the Stormglass point endpoint
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	recorder   PullRecorder
	logger     *zap.Logger
}

// NewClient creates a new Stormglass client authenticated with apiKey
func NewClient(apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger.Named("stormglass"),
	}
}

// SetBaseURL points the client at another API root
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SetTimeout changes the per-request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetRecorder makes the client append every successful raw response to r
func (c *Client) SetRecorder(r PullRecorder) {
	c.recorder = r
}

// FetchForecast retrieves the hourly series for q
func (c *Client) FetchForecast(ctx context.Context, q Query) (*Response, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	params.Add("lng", strconv.FormatFloat(q.Lng, 'f', -1, 64))
	params.Add("params", strings.Join(q.Params, ","))
	params.Add("start", strconv.FormatInt(q.Start.Unix(), 10))
	params.Add("end", strconv.FormatInt(q.End.Unix(), 10))

	requestURL := fmt.Sprintf("%s/weather/point?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching forecast",
		zap.Float64("lat", q.Lat),
		zap.Float64("lng", q.Lng),
		zap.Time("start", q.Start),
		zap.Time("end", q.End),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	var forecastResp Response
	if err := json.Unmarshal(body, &forecastResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info("forecast fetched",
		zap.Int("hours", len(forecastResp.Hours)),
		zap.Int("request_count", forecastResp.Meta.RequestCount),
		zap.Int("daily_quota", forecastResp.Meta.DailyQuota),
	)

	c.record(ctx, q, body, forecastResp.Meta)

	return &forecastResp, nil
}

// record appends the raw body to the pull log. Failures are logged only.
func (c *Client) record(ctx context.Context, q Query, body []byte, meta Meta) {
	if c.recorder == nil {
		return
	}

	pull := models.Pull{
		ID:           uuid.New(),
		Start:        q.Start,
		End:          q.End,
		FetchedAt:    time.Now().UTC(),
		Body:         body,
		Cost:         meta.Cost,
		RequestCount: meta.RequestCount,
		DailyQuota:   meta.DailyQuota,
	}
	if err := c.recorder.RecordPull(ctx, pull); err != nil {
		c.logger.Warn("failed to record pull", zap.Error(err))
	}
}

// classifyTransportError maps a transport failure onto ErrTimeout or ErrConnection
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrConnection, err)
}

var _ Fetcher = (*Client)(nil)
