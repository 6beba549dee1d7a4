package tracking

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/config"
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
)

const (
	commandRegistrations = "registrations"
	commandCommissions   = "commissions"
	commandMediaReport   = "mediareport"

	notAuthorizedMarker = "Not Authorized"
	maxErrorBody        = 512
)

// Client talks to the affiliate tracking API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	affiliateID string
	apiKey      string
	location    *time.Location
	logger      *slog.Logger
}

func NewClient(cfg config.TrackingAPI, location *time.Location, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.URL,
		affiliateID: cfg.AffiliateID,
		apiKey:      cfg.APIKey,
		location:    location,
		logger:      logger.With("component", "tracking_client"),
	}
}

func (c *Client) FetchRegistrations(ctx context.Context, day time.Time) ([]domain.Registration, error) {
	body, err := c.get(ctx, commandRegistrations, day, url.Values{"json": {"1"}})
	if err != nil || body == nil {
		return nil, err
	}
	registrations, err := parseRegistrations(body, c.location)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("registrations fetched", "day", day.Format(time.DateOnly), "count", len(registrations))
	return registrations, nil
}

func (c *Client) FetchCommissions(ctx context.Context, day time.Time) ([]domain.ProviderCommission, error) {
	body, err := c.get(ctx, commandCommissions, day, nil)
	if err != nil || body == nil {
		return nil, err
	}
	return parseCommissions(body)
}

func (c *Client) FetchMediaReport(ctx context.Context, day time.Time) ([]domain.MediaStat, error) {
	body, err := c.get(ctx, commandMediaReport, day, url.Values{"TrackingCode": {"1"}})
	if err != nil || body == nil {
		return nil, err
	}
	return parseMediaReport(body, domain.StartOfDay(day))
}

// get returns a nil body when the provider answers with nothing, which means no data.
func (c *Client) get(ctx context.Context, command string, day time.Time, extra url.Values) ([]byte, error) {
	endpoint, err := c.endpoint(command, day, extra)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("affiliateid", c.affiliateID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTrackingAPIUnavailable, command, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response: %v", domain.ErrTrackingAPIUnavailable, command, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", domain.ErrTrackingAPIUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s returned status %d: %s", domain.ErrTrackingAPIUnavailable, command, resp.StatusCode, truncate(body))
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		c.logger.Info("tracking api returned an empty response", "command", command)
		return nil, nil
	}
	if bytes.Contains(body, []byte(notAuthorizedMarker)) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTrackingAPIUnauthorized, truncate(body))
	}
	return body, nil
}

func (c *Client) endpoint(command string, day time.Time, extra url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid tracking api url: %w", err)
	}
	date := day.In(c.location).Format(time.DateOnly)
	query := u.Query()
	query.Set("command", command)
	query.Set("fromdate", date)
	query.Set("todate", date)
	for key, values := range extra {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
