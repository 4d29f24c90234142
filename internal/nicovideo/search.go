package nicovideo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/vocaloid-birthday/internal/config"
	"github.com/handiism/vocaloid-birthday/internal/filter"
	"github.com/handiism/vocaloid-birthday/internal/http"
	"github.com/handiism/vocaloid-birthday/internal/model"
	"github.com/handiism/vocaloid-birthday/internal/nicovideo/dto"
)

// Client searches the niconico snapshot API for songs uploaded on a given
// month and day of any year.
//
// Example usage:
//
//	client := NewClient(settings, logger)
//	records := client.Search(ctx, 12, 25, 50)
//	fmt.Printf("%d songs\n", len(records))
type Client struct {
	settings   *config.Settings
	httpClient *http.Client
	builder    *filter.Builder
	logger     *zap.Logger
}

// NewClient creates a search client from settings.
//
// A nil logger disables logging.
func NewClient(settings *config.Settings, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		settings:   settings,
		httpClient: http.NewClient(settings.UserAgent, settings.Timeout),
		builder:    settings.ToFilterBuilder(),
		logger:     logger,
	}
}

// WithBuilder replaces the filter builder. Tests use it to pin the clock.
func (c *Client) WithBuilder(b *filter.Builder) *Client {
	c.builder = b
	return c
}

// Search returns up to limit records for month/day, most viewed first.
//
// Search never fails: every error reduces to an empty result and is logged as
// a warning, except cancellation, which is logged at debug level. Impossible
// dates return an empty result without a request.
func (c *Client) Search(ctx context.Context, month, day, limit int) []model.Record {
	records, err := c.SearchDay(ctx, month, day, limit)
	if err != nil {
		fields := []zap.Field{zap.Int("month", month), zap.Int("day", day), zap.Error(err)}
		var se *http.StatusError
		if errors.As(err, &se) {
			fields = append(fields, zap.Int("status", se.StatusCode))
		}
		switch {
		case errors.Is(err, filter.ErrNoValidDates):
			c.logger.Debug("no valid date filter", fields...)
		case errors.Is(err, context.Canceled):
			c.logger.Debug("search cancelled", fields...)
		default:
			c.logger.Warn("search failed", fields...)
		}
		return []model.Record{}
	}
	return records
}

// SearchDay is Search with the failure cause exposed.
//
// Returns filter.ErrNoValidDates for impossible dates, *http.StatusError for
// non-200 responses, and transport or decode errors otherwise.
func (c *Client) SearchDay(ctx context.Context, month, day, limit int) ([]model.Record, error) {
	expr, err := c.builder.Build(month, day)
	if err != nil {
		return nil, err
	}

	params, err := c.Query(expr, limit)
	if err != nil {
		return nil, err
	}

	body, err := c.httpClient.Get(ctx, c.settings.Endpoint, params)
	if err != nil {
		return nil, err
	}

	var resp dto.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	c.logger.Debug("search ok",
		zap.Int("month", month),
		zap.Int("day", day),
		zap.Int("returned", len(resp.Data)),
		zap.Int("total", resp.TotalCount()))

	return resp.Records(), nil
}

// Query builds the request parameters for a filter and result limit.
func (c *Client) Query(expr filter.Expression, limit int) (url.Values, error) {
	jsonFilter, err := filter.Encode(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}

	return url.Values{
		"q":          {c.settings.Query},
		"targets":    {c.settings.Targets},
		"fields":     {strings.Join(c.settings.Fields, ",")},
		"jsonFilter": {jsonFilter},
		"_sort":      {c.settings.Sort},
		"_limit":     {strconv.Itoa(limit)},
		"_context":   {c.settings.Context},
	}, nil
}
