package collect

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/handiism/vocaloid-birthday/internal/config"
	"github.com/handiism/vocaloid-birthday/internal/http"
	"github.com/handiism/vocaloid-birthday/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a collection progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Searcher returns the records for one calendar day.
//
// A returned error marks the day as failed. The collector records the day
// as empty and moves on.
type Searcher interface {
	SearchDay(ctx context.Context, month, day, limit int) ([]model.Record, error)
}

// Collector walks every calendar day and gathers search results.
type Collector struct {
	settings *config.Settings
	searcher Searcher
	limiter  *rate.Limiter
	logger   *zap.Logger

	daysTotal int32
	daysDone  int32
	songs     int64

	onProgress func(ProgressEvent)
}

// NewCollector creates a Collector.
//
// Requests are spaced at least settings.RequestDelay apart; a zero delay
// disables pacing. A nil logger disables logging.
func NewCollector(settings *config.Settings, searcher Searcher, logger *zap.Logger, onProgress func(ProgressEvent)) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if settings.RequestDelay > 0 {
		limit = rate.Every(settings.RequestDelay)
	}

	return &Collector{
		settings:   settings,
		searcher:   searcher,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		daysTotal:  int32(len(ValidDays(settings.ValidationYear))),
		onProgress: onProgress,
	}
}

// ValidDays returns every day key that exists in year, in calendar order.
//
// With a leap year this is all 366 days including February 29.
func ValidDays(year int) []model.DayKey {
	var keys []model.DayKey
	for month := 1; month <= 12; month++ {
		for day := 1; day <= 31; day++ {
			if model.IsValidDate(year, month, day) {
				keys = append(keys, model.NewDayKey(month, day))
			}
		}
	}
	return keys
}

// Run searches every valid day and returns the non-empty results.
//
// Days are validated against settings.ValidationYear, so February 29 is
// searched when that year is a leap year and impossible dates (April 31,
// February 30) are skipped without a request. A failed search is reported as
// a warning and the day counts as empty. If ctx is cancelled Run stops and
// returns ctx.Err(); the partial mapping is returned alongside but should not
// be persisted.
func (c *Collector) Run(ctx context.Context) (model.ResultMapping, error) {
	atomic.StoreInt32(&c.daysDone, 0)
	atomic.StoreInt64(&c.songs, 0)

	all := make(model.ResultMapping)
	started := time.Now()
	failures := 0

	c.progress(ProgressEvent{Message: "Starting VOCALOID birthday song collection", Level: LevelInfo})
	c.progress(ProgressEvent{Message: fmt.Sprintf("Started at %s", started.Format("2006-01-02 15:04:05")), Level: LevelInfo})

	for month := 1; month <= 12; month++ {
		c.progress(ProgressEvent{Message: fmt.Sprintf("Collecting month %d...", month), Level: LevelInfo})

		monthDays, monthSongs := 0, 0
		for day := 1; day <= 31; day++ {
			if !model.IsValidDate(c.settings.ValidationYear, month, day) {
				continue
			}

			if err := c.limiter.Wait(ctx); err != nil {
				return all, c.interrupted(ctx, err)
			}

			records, err := c.searcher.SearchDay(ctx, month, day, c.settings.LimitPerDay)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return all, c.interrupted(ctx, ctxErr)
			}
			atomic.AddInt32(&c.daysDone, 1)

			if err != nil {
				failures++
				c.failed(month, day, err)
				continue
			}

			if len(records) == 0 {
				c.progress(ProgressEvent{Message: fmt.Sprintf("%02d/%02d: no songs", month, day), Level: LevelVerbose})
				continue
			}

			all[model.NewDayKey(month, day)] = records
			monthDays++
			monthSongs += len(records)
			atomic.AddInt64(&c.songs, int64(len(records)))
			c.progress(ProgressEvent{Message: fmt.Sprintf("%02d/%02d: collected %d songs", month, day, len(records)), Level: LevelSuccess})
		}

		c.progress(ProgressEvent{Message: fmt.Sprintf("Month %d done: %d days, %d songs", month, monthDays, monthSongs), Level: LevelInfo})
	}

	c.logger.Info("collection finished",
		zap.Int("days", all.Days()),
		zap.Int("songs", all.Songs()),
		zap.Int("failed", failures),
		zap.Duration("elapsed", time.Since(started)))
	if failures > 0 {
		c.progress(ProgressEvent{Message: fmt.Sprintf("%d days failed and were skipped", failures), Level: LevelWarning})
	}
	c.progress(ProgressEvent{Message: fmt.Sprintf("Collection complete: %d days, %d songs", all.Days(), all.Songs()), Level: LevelSuccess})

	return all, nil
}

// Progress returns the number of days searched so far, the number of days a
// full run searches, and the songs collected so far.
func (c *Collector) Progress() (done, total int, songs int64) {
	return int(atomic.LoadInt32(&c.daysDone)), int(c.daysTotal), atomic.LoadInt64(&c.songs)
}

func (c *Collector) interrupted(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	done, total, _ := c.Progress()
	c.logger.Warn("collection interrupted", zap.Int("done", done), zap.Int("total", total), zap.Error(err))
	return err
}

// failed logs a day whose search errored and reports it as a warning.
func (c *Collector) failed(month, day int, err error) {
	fields := []zap.Field{zap.Int("month", month), zap.Int("day", day), zap.Error(err)}

	msg := fmt.Sprintf("%02d/%02d: search failed: %v", month, day, err)
	var se *http.StatusError
	if errors.As(err, &se) {
		fields = append(fields, zap.Int("status", se.StatusCode))
		msg = fmt.Sprintf("%02d/%02d: API error (status %d)", month, day, se.StatusCode)
	}

	c.logger.Warn("search failed", fields...)
	c.progress(ProgressEvent{Message: msg, Level: LevelWarning})
}

func (c *Collector) progress(event ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(event)
	}
}
