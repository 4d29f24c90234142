package nicovideo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/handiism/vocaloid-birthday/internal/config"
	"github.com/handiism/vocaloid-birthday/internal/filter"
	nicohttp "github.com/handiism/vocaloid-birthday/internal/http"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observer.ObservedLogs) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	settings := config.DefaultSettings()
	settings.Endpoint = srv.URL + "/api/v2/snapshot/video/contents/search"
	settings.Timeout = 2 * time.Second

	core, logs := observer.New(zapcore.DebugLevel)
	b := settings.ToFilterBuilder()
	b.Now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, filter.JST) }

	return NewClient(settings, zap.New(core)).WithBuilder(b), logs
}

func TestClient_Search(t *testing.T) {
	var got url.Values
	var ua string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		ua = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{
			"meta": {"status": 200, "totalCount": 2, "id": "abc"},
			"data": [
				{"contentId": "sm1", "title": "メルト", "viewCounter": 20000000},
				{"contentId": "sm2", "title": "ワールドイズマイン", "viewCounter": 10000000}
			]
		}`))
	})

	records := client.Search(context.Background(), 12, 7, 50)
	require.Len(t, records, 2)

	song, err := records[0].Song()
	require.NoError(t, err)
	assert.Equal(t, "sm1", song.ContentID)
	assert.Equal(t, "メルト", song.Title)

	assert.Equal(t, "VOCALOID", got.Get("q"))
	assert.Equal(t, "tagsExact", got.Get("targets"))
	assert.Equal(t, "contentId,title,startTime,thumbnailUrl,viewCounter,lengthSeconds", got.Get("fields"))
	assert.Equal(t, "-viewCounter", got.Get("_sort"))
	assert.Equal(t, "50", got.Get("_limit"))
	assert.Equal(t, "vocaloid_birthday_search", got.Get("_context"))
	assert.Equal(t, "vocaloid_birthday_search/1.0 (GitHub Actions)", ua)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Get("jsonFilter")), &decoded))
	assert.Equal(t, "and", decoded["type"])
	assert.Contains(t, got.Get("jsonFilter"), `"from":"2007-12-07T00:00:00+09:00"`)
	assert.Contains(t, got.Get("jsonFilter"), `"to":"2026-12-08T00:00:00+09:00"`)
	assert.Contains(t, got.Get("jsonFilter"), `"value":"歌ってみた"`)
}

func TestClient_SearchRecordsPassThrough(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"contentId":"sm9","unknownField":[1,{"a":null}]}]}`))
	})

	records := client.Search(context.Background(), 1, 1, 50)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"contentId":"sm9","unknownField":[1,{"a":null}]}`, string(records[0]))
}

func TestClient_SearchMissingData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"status":200,"totalCount":0}}`))
	})

	records := client.Search(context.Background(), 1, 1, 50)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClient_SearchSoftFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "bad request with error meta",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"meta":{"status":400,"errorCode":"QUERY_PARSE_ERROR"}}`))
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, logs := newTestClient(t, tt.handler)

			records := client.Search(context.Background(), 5, 5, 50)
			assert.NotNil(t, records)
			assert.Empty(t, records)

			warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
			require.Len(t, warnings, 1)
			assert.Equal(t, "search failed", warnings[0].Message)
			assert.Equal(t, int64(5), warnings[0].ContextMap()["month"])
		})
	}
}

func TestClient_SearchDayStatusError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.SearchDay(context.Background(), 5, 5, 50)

	var se *nicohttp.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func TestClient_SearchInvalidDateMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	client, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":[{}]}`))
	})

	for _, d := range [][2]int{{4, 31}, {2, 30}, {13, 1}} {
		records := client.Search(context.Background(), d[0], d[1], 50)
		assert.Empty(t, records)
	}

	assert.Equal(t, int32(0), calls.Load())
	assert.Empty(t, logs.FilterLevelExact(zapcore.WarnLevel).All())

	_, err := client.SearchDay(context.Background(), 4, 31, 50)
	assert.ErrorIs(t, err, filter.ErrNoValidDates)
}

func TestClient_SearchCancelledIsNotAWarning(t *testing.T) {
	client, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{}]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := client.Search(ctx, 5, 5, 50)
	assert.Empty(t, records)

	assert.Empty(t, logs.FilterLevelExact(zapcore.WarnLevel).All())
	cancelled := logs.FilterMessage("search cancelled").All()
	require.Len(t, cancelled, 1)
	assert.Equal(t, zapcore.DebugLevel, cancelled[0].Level)
}

func TestClient_Query(t *testing.T) {
	client := NewClient(config.DefaultSettings(), nil)

	params, err := client.Query(filter.Equal{Field: "tags", Value: "VOCALOID"}, 10)
	require.NoError(t, err)

	assert.Equal(t, "10", params.Get("_limit"))
	assert.Equal(t, `{"type":"equal","field":"tags","value":"VOCALOID"}`, params.Get("jsonFilter"))
}
