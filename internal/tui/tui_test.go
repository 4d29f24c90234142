package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/vocaloid-birthday/internal/collect"
	"github.com/handiism/vocaloid-birthday/internal/config"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestNewModel(t *testing.T) {
	m := NewModel(config.DefaultSettings(), nil)

	assert.Equal(t, StateReady, m.state)
	assert.Equal(t, 366, m.daysTotal)
	assert.Contains(t, m.View(), "Ready to search 366 days.")
	assert.Contains(t, m.View(), "enter: start")
}

func TestToggleVerbose(t *testing.T) {
	m := NewModel(config.DefaultSettings(), nil)

	m = update(t, m, runes("v"))
	assert.True(t, m.verbose)
	assert.Contains(t, m.View(), "[×]")

	m = update(t, m, runes("v"))
	assert.False(t, m.verbose)
}

func TestEscQuitsWhenReady(t *testing.T) {
	m := NewModel(config.DefaultSettings(), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestProgressLogs(t *testing.T) {
	m := NewModel(config.DefaultSettings(), nil)
	m.state = StateCollecting

	m = update(t, m, ProgressMsg{Event: collect.ProgressEvent{Message: "02/29: no songs", Level: collect.LevelVerbose}})
	assert.Empty(t, m.logs)

	for i := 0; i < maxLogs+5; i++ {
		m = update(t, m, ProgressMsg{Event: collect.ProgressEvent{Message: "01/01: collected 50 songs", Level: collect.LevelSuccess}})
	}
	assert.Len(t, m.logs, maxLogs)
	assert.Contains(t, m.View(), "✓ 01/01: collected 50 songs")
	assert.Contains(t, m.View(), "esc: cancel")
}

func TestProgressLogsShowFailedDays(t *testing.T) {
	m := NewModel(config.DefaultSettings(), nil)
	m.state = StateCollecting

	m = update(t, m, ProgressMsg{Event: collect.ProgressEvent{Message: "01/01: API error (status 500)", Level: collect.LevelWarning}})

	require.Len(t, m.logs, 1)
	assert.Contains(t, m.View(), "! 01/01: API error (status 500)")
}

func TestCollectDone(t *testing.T) {
	m := NewModel(config.DefaultSettings(), nil)
	m.state = StateCollecting

	done := update(t, m, CollectDoneMsg{Path: "data/vocaloid_birthday_songs.json", Days: 366, Songs: 18300})
	assert.Equal(t, StateComplete, done.state)
	view := done.View()
	assert.Contains(t, view, "Collection Complete!")
	assert.Contains(t, view, "Songs: 18300")
	assert.Contains(t, view, "data/vocaloid_birthday_songs.json")

	failed := update(t, m, CollectDoneMsg{Err: errCancelled})
	assert.Equal(t, StateError, failed.state)
	assert.True(t, errors.Is(failed.err, errCancelled))
	assert.Contains(t, failed.View(), "nothing was saved")

	restarted := update(t, failed, runes("r"))
	assert.Equal(t, StateReady, restarted.state)
	assert.Nil(t, restarted.err)
	assert.NoError(t, restarted.ctx.Err())
}
