package status

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/vaultchat/pkg/process"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func sizedModel() StatusModel {
	lipgloss.SetColorProfile(termenv.Ascii)
	m, _ := NewStatusModel().Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestStatusBarHiddenWithoutWidth(t *testing.T) {
	assert.Empty(t, NewStatusModel().View())
}

func TestStatusBarIndicator(t *testing.T) {
	m, _ := sizedModel().Update(IndicatorMsg{Text: "✅ Ready"})

	view := m.View()
	assert.Contains(t, view, "✅ Ready")
	assert.NotContains(t, view, "Idle")
	assert.Equal(t, "✅ Ready", m.Text())
}

func TestStatusBarPhases(t *testing.T) {
	tests := []struct {
		name  string
		state process.State
		want  string
	}{
		{"sending", process.StateAwaiting, "↑ Sending"},
		{"thinking", process.StateThinking, "🤔 Thinking"},
		{"indexing", process.StateIndexing, "🔍 Indexing"},
		{"streaming", process.StateStreaming, "↓ Receiving"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := sizedModel().Update(PhaseMsg{State: tt.state})
			assert.NotNil(t, cmd, "entering a busy phase starts the spinner")
			assert.Contains(t, m.View(), tt.want)
			assert.Equal(t, tt.state, m.Phase())
		})
	}
}

func TestStatusBarTimer(t *testing.T) {
	m, _ := sizedModel().Update(PhaseMsg{State: process.StateThinking})
	m.startTime = time.Now().Add(-65 * time.Second)

	m, cmd := m.Update(TickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "01:05")

	m, _ = m.Update(PhaseMsg{State: process.StateIdle})
	assert.NotContains(t, m.View(), "01:05")

	_, cmd = m.Update(TickMsg(time.Now()))
	assert.Nil(t, cmd, "ticks stop once idle")
}

func TestStatusBarStaysBusyAcrossPhases(t *testing.T) {
	m, _ := sizedModel().Update(PhaseMsg{State: process.StateAwaiting})
	m, cmd := m.Update(PhaseMsg{State: process.StateThinking})
	assert.Nil(t, cmd, "the spinner is already running")
	assert.Contains(t, m.View(), "Thinking")
}
