package repl

import (
	"io"
	"testing"

	"github.com/spf13/afero"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/inlinemath/calc"
	"github.com/ardnew/inlinemath/log"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	session := calc.NewSession(calc.DefaultConfig())
	history := NewHistory(afero.NewMemMapFs(), "/"+baseHistory)

	return newModel(t.Context(), session, history, log.Make(io.Discard))
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEvaluate(t *testing.T) {
	session := calc.NewSession(calc.DefaultConfig())

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "5 + 5", want: "10"},
		{input: "x = 2", want: "x = 2"},
		{input: "x * 3", want: "6"},
		{input: "x == 2", want: "true"},
		{input: "y = 3; y + x", want: "[5]"},
		{input: "y", wantErr: true},
		{input: "10 / 3", want: "3.333"},
	}

	for _, tt := range tests {
		got, err := evaluate(t.Context(), session, tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("evaluate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}

		if got != tt.want {
			t.Errorf("evaluate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestModelExecute(t *testing.T) {
	m := newTestModel(t)

	m = send(m, typed("w = 4"), tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.input.Value(); got != "" {
		t.Errorf("input after enter = %q, want empty", got)
	}

	if v, ok := m.session.Lookup("w"); !ok || v != 4 {
		t.Errorf("Lookup(w) = %v, %v; want 4, true", v, ok)
	}

	if m.history.Len() != 1 || m.historyIdx != 1 {
		t.Errorf("history len %d idx %d, want 1 1", m.history.Len(), m.historyIdx)
	}
}

func TestModelModes(t *testing.T) {
	m := newTestModel(t)

	m = send(m, typed("1 + 1"), tea.KeyMsg{Type: tea.KeyEnter})
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc}, typed("vars"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeCtrl {
		t.Fatalf("mode = %v, want ctrl", m.mode)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeEval {
		t.Fatalf("mode = %v, want eval", m.mode)
	}

	// Up visits "vars" in ctrl mode, then "1 + 1" back in eval mode.
	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.mode != modeCtrl || m.input.Value() != "vars" {
		t.Errorf("after up: mode %v input %q", m.mode, m.input.Value())
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.mode != modeEval || m.input.Value() != "1 + 1" {
		t.Errorf("after up up: mode %v input %q", m.mode, m.input.Value())
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("after down down: input %q idx %d", m.input.Value(), m.historyIdx)
	}

	// Shift+Up stays in ctrl mode and stops at the oldest ctrl entry.
	if m.mode != modeCtrl {
		t.Fatalf("mode after down down = %v, want ctrl", m.mode)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftUp}, tea.KeyMsg{Type: tea.KeyShiftUp})
	if m.mode != modeCtrl || m.input.Value() != "vars" || m.historyIdx != 1 {
		t.Errorf("after shift-up: mode %v input %q idx %d", m.mode, m.input.Value(), m.historyIdx)
	}
}

func TestModelTabCycle(t *testing.T) {
	m := newTestModel(t)

	m = send(m, typed("sq"))
	if len(m.matches) < 2 {
		t.Fatalf("matches for %q = %v, want several", "sq", m.matches)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.tabActive || m.input.Value() != m.matches[0].Str {
		t.Errorf("after tab: active %v input %q", m.tabActive, m.input.Value())
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.input.Value() != m.matches[1].Str {
		t.Errorf("after tab tab: input %q, want %q", m.input.Value(), m.matches[1].Str)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyEsc})
	if m.tabActive || m.input.Value() != "sq" {
		t.Errorf("after esc: active %v input %q", m.tabActive, m.input.Value())
	}

	if m.mode != modeEval {
		t.Errorf("esc while cycling changed mode to %v", m.mode)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)

	m = send(m, typed("1"), tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.quitting || m.input.Value() != "" {
		t.Fatalf("ctrl-c with input: quitting %v input %q", m.quitting, m.input.Value())
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting || m.View() != "" {
		t.Errorf("ctrl-c on empty line: quitting %v view %q", m.quitting, m.View())
	}
}
