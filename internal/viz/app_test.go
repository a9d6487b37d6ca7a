package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/loopviz/internal/playback"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	ctrl, err := playback.NewController(mustDefault(t))
	if err != nil {
		t.Fatal(err)
	}
	return NewApp(ctrl, AppOptions{Interval: time.Millisecond, Theme: ThemeMinimal})
}

func press(t *testing.T, m App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(App)
	}
	return m
}

func TestApp_StartAndTick(t *testing.T) {
	m := press(t, newTestApp(t), "s")
	ctrl := m.Controller()
	if !ctrl.Running() || ctrl.State().Step != 0 {
		t.Fatalf("expected running at step 0, got %+v", ctrl.State())
	}
	if !strings.Contains(m.View(), runningLabel) {
		t.Error("view should show the running label")
	}

	lease := ctrl.Lease()
	for i := 0; i < 10; i++ {
		next, cmd := m.Update(TickMsg{Lease: lease})
		m = next.(App)
		if !ctrl.Running() && cmd != nil {
			t.Errorf("tick %d: no timer should be rescheduled after the last step", i)
		}
	}
	st := ctrl.State()
	if st.Running || st.Step != st.Total-1 {
		t.Errorf("expected stopped at last step, got %+v", st)
	}
	if !strings.Contains(m.View(), "Execute Callback") {
		t.Error("final step not rendered")
	}
}

func TestApp_StartDisabledWhileRunning(t *testing.T) {
	m := press(t, newTestApp(t), "s")
	lease := m.Controller().Lease()
	next, _ := m.Update(TickMsg{Lease: lease})
	m = next.(App)

	m = press(t, m, "s")
	if m.Controller().Lease() != lease || m.Controller().State().Step != 1 {
		t.Errorf("start while running should be ignored, got %+v", m.Controller().State())
	}
}

func TestApp_StaleTickDropped(t *testing.T) {
	m := press(t, newTestApp(t), "s")
	old := m.Controller().Lease()
	m = press(t, m, "x", "s")
	if m.Controller().Lease() == old {
		t.Fatal("restart should issue a new lease")
	}

	next, cmd := m.Update(TickMsg{Lease: old})
	m = next.(App)
	if cmd != nil {
		t.Error("stale tick must not reschedule")
	}
	if m.Controller().State().Step != 0 {
		t.Errorf("stale tick advanced playback to %d", m.Controller().State().Step)
	}
}

func TestApp_SelectStopsPlayback(t *testing.T) {
	m := press(t, newTestApp(t), "s", "down", "down", "enter")
	st := m.Controller().State()
	if st.Running || st.Scenario != 2 || st.Step != 0 {
		t.Errorf("expected stopped on scenario 2 step 0, got %+v", st)
	}
	if !strings.Contains(m.View(), startLabel) {
		t.Error("start action should be available again")
	}
}

func TestApp_ManualStepping(t *testing.T) {
	m := press(t, newTestApp(t), "right", "right", "left")
	if got := m.Controller().State().Step; got != 1 {
		t.Errorf("expected step 1, got %d", got)
	}

	m = press(t, m, "s", "right")
	if got := m.Controller().State().Step; got != 0 {
		t.Errorf("stepping while running should be disabled, got %d", got)
	}
}

func TestApp_ThemeAndQuit(t *testing.T) {
	m := press(t, newTestApp(t), "t")
	if m.Theme().Name != NextTheme(ThemeMinimal).Name {
		t.Errorf("expected theme after minimal, got %s", m.Theme().Name)
	}

	m = press(t, m, "s")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.Controller().Running() {
		t.Error("quit should stop playback")
	}
}

func TestApp_Autostart(t *testing.T) {
	ctrl, err := playback.NewController(mustDefault(t))
	if err != nil {
		t.Fatal(err)
	}
	m := NewApp(ctrl, AppOptions{Autostart: true})
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("autostart should schedule a start")
	}
	next, _ := m.Update(cmd())
	if !next.(App).Controller().Running() {
		t.Error("expected playback running after autostart")
	}
}
