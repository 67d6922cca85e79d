package widget

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeHost struct {
	result   map[string]any
	err      error
	calls    int
	lastArgs map[string]any

	metadata    map[string]any
	widgetState map[string]any
}

func (f *fakeHost) CallTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	f.calls++
	f.lastArgs = args
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeHost) ToolOutput() any                      { return nil }
func (f *fakeHost) ToolOutputs() []any                   { return nil }
func (f *fakeHost) ToolResponseMetadata() map[string]any { return f.metadata }
func (f *fakeHost) WidgetState() map[string]any          { return f.widgetState }

func readyModel(t *testing.T, host Host) Model {
	t.Helper()
	logger, _ := test.NewNullLogger()
	m := NewModel(func(ctx context.Context) (Host, error) { return host, nil }, logger)
	m.state = stateReady
	m.host = host
	m.width = 80
	m.height = 24
	return m
}

func pressEnter(m Model) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestHostWaitRetriesThenGivesUp(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewModel(nil, logger, WithHostWait(3, 1))

	failure := hostCheckMsg{err: errors.New("connection refused")}

	next, cmd := m.Update(failure)
	m = next.(Model)
	if m.state != stateWaitingHost || cmd == nil {
		t.Fatalf("expected retry after first failure, state=%d cmd=%v", m.state, cmd)
	}

	next, _ = m.Update(failure)
	m = next.(Model)
	next, cmd = m.Update(failure)
	m = next.(Model)

	if m.state != stateGivenUp {
		t.Fatalf("expected give-up after budget, state=%d", m.state)
	}
	if cmd != nil {
		t.Fatal("no more retries after giving up")
	}
}

func TestHostReadyTriggersBootstrapRender(t *testing.T) {
	host := &fakeHost{
		metadata: map[string]any{"columnsFull": boardColumns()},
	}
	logger, _ := test.NewNullLogger()
	m := NewModel(func(ctx context.Context) (Host, error) { return host, nil }, logger)
	m.width = 80

	next, _ := m.Update(hostCheckMsg{host: host})
	m = next.(Model)

	if m.state != stateReady {
		t.Fatalf("expected ready state, got %d", m.state)
	}
	if !m.hasSnapshot || m.snapshot.Empty() {
		t.Fatalf("expected bootstrap render from metadata, got %+v", m.snapshot)
	}
}

func TestRenderDefersUntilSurfaceSized(t *testing.T) {
	host := &fakeHost{metadata: map[string]any{"columnsFull": boardColumns()}}
	logger, _ := test.NewNullLogger()
	m := NewModel(func(ctx context.Context) (Host, error) { return host, nil }, logger)

	next, cmd := m.Update(hostCheckMsg{host: host})
	m = next.(Model)

	if m.hasSnapshot {
		t.Fatal("render must defer while the surface is unsized")
	}
	if cmd == nil {
		t.Fatal("expected a retry command")
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	if !m.hasSnapshot || m.snapshot.Empty() {
		t.Fatalf("deferred snapshot not applied after sizing: %+v", m.snapshot)
	}
}

func TestSubmitRejectsBlankFields(t *testing.T) {
	host := &fakeHost{}
	m := readyModel(t, host)
	m.titleInput.SetValue("   ")
	m.assigneeInput.SetValue("Rae")

	m, _ = pressEnter(m)

	if host.calls != 0 {
		t.Fatalf("tool invoked despite validation failure: %d calls", host.calls)
	}
	if m.message != "Please provide both a task and an assignee." || m.kind != messageError {
		t.Fatalf("unexpected message: %q (%s)", m.message, m.kind)
	}
	if m.pending {
		t.Fatal("state must remain idle")
	}
}

func TestSubmitWithoutHostShowsMessage(t *testing.T) {
	m := readyModel(t, nil)
	m.host = nil
	m.titleInput.SetValue("Ship v2")
	m.assigneeInput.SetValue("Rae")

	m, _ = pressEnter(m)

	if m.message != "Write access is unavailable in this client." {
		t.Fatalf("unexpected message: %q", m.message)
	}
}

func TestSubmitInFlightGuard(t *testing.T) {
	host := &fakeHost{}
	m := readyModel(t, host)
	m.titleInput.SetValue("Ship v2")
	m.assigneeInput.SetValue("Rae")
	m.pending = true

	_, cmd := pressEnter(m)

	if cmd != nil {
		t.Fatal("second submission while pending must be a no-op")
	}
	if host.calls != 0 {
		t.Fatalf("tool invoked while pending: %d calls", host.calls)
	}
}

func TestSubmitSuccessResetsFormAndRenders(t *testing.T) {
	host := &fakeHost{
		result: map[string]any{
			"structuredContent": map[string]any{"columns": boardColumns()},
		},
	}
	m := readyModel(t, host)
	m.titleInput.SetValue("Ship v2")
	m.assigneeInput.SetValue("Rae")

	m, cmd := pressEnter(m)
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	if !m.pending || m.message != "Adding task…" {
		t.Fatalf("unexpected submitting state: pending=%v message=%q", m.pending, m.message)
	}

	msg := cmd()
	done, ok := msg.(submitDoneMsg)
	if !ok {
		t.Fatalf("unexpected msg %T", msg)
	}
	if host.calls != 1 {
		t.Fatalf("expected one tool call, got %d", host.calls)
	}
	newTask := host.lastArgs["newTask"].(map[string]any)
	if newTask["title"] != "Ship v2" || newTask["status"] != "todo" {
		t.Fatalf("unexpected arguments: %+v", newTask)
	}

	next, _ := m.Update(done)
	m = next.(Model)

	if m.pending {
		t.Fatal("pending flag not released")
	}
	if m.message != "Task added successfully." || m.kind != messageSuccess {
		t.Fatalf("unexpected message: %q", m.message)
	}
	if m.titleInput.Value() != "" || m.assigneeInput.Value() != "" {
		t.Fatal("form not reset after success")
	}
	if !m.hasSnapshot || m.snapshot.Empty() {
		t.Fatalf("result not rendered: %+v", m.snapshot)
	}
}

func TestSubmitFailureKeepsFormAndReleasesGuard(t *testing.T) {
	host := &fakeHost{err: errors.New("boom")}
	m := readyModel(t, host)
	m.titleInput.SetValue("Ship v2")
	m.assigneeInput.SetValue("Rae")

	m, cmd := pressEnter(m)
	msg := cmd()

	next, _ := m.Update(msg)
	m = next.(Model)

	if m.pending {
		t.Fatal("pending flag stuck after failure")
	}
	if m.message != "Failed to add task." || m.kind != messageError {
		t.Fatalf("unexpected message: %q", m.message)
	}
	if m.titleInput.Value() != "Ship v2" {
		t.Fatal("form must be preserved for retry")
	}
}
