package actions

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/awbwapp/replay/pkg/core"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func newTestRegistry(t *testing.T) (*Registry, *testLogger) {
	logger := &testLogger{}

	r, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}

	return r, logger
}

func testReplay() (*core.ReplayData, *core.TurnData) {
	replay := &core.ReplayData{
		Info: core.ReplayInfo{
			Players:   []core.Player{{ID: 100, TeamName: "100"}, {ID: 101, TeamName: "101"}},
			PlayerIDs: map[int]int{100: 0, 101: 1},
		},
		Turns: []core.TurnData{{ActivePlayerID: 100, ActiveTeam: "100", Day: 3}},
	}
	return replay, &replay.Turns[0]
}

func TestRegistry_Handler(t *testing.T) {
	r, _ := newTestRegistry(t)
	replay, turn := testReplay()

	var got Payload
	r.Register("Test", func(p Payload) (core.Action, error) {
		got = p
		return core.EmptyAction{}, nil
	})

	action, err := r.Decode([]byte(`{"action":"Test","value":7}`), replay, turn)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if action != (core.EmptyAction{}) {
		t.Errorf("expected EmptyAction, got %#v", action)
	}
	if got.Kind != "Test" {
		t.Errorf("expected kind 'Test', got %q", got.Kind)
	}
	if got.JSON.Get("value").Int() != 7 {
		t.Errorf("expected value 7, got %v", got.JSON.Get("value"))
	}
	if got.Replay != replay || got.Turn != turn {
		t.Error("handler did not receive the replay state")
	}
}

func TestRegistry_UnknownAction(t *testing.T) {
	r, _ := newTestRegistry(t)
	replay, turn := testReplay()

	_, err := r.Decode([]byte(`{"action":"Dance"}`), replay, turn)

	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestRegistry_MissingActionName(t *testing.T) {
	r, _ := newTestRegistry(t)
	replay, turn := testReplay()

	for _, payload := range []string{`{}`, `{"action":5}`, `[]`} {
		_, err := r.Decode([]byte(payload), replay, turn)
		if !errors.Is(err, ErrMalformedAction) {
			t.Errorf("%s: expected ErrMalformedAction, got %v", payload, err)
		}
	}
}

func TestRegistry_HandlerError(t *testing.T) {
	r, _ := newTestRegistry(t)
	replay, turn := testReplay()

	boom := errors.New("boom")
	r.Register("Test", func(Payload) (core.Action, error) {
		return nil, boom
	})

	_, err := r.Decode([]byte(`{"action":"Test"}`), replay, turn)

	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped handler error, got %v", err)
	}
	if !strings.Contains(err.Error(), "decoding Test action") {
		t.Errorf("expected action name in error, got %v", err)
	}
}

func TestRegistry_HasHandler(t *testing.T) {
	r, _ := newTestRegistry(t)

	r.Register("Test", func(Payload) (core.Action, error) {
		return core.EmptyAction{}, nil
	})

	if !r.HasHandler("Test") {
		t.Error("expected HasHandler to return true for registered kind")
	}
	if r.HasHandler("Other") {
		t.Error("expected HasHandler to return false for unregistered kind")
	}
}

func TestRegistry_Logged(t *testing.T) {
	r, logger := newTestRegistry(t)
	replay, turn := testReplay()

	r.Register("Good", func(Payload) (core.Action, error) {
		return core.EmptyAction{}, nil
	}, Logged())
	r.Register("Bad", func(Payload) (core.Action, error) {
		return nil, errors.New("bad")
	}, Logged())

	_, _ = r.Decode([]byte(`{"action":"Good"}`), replay, turn)
	_, _ = r.Decode([]byte(`{"action":"Bad"}`), replay, turn)

	logger.mu.Lock()
	defer logger.mu.Unlock()

	if len(logger.messages) != 2 {
		t.Fatalf("expected 2 log messages, got %d: %v", len(logger.messages), logger.messages)
	}
	if !strings.HasPrefix(logger.messages[0], "DEBUG: action decoded") {
		t.Errorf("unexpected first message: %s", logger.messages[0])
	}
	if !strings.HasPrefix(logger.messages[1], "ERROR: action failed") {
		t.Errorf("unexpected second message: %s", logger.messages[1])
	}
}

func TestNewRegistry_KnownKinds(t *testing.T) {
	r, err := NewRegistry(&testLogger{})
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}

	kinds := []string{
		core.ActionMove, core.ActionFire, core.ActionCapture, core.ActionBuild,
		core.ActionEnd, core.ActionPower, core.ActionLoad, core.ActionUnload,
		core.ActionSupply, core.ActionRepair, core.ActionJoin, core.ActionDelete,
		core.ActionHide, core.ActionUnhide, core.ActionResign, core.ActionTag,
	}
	for _, kind := range kinds {
		if !r.HasHandler(kind) {
			t.Errorf("expected handler for %s", kind)
		}
	}
}
