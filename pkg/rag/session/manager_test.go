package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetOrCreateSessionGeneratesId(t *testing.T) {
	m := NewManager()

	sess := m.GetOrCreateSession("")
	if sess.SessionId == "" {
		t.Fatal("expected a generated session id")
	}
	if len(sess.History) != 0 {
		t.Errorf("new session history length = %d, want 0", len(sess.History))
	}

	other := m.GetOrCreateSession("")
	if other.SessionId == sess.SessionId {
		t.Error("two empty-id calls produced the same session id")
	}
}

func TestGetOrCreateSessionReusesExisting(t *testing.T) {
	m := NewManager()

	m.AddMessage("s1", Message{Role: RoleHuman, Content: "hello"})
	sess := m.GetOrCreateSession("s1")

	if len(sess.History) != 1 {
		t.Errorf("reused session history length = %d, want 1", len(sess.History))
	}
	if m.SessionCount() != 1 {
		t.Errorf("session count = %d, want 1", m.SessionCount())
	}
}

func TestAddMessageStampsTimestamp(t *testing.T) {
	m := NewManager()

	m.AddMessage("s1", Message{Role: RoleHuman, Content: "hello"})
	full := m.GetFullHistory("s1")

	if len(full) != 1 {
		t.Fatalf("history length = %d, want 1", len(full))
	}
	if full[0].Timestamp.IsZero() {
		t.Error("expected message timestamp to be stamped")
	}
}

func TestGetFormattedHistoryWindowing(t *testing.T) {
	m := NewManager()
	for i := 0; i < 12; i++ {
		m.AddMessage("s1", Message{Role: RoleHuman, Content: fmt.Sprintf("msg %d", i)})
	}

	tests := []struct {
		name      string
		override  int
		wantLen   int
		wantFirst string
	}{
		{
			name:      "override of five returns last five",
			override:  5,
			wantLen:   5,
			wantFirst: "msg 7",
		},
		{
			name:      "zero override uses session window",
			override:  0,
			wantLen:   10,
			wantFirst: "msg 2",
		},
		{
			name:      "window larger than history returns all",
			override:  50,
			wantLen:   12,
			wantFirst: "msg 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := m.GetFormattedHistory("s1", tt.override)
			if len(view) != tt.wantLen {
				t.Fatalf("window length = %d, want %d", len(view), tt.wantLen)
			}
			if view[0].Content != tt.wantFirst {
				t.Errorf("first windowed message = %q, want %q", view[0].Content, tt.wantFirst)
			}
		})
	}

	// The stored history stays complete regardless of windowing.
	if full := m.GetFullHistory("s1"); len(full) != 12 {
		t.Errorf("full history length = %d, want 12", len(full))
	}
}

func TestConversationWindowSize(t *testing.T) {
	m := NewManager()
	m.GetOrCreateSession("s1")

	if got := m.GetConversationWindowSize("s1"); got != DefaultWindowSize {
		t.Errorf("initial window size = %d, want %d", got, DefaultWindowSize)
	}

	m.SetConversationWindowSize("s1", 4)
	if got := m.GetConversationWindowSize("s1"); got != 4 {
		t.Errorf("window size after set = %d, want 4", got)
	}

	// Invalid sizes are ignored.
	m.SetConversationWindowSize("s1", 0)
	if got := m.GetConversationWindowSize("s1"); got != 4 {
		t.Errorf("window size after invalid set = %d, want 4", got)
	}

	// Unknown sessions report the process default.
	if got := m.GetConversationWindowSize("missing"); got != DefaultWindowSize {
		t.Errorf("unknown session window size = %d, want %d", got, DefaultWindowSize)
	}
}

func TestSetDefaultWindowSizeAppliesToNewSessions(t *testing.T) {
	m := NewManager()
	m.SetDefaultWindowSize(6)

	sess := m.GetOrCreateSession("s1")
	if sess.ConversationWindowSize != 6 {
		t.Errorf("new session window size = %d, want 6", sess.ConversationWindowSize)
	}

	m.SetDefaultWindowSize(-1)
	if m.getDefaultWindowSize() != 6 {
		t.Errorf("default window size after invalid set = %d, want 6", m.getDefaultWindowSize())
	}
}

func TestPerSessionWindowGovernsHistoryView(t *testing.T) {
	m := NewManager()
	for i := 0; i < 8; i++ {
		m.AddMessage("s1", Message{Role: RoleHuman, Content: fmt.Sprintf("msg %d", i)})
	}

	m.SetConversationWindowSize("s1", 3)
	view := m.GetFormattedHistory("s1", 0)

	if len(view) != 3 {
		t.Fatalf("window length = %d, want 3", len(view))
	}
	if view[0].Content != "msg 5" {
		t.Errorf("first windowed message = %q, want %q", view[0].Content, "msg 5")
	}
}

func TestExpiredSessionIsRecreatedEmpty(t *testing.T) {
	m := newManagerWithTTL(20*time.Millisecond, time.Minute)

	m.AddMessage("s1", Message{Role: RoleHuman, Content: "hello"})
	m.SetConversationWindowSize("s1", 3)

	time.Sleep(50 * time.Millisecond)

	sess := m.GetOrCreateSession("s1")
	if len(sess.History) != 0 {
		t.Errorf("recreated session history length = %d, want 0", len(sess.History))
	}
	if sess.ConversationWindowSize != DefaultWindowSize {
		t.Errorf("recreated session window size = %d, want %d", sess.ConversationWindowSize, DefaultWindowSize)
	}
	if full := m.GetFullHistory("s1"); len(full) != 0 {
		t.Errorf("full history after expiry length = %d, want 0", len(full))
	}
}

func TestConcurrentFirstTurnSharesOneSession(t *testing.T) {
	m := NewManager()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.AddMessage("s1", Message{Role: RoleHuman, Content: fmt.Sprintf("msg %d", i)})
		}(i)
	}
	wg.Wait()

	if full := m.GetFullHistory("s1"); len(full) != writers {
		t.Errorf("history length = %d, want %d", len(full), writers)
	}
}
