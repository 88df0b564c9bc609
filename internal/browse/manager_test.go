package browse

import (
	"strconv"
	"sync"
	"testing"

	"github.com/rahulpattadi/toppers/internal/bank"
)

func sessionFor(deviceID, sessionID string) (*Session, *fakeSink) {
	sink := &fakeSink{}
	s := NewSession(bank.Snapshot{Questions: bank.FallbackQuestions(), Version: 1}, sink, Options{
		DeviceID:  deviceID,
		SessionID: sessionID,
		Site:      testSite(),
	})
	return s, sink
}

func TestSessionManager_Register(t *testing.T) {
	sm := NewSessionManager()
	s, _ := sessionFor("device123", "tab-1")

	sm.Register(s)

	if active := sm.GetActive("device123", "tab-1"); active != s {
		t.Errorf("Expected session %p, got %p", s, active)
	}
	if sm.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", sm.Count())
	}
}

func TestSessionManager_RegisterReplaces(t *testing.T) {
	sm := NewSessionManager()
	old, oldSink := sessionFor("device123", "tab-1")
	fresh, _ := sessionFor("device123", "tab-1")

	sm.Register(old)
	sm.Register(fresh)

	if oldSink.closed != "session replaced" {
		t.Errorf("Expected replaced session closed, got %q", oldSink.closed)
	}
	if active := sm.GetActive("device123", "tab-1"); active != fresh {
		t.Error("Expected the new session to be active")
	}

	// The replaced session ending later must not remove the new one.
	sm.Unregister(old)
	if active := sm.GetActive("device123", "tab-1"); active != fresh {
		t.Error("Expected stale unregister to keep the new session")
	}
}

func TestSessionManager_Unregister(t *testing.T) {
	sm := NewSessionManager()
	s1, _ := sessionFor("device123", "tab-1")
	s2, _ := sessionFor("device123", "tab-2")

	sm.Register(s1)
	sm.Register(s2)
	sm.Unregister(s1)

	if active := sm.GetActive("device123", "tab-1"); active != nil {
		t.Errorf("Expected nil session, got %p", active)
	}
	if active := sm.GetActive("device123", "tab-2"); active != s2 {
		t.Error("Expected other tab to remain active")
	}
}

func TestSessionManager_CloseDevice(t *testing.T) {
	sm := NewSessionManager()
	s1, sink1 := sessionFor("device123", "tab-1")
	s2, sink2 := sessionFor("device123", "tab-2")
	other, otherSink := sessionFor("device456", "tab-1")
	for _, s := range []*Session{s1, s2, other} {
		sm.Register(s)
	}

	sm.CloseDevice("device123")

	if sink1.closed == "" || sink2.closed == "" {
		t.Error("Expected both tabs of the device closed")
	}
	if otherSink.closed != "" {
		t.Error("Expected other device untouched")
	}
	if sm.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", sm.Count())
	}
}

func TestSessionManager_Broadcast(t *testing.T) {
	sm := NewSessionManager()
	s1, sink1 := sessionFor("device123", "tab-1")
	s2, sink2 := sessionFor("device456", "tab-1")
	sm.Register(s1)
	sm.Register(s2)

	sm.Broadcast(bank.Snapshot{Questions: bank.FallbackQuestions()[:3], Version: 2})

	for i, sink := range []*fakeSink{sink1, sink2} {
		msgs := sink.take()
		if len(msgs) != 1 || msgs[0].View == nil || msgs[0].View.TotalCount != 3 {
			t.Errorf("Session %d: expected reloaded view, got %+v", i, msgs)
		}
	}

	sm.CloseAll("shutdown")
	if sm.Count() != 0 || sink1.closed != "shutdown" {
		t.Error("Expected CloseAll to close every session")
	}
}

func TestSessionManager_ConcurrentAccess(t *testing.T) {
	sm := NewSessionManager()
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s, _ := sessionFor("concurrentDevice", "tab-"+strconv.Itoa(i))
			sm.Register(s)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			sm.GetActive("concurrentDevice", "tab-"+strconv.Itoa(i))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			sm.Broadcast(bank.Snapshot{Questions: bank.FallbackQuestions(), Version: uint64(i + 2)})
		}
	}()

	wg.Wait()
	sm.CloseAll("done")
}
