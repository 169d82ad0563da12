package conversation

import (
	"errors"
	"testing"
)

// memKV is an in-memory stand-in for the sqlite store.
type memKV struct {
	data    map[string][]byte
	puts    int
	failPut bool
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(key string, value []byte) error {
	if m.failPut {
		return errors.New("disk full")
	}
	m.puts++
	m.data[key] = value
	return nil
}

func TestOpenEmpty(t *testing.T) {
	l, err := Open(newMemKV(), "converso.history")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("new log has %d entries", l.Len())
	}
}

func TestAppendWritesThroughOnEveryMutation(t *testing.T) {
	kv := newMemKV()
	l, err := Open(kv, "converso.history")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	exchanges := []Exchange{
		{Role: RoleUser, Text: "ligar a luz"},
		{Role: RoleAssistant, Text: "Você perguntou: ligar a luz"},
		{Role: RoleError, Text: "sem conexão"},
	}
	for _, ex := range exchanges {
		if err := l.Append(ex); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	if kv.puts != len(exchanges) {
		t.Errorf("expected %d write-throughs, got %d", len(exchanges), kv.puts)
	}
}

func TestReloadReproducesOrderedSequence(t *testing.T) {
	kv := newMemKV()
	l, _ := Open(kv, "converso.history")

	want := []Exchange{
		{Role: RoleUser, Text: "primeira"},
		{Role: RoleAssistant, Text: "resposta um"},
		{Role: RoleUser, Text: "segunda"},
		{Role: RoleAssistant, Text: "resposta dois"},
	}
	for _, ex := range want {
		if err := l.Append(ex); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	reloaded, err := Open(kv, "converso.history")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got := reloaded.All()
	if len(got) != len(want) {
		t.Fatalf("reloaded %d exchanges, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Role != want[i].Role || got[i].Text != want[i].Text {
			t.Errorf("entry %d = {%s %q}, want {%s %q}",
				i, got[i].Role, got[i].Text, want[i].Role, want[i].Text)
		}
	}
}

func TestFailedPersistRollsBack(t *testing.T) {
	kv := newMemKV()
	l, _ := Open(kv, "converso.history")

	kv.failPut = true
	if err := l.Append(Exchange{Role: RoleUser, Text: "oi"}); err == nil {
		t.Fatal("expected persist error")
	}
	if l.Len() != 0 {
		t.Errorf("entry kept in memory after failed persist (len=%d)", l.Len())
	}
}

func TestAllReturnsCopy(t *testing.T) {
	l, _ := Open(newMemKV(), "converso.history")
	if err := l.Append(Exchange{Role: RoleUser, Text: "oi"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	snapshot := l.All()
	snapshot[0].Text = "mutated"
	if l.All()[0].Text != "oi" {
		t.Error("All exposed internal state")
	}
}
