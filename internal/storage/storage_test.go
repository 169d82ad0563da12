package storage

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "converso.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get("converso.history")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("converso.history", []byte(`[{"role":"user","text":"oi"}]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok, err := s.Get("converso.history")
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v), want value", ok, err)
	}
	if string(got) != `[{"role":"user","text":"oi"}]` {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("k", []byte("a")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("k", []byte("b")); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	got, _, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "b" {
		t.Errorf("value = %s, want b", got)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("key still present after delete")
	}
	if err := s.Delete("k"); err != nil {
		t.Errorf("deleting absent key errored: %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "converso.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	got, ok, err := s2.Get("k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("after reopen Get = (%s, %v, %v), want v", got, ok, err)
	}
}
