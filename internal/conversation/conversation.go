// Package conversation owns the append-only conversation log.
//
// Every mutation is written through to durable client-side storage under a
// single namespaced key, as an ordered JSON list of {role, text} records, so
// a restart restores the prior history. The log is append-only: entries are
// never rewritten, deduplicated, or evicted.
package conversation

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Role identifies who produced an exchange.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Exchange is one turn in the conversation.
type Exchange struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"-"`
}

// KV is the durable storage surface the log writes through to.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// Log is the append-only ordered conversation log.
type Log struct {
	mu      sync.Mutex
	kv      KV
	key     string
	entries []Exchange
}

// Open loads the persisted log stored under key, or starts empty when the
// key is absent.
func Open(kv KV, key string) (*Log, error) {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("loading conversation log: %w", err)
	}

	l := &Log{kv: kv, key: key}
	if ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &l.entries); err != nil {
			return nil, fmt.Errorf("decoding conversation log: %w", err)
		}
	}
	return l, nil
}

// Append adds ex to the log and persists the full log immediately.
func (l *Log) Append(ex Exchange) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now()
	}
	l.entries = append(l.entries, ex)

	raw, err := json.Marshal(l.entries)
	if err != nil {
		// Roll back so memory and storage stay in step.
		l.entries = l.entries[:len(l.entries)-1]
		return fmt.Errorf("encoding conversation log: %w", err)
	}
	if err := l.kv.Put(l.key, raw); err != nil {
		l.entries = l.entries[:len(l.entries)-1]
		return fmt.Errorf("persisting conversation log: %w", err)
	}
	return nil
}

// All returns a copy of the ordered exchange sequence.
func (l *Log) All() []Exchange {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Exchange, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of exchanges in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
