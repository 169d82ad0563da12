package assist

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Action is one suggested follow-up returned with an assistant reply.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Envelope is the normalized shape of an assistant reply.
type Envelope struct {
	// Input echoes the server-side transcription of an audio upload.
	// Empty for text submissions.
	Input string

	// ResponseText is the assistant's textual reply. May be empty; the
	// caller substitutes a localized "no response" string.
	ResponseText string

	// AudioRef points at a synthesized audio rendition of the reply,
	// resolved to an absolute URL. Empty when the server returned none.
	AudioRef string

	// Actions is the ordered suggested-action list. Every entry has a
	// non-empty label and a URL ("#" when the server sent none).
	Actions []Action
}

// wireEnvelope matches the collaborator's raw response body. The actions
// field arrives either as a keyed mapping (label -> url) or as an ordered
// list, so it is deferred to normalizeActions.
type wireEnvelope struct {
	Input    string          `json:"input"`
	Response string          `json:"response"`
	Audio    string          `json:"audio"`
	Actions  json.RawMessage `json:"actions"`
}

func decodeEnvelope(r io.Reader) (*Envelope, error) {
	var wire wireEnvelope
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}

	actions, err := normalizeActions(wire.Actions)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Input:        strings.TrimSpace(wire.Input),
		ResponseText: strings.TrimSpace(wire.Response),
		AudioRef:     strings.TrimSpace(wire.Audio),
		Actions:      actions,
	}, nil
}

// normalizeActions accepts both collaborator shapes for the actions field
// and produces the ordered list form. Entries without a label are dropped;
// entries without a URL default to "#". Mapping keys are emitted in sorted
// order so the result is deterministic.
func normalizeActions(raw json.RawMessage) ([]Action, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	// Ordered list form: [{"label": ..., "url": ...}, ...]
	var list []Action
	if err := json.Unmarshal(raw, &list); err == nil {
		return cleanActions(list), nil
	}

	// Keyed mapping form: {"Play": "http://..."}
	var mapping map[string]string
	if err := json.Unmarshal(raw, &mapping); err == nil {
		labels := make([]string, 0, len(mapping))
		for label := range mapping {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		list = make([]Action, 0, len(labels))
		for _, label := range labels {
			list = append(list, Action{Label: label, URL: mapping[label]})
		}
		return cleanActions(list), nil
	}

	return nil, fmt.Errorf("unrecognized actions shape: %.100s", raw)
}

func cleanActions(in []Action) []Action {
	var out []Action
	for _, a := range in {
		a.Label = strings.TrimSpace(a.Label)
		if a.Label == "" {
			continue
		}
		if strings.TrimSpace(a.URL) == "" {
			a.URL = "#"
		}
		out = append(out, a)
	}
	return out
}

// resolveAudioRef turns a relative audio reference into an absolute URL
// against the assistant base endpoint. Absolute references pass through.
func (e *Envelope) resolveAudioRef(baseURL string) {
	if e.AudioRef == "" {
		return
	}
	if strings.HasPrefix(e.AudioRef, "http://") || strings.HasPrefix(e.AudioRef, "https://") {
		return
	}
	rel := strings.TrimLeft(e.AudioRef, "./")
	e.AudioRef = strings.TrimRight(baseURL, "/") + "/" + rel
}
