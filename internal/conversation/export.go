package conversation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Export formats supported by the history exporter.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "md"
)

type exportEntry struct {
	Role string `json:"role" yaml:"role"`
	Text string `json:"text" yaml:"text"`
}

// Export writes the conversation entries to w in the requested format.
func Export(w io.Writer, format string, entries []Exchange) error {
	out := make([]exportEntry, 0, len(entries))
	for _, ex := range entries {
		out = append(out, exportEntry{Role: string(ex.Role), Text: ex.Text})
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	case FormatMarkdown, "markdown":
		for _, e := range out {
			if _, err := fmt.Fprintf(w, "- **%s**: %s\n", e.Role, e.Text); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
