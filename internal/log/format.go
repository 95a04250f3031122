package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/containerd/log"
)

// TimeFormat matches the format the log Hook applies to time fields, so
// timestamps printed by the CLI line up with logged ones.
const TimeFormat = log.RFC3339NanoFixed

func FormatTime(t time.Time) string {
	return t.Format(TimeFormat)
}

// Format formats an object into a JSON string, without any indentation or
// HTML escapes.
// Context is used to output a log warning if the conversion fails.
func Format(ctx context.Context, v interface{}) string {
	b, err := encode(v)
	if err != nil {
		log.G(ctx).WithError(err).Warning("could not format value")
		return ""
	}
	return string(b)
}

func encode(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "")

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("could not marshall %T to JSON for logging: %w", v, err)
	}

	// encoder.Encode appends a newline to the end
	return bytes.TrimSpace(buf.Bytes()), nil
}
