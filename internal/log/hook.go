package log

import (
	"time"

	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/winerror"
)

// Hook intercepts and formats a [logrus.Entry] before it is logged.
//
// Errors that carry a Windows error code gain a sibling field holding the
// numeric code, so a failed release or read can be correlated with Win32
// documentation without parsing the message.
type Hook struct {
	// TimeFormat specifies the format for [time.Time] fields.
	// An empty string disables formatting.
	//
	// Default is [log.RFC3339NanoFixed].
	TimeFormat string

	// AddWin32Code adds a [logfields.Win32] field for [logrus.ErrorKey] values
	// that carry an errno.
	AddWin32Code bool

	// AddSpanContext adds [logfields.TraceID] and [logfields.SpanID] fields to
	// the entry from the span context stored in [logrus.Entry.Context], if it exists.
	AddSpanContext bool
}

var _ logrus.Hook = &Hook{}

func NewHook() *Hook {
	return &Hook{
		TimeFormat:     log.RFC3339NanoFixed,
		AddWin32Code:   true,
		AddSpanContext: true,
	}
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *Hook) Fire(e *logrus.Entry) error {
	h.encode(e)
	h.addSpanContext(e)
	return nil
}

func (h *Hook) encode(e *logrus.Entry) {
	d := e.Data
	for k, v := range d {
		switch vv := v.(type) {
		case time.Time:
			if h.TimeFormat != "" {
				d[k] = vv.Format(h.TimeFormat)
			}
		case time.Duration:
			d[k] = vv.Seconds()
		case error:
			if h.AddWin32Code && k == logrus.ErrorKey && winerror.HasCode(vv) {
				d[logfields.Win32] = winerror.Win32FromError(vv)
			}
		}
	}
}

func (h *Hook) addSpanContext(e *logrus.Entry) {
	if !h.AddSpanContext {
		return
	}
	ctx := e.Context
	if ctx == nil {
		return
	}
	span := trace.FromContext(ctx)
	if span == nil {
		return
	}
	sctx := span.SpanContext()
	e.Data[logfields.TraceID] = sctx.TraceID.String()
	e.Data[logfields.SpanID] = sctx.SpanID.String()
}
