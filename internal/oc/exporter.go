package oc

import (
	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/teamdman/winhandle/internal/logfields"
)

var _ trace.Exporter = &LogrusExporter{}

// LogrusExporter writes finished spans to the logrus standard logger.
type LogrusExporter struct{}

func (le *LogrusExporter) ExportSpan(s *trace.SpanData) {
	fields := logrus.Fields{
		logfields.Name:     s.Name,
		logfields.TraceID:  s.TraceID.String(),
		logfields.SpanID:   s.SpanID.String(),
		logfields.Duration: s.EndTime.Sub(s.StartTime),
		"startTime":        s.StartTime,
	}
	for k, v := range s.Attributes {
		fields[k] = v
	}
	entry := log.L.WithFields(fields)

	level := logrus.DebugLevel
	if s.Status.Code != trace.StatusCodeOK {
		level = logrus.ErrorLevel
		entry = entry.WithField("status", s.Status.Message)
	}
	entry.Log(level, "span end")
}
