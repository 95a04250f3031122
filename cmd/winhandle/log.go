//go:build windows

package main

//
// helper functions for logging and tracing
//

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/containerd/log"
	cli "github.com/urfave/cli/v2"
	"go.opencensus.io/trace"

	winlog "github.com/teamdman/winhandle/internal/log"
	"github.com/teamdman/winhandle/internal/oc"
)

func setupLogging(level string, exportSpans bool) error {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: winlog.TimeFormat,
	})
	logrus.AddHook(winlog.NewHook())
	if err := log.SetLevel(level); err != nil {
		return err
	}

	if exportSpans {
		trace.ApplyConfig(trace.Config{DefaultSampler: oc.DefaultSampler})
		trace.RegisterExporter(&oc.LogrusExporter{})
	}
	return nil
}

func startSpan(c *cli.Context, n string, o ...trace.StartOption) (s *trace.Span) {
	c.Context, s = oc.StartSpan(c.Context, n, o...)
	return s
}
