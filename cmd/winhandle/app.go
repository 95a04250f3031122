//go:build windows

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/teamdman/winhandle/internal/config"
	winlog "github.com/teamdman/winhandle/internal/log"
	"github.com/teamdman/winhandle/internal/logfields"
)

const (
	logLevelFlag     = "log-level"
	configFlag       = "config"
	traceFlag        = "trace"
	retryTimeoutFlag = "retry-timeout"

	configKey = "config"
)

var appCommands = []*cli.Command{
	elevateCommand,
	drivesCommand,
	readCommand,
	watchCommand,
}

func app() *cli.App {
	return &cli.App{
		Name:           "winhandle",
		Usage:          "privileged raw reads and change notifications for Windows files and volumes",
		Commands:       appCommands,
		ExitErrHandler: errHandler,
		Before:         beforeApp,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "logging `level` (trace, debug, info, warning, error); overrides the config file",
			},
			&cli.PathFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "TOML configuration `file`",
				EnvVars: []string{"WINHANDLE_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  traceFlag,
				Usage: "export opencensus spans to the log",
			},
		},
	}
}

func beforeApp(c *cli.Context) error {
	cfg := config.Default()
	if p := c.Path(configFlag); p != "" {
		var err error
		if cfg, err = config.Load(p); err != nil {
			return err
		}
	}
	if c.IsSet(logLevelFlag) {
		cfg.LogLevel = c.String(logLevelFlag)
	}
	if err := setupLogging(cfg.LogLevel, c.Bool(traceFlag)); err != nil {
		return fmt.Errorf("logging setup: %w", err)
	}
	c.App.Metadata = map[string]interface{}{configKey: cfg}
	log.G(c.Context).WithField("config", winlog.Format(c.Context, cfg)).Debug("loaded configuration")
	return nil
}

func getConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func errHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	// exit codes of an elevated relaunch pass through unchanged
	if ec := cli.ExitCoder(nil); errors.As(err, &ec) {
		cli.HandleExitCoder(ec)
		return
	}
	n := c.App.Name
	if c.Command != nil {
		if nn := c.Command.FullName(); nn != "" {
			n += " " + nn
		}
	}
	cli.HandleExitCoder(cli.Exit(fmt.Errorf("%s: %w", n, err), 1))
}

// retryTimeout returns the --retry-timeout flag if set, else the configured timeout.
func retryTimeout(c *cli.Context) time.Duration {
	if c.IsSet(retryTimeoutFlag) {
		return c.Duration(retryTimeoutFlag)
	}
	return getConfig(c).RetryTimeout()
}

// retry runs op until it succeeds, returns a backoff.Permanent error, or
// timeout elapses. A zero timeout runs op once.
func retry(ctx context.Context, timeout time.Duration, what string, op func() error) error {
	if timeout <= 0 {
		err := op()
		if perm := (&backoff.PermanentError{}); errors.As(err, &perm) {
			return perm.Err
		}
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = timeout
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), func(err error, d time.Duration) {
		log.G(ctx).WithError(err).WithFields(logrus.Fields{
			logfields.Operation: what,
			logfields.Duration:  d,
			logfields.Timeout:   timeout,
		}).Warning("retrying")
	})
}

var retryTimeoutCLIFlag = &cli.DurationFlag{
	Name:  retryTimeoutFlag,
	Usage: "keep retrying failed elevation and opens for up to `duration`",
}
