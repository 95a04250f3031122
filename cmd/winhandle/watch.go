//go:build windows

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/containerd/log"
	cli "github.com/urfave/cli/v2"

	winlog "github.com/teamdman/winhandle/internal/log"
	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/tail"
	"github.com/teamdman/winhandle/internal/watch"
)

const (
	tailFlag    = "tail"
	fromEndFlag = "from-end"
)

var watchCommand = &cli.Command{
	Name:      "watch",
	Usage:     "print a line each time a file's content changes, or its appended content with --tail",
	ArgsUsage: "PATH",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  tailFlag,
			Usage: "print appended content instead of notifications",
		},
		&cli.BoolFlag{
			Name:  fromEndFlag,
			Usage: "with --tail, skip the content present at startup",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.ShowSubcommandHelp(c)
		}
		path := c.Args().First()

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
		defer stop()
		c.Context = ctx

		if c.Bool(tailFlag) {
			return follow(c, path)
		}
		return notify(c, path)
	},
}

func notify(c *cli.Context, path string) error {
	s, err := watch.WatchFileContent(c.Context, path, getConfig(c).WatchOptions()...)
	if err != nil {
		return err
	}
	defer s.Close()

	log.G(c.Context).WithField(logfields.Path, s.Path()).Info("watching, interrupt to stop")
	for n := range s.Events() {
		if n.Err != nil {
			return n.Err
		}
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", n.Seq, winlog.FormatTime(n.Time), n.Path)
	}
	return s.Err()
}

func follow(c *cli.Context, path string) error {
	cfg := getConfig(c)
	start := tail.FromStart
	if c.Bool(fromEndFlag) {
		start = tail.FromEnd
	}
	t, err := tail.Follow(c.Context, tail.Config{
		Path:      path,
		Start:     start,
		ChunkSize: int(cfg.Read.ChunkSize),
		Watch:     cfg.WatchOptions(),
	})
	if err != nil {
		return err
	}
	defer t.Close()

	for chunk := range t.Chunks() {
		if _, err := c.App.Writer.Write(chunk.Data); err != nil {
			return err
		}
	}
	return t.Err()
}
