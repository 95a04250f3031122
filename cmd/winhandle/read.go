//go:build windows

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/cenkalti/backoff/v4"
	"github.com/containerd/log"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/windows"

	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/oc"
	"github.com/teamdman/winhandle/internal/rawio"
	"github.com/teamdman/winhandle/internal/volume"
	"github.com/teamdman/winhandle/internal/winerror"
)

const (
	pathFlag   = "path"
	driveFlag  = "drive"
	offsetFlag = "offset"
	lengthFlag = "length"
)

var readCommand = &cli.Command{
	Name:  "read",
	Usage: "read an exact byte range from a file or raw volume and print a hex dump",
	Description: `Exactly one of --path or --drive is required. Volume reads are
unbuffered, so --offset and --length should be multiples of the sector size.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  pathFlag,
			Usage: "`file` to read",
		},
		&cli.StringFlag{
			Name:  driveFlag,
			Usage: "drive letter `pattern` (\"*\", \"C\", \"CD\", \"C,D\") of volumes to read",
		},
		&cli.Uint64Flag{
			Name:  offsetFlag,
			Usage: "byte `offset` to start reading at",
		},
		&cli.Int64Flag{
			Name:  lengthFlag,
			Usage: "number of `bytes` to read; defaults to the configured read length",
		},
		retryTimeoutCLIFlag,
		relaunchCLIFlag,
	},
	Action: func(c *cli.Context) (err error) {
		span := startSpan(c, "winhandle::read")
		defer span.End()
		defer func() { oc.SetSpanStatus(span, err) }()

		length := getConfig(c).Read.Length
		if c.IsSet(lengthFlag) {
			length = c.Int64(lengthFlag)
		}
		if length < 0 {
			return fmt.Errorf("--%s must not be negative", lengthFlag)
		}
		offset := c.Uint64(offsetFlag)
		span.AddAttributes(
			trace.Int64Attribute(logfields.Offset, int64(offset)),
			trace.Int64Attribute(logfields.Bytes, length))

		switch p, d := c.String(pathFlag), c.String(driveFlag); {
		case p != "" && d == "":
			buf, err := readPath(c, p, offset, int(length))
			if err != nil {
				return err
			}
			return dump(c.App.Writer, p, offset, buf)
		case d != "" && p == "":
			if done, err := relaunchElevated(c); done || err != nil {
				return err
			}
			return readDrives(c, d, offset, int(length))
		default:
			return fmt.Errorf("exactly one of --%s or --%s is required", pathFlag, driveFlag)
		}
	},
}

func readPath(c *cli.Context, path string, offset uint64, length int) ([]byte, error) {
	var f *rawio.File
	err := retry(c.Context, retryTimeout(c), "open", func() (err error) {
		f, err = rawio.Open(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readExact(c, f, offset, length)
}

func readDrives(c *cli.Context, pattern string, offset uint64, length int) error {
	letters, err := resolve(pattern)
	if err != nil {
		return err
	}
	if err := elevate(c); err != nil {
		return pkgerrors.Wrap(err, "raw volume reads need elevated privileges")
	}

	bufs := make([][]byte, len(letters))
	g, ctx := errgroup.WithContext(c.Context)
	for i, l := range letters {
		g.Go(func() error {
			var f *rawio.File
			err := retry(ctx, retryTimeout(c), "open", func() (err error) {
				f, err = volume.Open(l)
				if winerror.IsAny(err, windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND) {
					return backoff.Permanent(err)
				}
				return err
			})
			if err != nil {
				return err
			}
			defer f.Close()
			log.G(ctx).WithField(logfields.Drive, string(l)).Debug("reading volume")
			bufs[i], err = readExact(c, f, offset, length)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, l := range letters {
		if err := dump(c.App.Writer, volume.Path(l), offset, bufs[i]); err != nil {
			return err
		}
	}
	return nil
}

// readExact reads length bytes. Hitting end of data is not fatal here: the
// bytes read so far are returned with a warning.
func readExact(c *cli.Context, f *rawio.File, offset uint64, length int) ([]byte, error) {
	buf := make([]byte, length)
	err := f.ReadExact(offset, buf)
	var eof *winerror.EOFError
	if errors.As(err, &eof) {
		log.G(c.Context).WithFields(logrus.Fields{
			logfields.Path:   f.Name(),
			logfields.Offset: offset,
			logfields.Bytes:  eof.Got,
		}).Warning("end of data before the requested length")
		return buf[:eof.Got], nil
	}
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func dump(w io.Writer, name string, offset uint64, b []byte) error {
	if _, err := fmt.Fprintf(w, "%s @ %#x (%d bytes)\n", name, offset, len(b)); err != nil {
		return err
	}
	d := hex.Dumper(w)
	if _, err := d.Write(b); err != nil {
		return err
	}
	return d.Close()
}
