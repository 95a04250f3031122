//go:build windows

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/containerd/log"
	cli "github.com/urfave/cli/v2"

	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/oc"
	"github.com/teamdman/winhandle/internal/privilege"
)

var elevateCommand = &cli.Command{
	Name:  "elevate",
	Usage: "enable the backup, restore and security privileges and print the enabled privileges",
	Flags: []cli.Flag{retryTimeoutCLIFlag, relaunchCLIFlag},
	Action: func(c *cli.Context) (err error) {
		span := startSpan(c, "winhandle::elevate")
		defer span.End()
		defer func() { oc.SetSpanStatus(span, err) }()

		if done, err := relaunchElevated(c); done || err != nil {
			return err
		}

		if err := elevate(c); err != nil {
			return err
		}
		names, err := privilege.Enabled(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, strings.Join(names, "\n"))
		return nil
	},
}

// elevate enables the elevated privilege set, retrying per --retry-timeout.
func elevate(c *cli.Context) error {
	if !privilege.IsElevated() {
		log.G(c.Context).Warning("process is not elevated; privileges the account does not hold stay disabled")
	}
	log.G(c.Context).WithField(logfields.Privileges, privilege.Names()).Debug("enabling privileges")
	return retry(c.Context, retryTimeout(c), "elevate", func() error {
		return privilege.EnableElevatedPrivileges(c.Context)
	})
}

const relaunchFlag = "elevate"

var relaunchCLIFlag = &cli.BoolFlag{
	Name:  relaunchFlag,
	Usage: "if not elevated, run the command again as administrator (UAC prompt) and exit with its code",
}

var ensureElevated = privilege.EnsureElevated

// relaunchElevated handles --elevate. done reports that an elevated copy
// already ran the command; err then carries its exit code.
func relaunchElevated(c *cli.Context) (done bool, err error) {
	if !c.Bool(relaunchFlag) {
		return false, nil
	}
	relaunched, code, err := ensureElevated(c.Context, os.Args[1:])
	if err != nil {
		return false, err
	}
	if !relaunched {
		return false, nil
	}
	return true, cli.Exit("", int(code))
}
