//go:build windows

package volume

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/teamdman/winhandle/internal/rawio"
)

// Available returns the letters of the drives present on this system.
func Available() ([]rune, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, errors.Wrap(err, "GetLogicalDrives")
	}
	letters := lettersFromMask(mask)
	if len(letters) == 0 {
		return nil, ErrNoDrives
	}
	return letters, nil
}

// Resolve resolves p against the drives present on this system.
func Resolve(p Pattern) ([]rune, error) {
	var available []rune
	if p == All {
		var err error
		if available, err = Available(); err != nil {
			return nil, err
		}
	}
	return p.Letters(available)
}

// Open opens the volume at letter read-only for positioned reads. Opening a
// volume requires an elevated process.
func Open(letter rune) (*rawio.File, error) {
	f, err := rawio.Open(Path(letter))
	if err != nil {
		return nil, errors.Wrapf(err, "open volume %c (is the process elevated?)", letter)
	}
	return f, nil
}
