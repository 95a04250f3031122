package handle

import "os"

type fileReleaser struct{}

func (fileReleaser) Invalid(f *os.File) bool { return f == nil }

func (fileReleaser) Release(f *os.File) error { return f.Close() }

// Files releases *os.File values. The nil file is the only sentinel.
var Files Releaser[*os.File] = fileReleaser{}

// TakeFile takes ownership of f.
func TakeFile(f *os.File) *Owned[*os.File] {
	return TakeOwnership(f, Files)
}
