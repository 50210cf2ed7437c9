// Package posix registers the POSIX platform: environments keep their
// executables in bin/ and PATH entries are colon separated.
package posix

import "github.com/mbrock/venvrun/internal/platform"

// New returns the POSIX platform.
func New() platform.Platform {
	return &platform.Venv{
		PlatformKind:  platform.KindPosix,
		BinName:       "bin",
		ActivateName:  "activate",
		ListSeparator: ":",
	}
}

func init() {
	platform.Register(platform.KindPosix, New)
}
