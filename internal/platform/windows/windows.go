// Package windows registers the Windows platform: environments keep their
// executables in Scripts\ and PATH entries are semicolon separated.
package windows

import "github.com/mbrock/venvrun/internal/platform"

// New returns the Windows platform.
func New() platform.Platform {
	return &platform.Venv{
		PlatformKind:  platform.KindWindows,
		BinName:       "Scripts",
		ActivateName:  "activate.bat",
		ListSeparator: ";",
	}
}

func init() {
	platform.Register(platform.KindWindows, New)
}
