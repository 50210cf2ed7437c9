// Package all registers all built-in venvrun platforms.
//
// Import for side effects:
//
//	import _ "github.com/mbrock/venvrun/internal/platform/all"
package all

import (
	_ "github.com/mbrock/venvrun/internal/platform/posix"
	_ "github.com/mbrock/venvrun/internal/platform/windows"
)
