package errand

import _ "embed"

// Version is the release of the errand toolkit.
//
//go:embed VERSION
var Version string
