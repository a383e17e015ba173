package installer

import _ "embed"

// The updater companion is a fixed pair of payloads embedded at build time
// and written verbatim to the staging tree. The executable replaces the
// running binary from outside it; the descriptor identifies the staged
// package to the promotion layer.

//go:embed resources/updater.bin
var updaterExec []byte

//go:embed resources/param.bin
var updaterParam []byte

// UpdaterExec returns the embedded companion executable (read-only).
func UpdaterExec() []byte {
	return updaterExec
}

// UpdaterParam returns the embedded companion descriptor (read-only).
func UpdaterParam() []byte {
	return updaterParam
}
