package pipeline

import (
	"fmt"

	"github.com/wippyai/wasm-bridge/errors"
)

// Mode selects debug or release toolchain behavior.
type Mode string

const (
	Debug   Mode = "debug"
	Release Mode = "release"
)

// ParseMode maps a CLI mode string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Debug:
		return Debug, nil
	case Release:
		return Release, nil
	}
	return "", errors.InvalidInput(errors.PhaseTool, fmt.Sprintf("unknown mode %q (expected debug or release)", s))
}

// Target describes one build product: which compilation path and mode.
type Target struct {
	Portable bool
	Mode     Mode
}

// The four supported build targets.
var (
	NativeDebug     = Target{Portable: false, Mode: Debug}
	NativeRelease   = Target{Portable: false, Mode: Release}
	PortableDebug   = Target{Portable: true, Mode: Debug}
	PortableRelease = Target{Portable: true, Mode: Release}
)

func (t Target) String() string {
	path := "native"
	if t.Portable {
		path = "portable"
	}
	return path + "-" + string(t.Mode)
}
