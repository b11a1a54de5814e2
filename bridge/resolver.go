package bridge

import (
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"github.com/wippyai/wasm-bridge/errors"
)

// DefaultArtifactName is the fixed, conventional artifact filename the
// build pipeline writes and the bridge reads.
const DefaultArtifactName = "engine_bg.wasm"

// hostOS is runtime.GOOS, split out so the Windows path quirk is
// testable from any platform.
var hostOS = runtime.GOOS

// InstallDir derives the directory containing the currently executing
// binary. Fallback for callers that do not pass an explicit artifact
// directory.
func InstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.PathResolution("cannot determine executable location", err)
	}
	return filepath.Dir(exe), nil
}

// PathFromFileURI converts a file:// self-reference URI into a path
// usable with the host filesystem APIs.
//
// On Windows the URI-to-path conversion leaves a leading separator in
// front of the drive letter (`/C:/pkg/dir/file`), which Windows
// filesystem paths do not tolerate; that separator is stripped. On
// every other platform the converted path is used as-is.
func PathFromFileURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.PathResolution("malformed self-reference URI", err)
	}
	if u.Scheme != "file" {
		return "", errors.PathResolution("self-reference URI must use the file scheme", nil)
	}
	if u.Path == "" {
		return "", errors.PathResolution("self-reference URI has no path", nil)
	}
	return stripDrivePrefix(u.Path, hostOS), nil
}

func stripDrivePrefix(p, goos string) string {
	if goos != "windows" {
		return p
	}
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' && isDriveLetter(p[1]) {
		return p[1:]
	}
	return p
}

func isDriveLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}
