package repository

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/centrallog/internal/models"
)

// Directory names that make up the central home layout.
const (
	recordsDirName = "records"
	agenticDirName = ".agentic"
	logsDirName    = "logs"
	markerFileName = "CENTRAL_LOG_MARKER"
)

// DetectHome maps an arbitrary path the user pointed at to the canonical
// central home. It never fails: when nothing matches, the resolved candidate
// is returned unchanged. Rules are evaluated in order, first match wins:
//
//  1. a file resolves to its containing directory
//  2. records/<type-subdir> resolves to the grandparent
//  3. records/ resolves to the parent
//  4. .agentic/logs resolves to the grandparent
//  5. .agentic resolves to the parent
//  6. a directory holding the marker file, a records/ subdirectory, or
//     .agentic/logs is the home itself
//  7. the nearest ancestor holding the marker file, or both records/ and
//     .agentic, is the home
func DetectHome(candidate string) string {
	path := resolvePath(candidate)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		path = filepath.Dir(path)
	}

	name := filepath.Base(path)
	parent := filepath.Dir(path)

	if _, ok := models.TypeBySubdir[name]; ok && filepath.Base(parent) == recordsDirName {
		return filepath.Dir(parent)
	}
	if name == recordsDirName {
		return parent
	}
	if name == logsDirName && filepath.Base(parent) == agenticDirName {
		return filepath.Dir(parent)
	}
	if name == agenticDirName {
		return parent
	}

	if hasMarker(path) || pathExists(filepath.Join(path, recordsDirName)) ||
		pathExists(filepath.Join(path, agenticDirName, logsDirName)) {
		return path
	}

	for p := filepath.Dir(path); ; {
		if hasMarker(p) {
			return p
		}
		if pathExists(filepath.Join(p, recordsDirName)) && pathExists(filepath.Join(p, agenticDirName)) {
			return p
		}
		next := filepath.Dir(p)
		if next == p {
			break
		}
		p = next
	}

	return path
}

func hasMarker(dir string) bool {
	return pathExists(filepath.Join(dir, agenticDirName, markerFileName))
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// resolvePath expands a leading ~ and collapses relative segments and
// symlinks. Resolution is best effort: a path that does not exist is still
// returned in absolute form.
func resolvePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
