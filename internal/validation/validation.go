package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Target validates the path to mount over and returns it with any trailing
// '/' stripped. The root directory itself can't be a target.
func Target(target string) (string, error) {
	if target == "" {
		return "", errors.New("empty target")
	}

	if strings.ContainsRune(target, 0) {
		return "", fmt.Errorf("target contains NUL byte: %q", target)
	}

	trimmed := strings.TrimRight(target, "/")
	if trimmed == "" {
		return "", errors.New("target can't be the root directory")
	}

	return trimmed, nil
}

// BindRoot validates that the bind root is a non-empty absolute path.
func BindRoot(bindRoot string) error {
	if bindRoot == "" {
		return errors.New("empty bind root")
	}

	if strings.ContainsRune(bindRoot, 0) {
		return fmt.Errorf("bind root contains NUL byte: %q", bindRoot)
	}

	if !filepath.IsAbs(bindRoot) {
		return fmt.Errorf("bind root must be an absolute path: %q", bindRoot)
	}

	return nil
}
