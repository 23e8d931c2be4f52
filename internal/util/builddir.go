// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveBuildDir returns the absolute path of the build directory. Relative
// paths are taken from the working directory. The directory must exist and,
// when index is not empty, contain the index document.
func ResolveBuildDir(dir, index string) (string, error) {
	if dir == "" {
		return "", os.ErrInvalid
	}

	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}

	if r, err := os.Stat(dir); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", fmt.Errorf("%s: %w", dir, os.ErrInvalid)
	}

	if index != "" {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(index))); err != nil {
			return "", fmt.Errorf("build directory %s has no %s: %w", dir, index, err)
		}
	}

	return dir, nil
}
