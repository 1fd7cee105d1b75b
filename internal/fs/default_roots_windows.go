// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package fs

import (
	"path/filepath"
)

func DefaultRoots(lookup func(string) (string, bool)) []string {
	userprofile, _ := lookup("USERPROFILE")
	systemdrive, _ := lookup("SystemDrive")

	return []string{
		filepath.Join(userprofile, "AppData", "Local", "parsec"),
		filepath.Join(systemdrive, "ProgramData", "parsec"),
	}
}
