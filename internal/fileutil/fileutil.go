// Package fileutil holds file permission modes and output helpers shared by
// the CLI and the MCP server.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for written documents, which
// may carry account IDs and ARNs (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// OwnerDirectory is the mode for directories created to hold documents.
const OwnerDirectory os.FileMode = 0o750

// RejectSymlink returns an error if path exists and is a symlink.
func RejectSymlink(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fileutil: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("fileutil: refusing to write to symlink: %s", path)
	}
	return nil
}

// WriteFile writes data to path with OwnerReadWrite permissions.
// Symlinked destinations are refused.
func WriteFile(path string, data []byte) error {
	cleaned := filepath.Clean(path)
	if err := RejectSymlink(cleaned); err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, OwnerReadWrite); err != nil {
		return fmt.Errorf("fileutil: writing %s: %w", cleaned, err)
	}
	return nil
}
