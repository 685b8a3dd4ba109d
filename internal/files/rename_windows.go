//go:build windows

package files

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

// Editors and virus scanners briefly hold INI files open on Windows,
// which makes MoveFileEx fail with a sharing or access error.
const (
	renameAttempts = 5
	renameBackoff  = 40 * time.Millisecond
)

func renameAtomic(oldPath, newPath string) error {
	oldPtr, err := windows.UTF16PtrFromString(oldPath)
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	newPtr, err := windows.UTF16PtrFromString(newPath)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}

	flags := uint32(windows.MOVEFILE_REPLACE_EXISTING | windows.MOVEFILE_WRITE_THROUGH)
	for attempt := 1; ; attempt++ {
		err = windows.MoveFileEx(oldPtr, newPtr, flags)
		if err == nil {
			return nil
		}
		retryable := errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, windows.ERROR_ACCESS_DENIED)
		if !retryable || attempt == renameAttempts {
			return err
		}
		time.Sleep(time.Duration(attempt) * renameBackoff)
	}
}
