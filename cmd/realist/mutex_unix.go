//go:build !windows

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/util/log"
)

var lockFile *os.File

func lockPath() string {
	return filepath.Join(os.TempDir(), strings.ToLower(config.AppName)+".lock")
}

// acquireLock takes an exclusive lock on a file in the temp directory. It reports false
// when another instance holds it.
func acquireLock() (bool, error) {
	file, err := os.OpenFile(lockPath(), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	err = syscall.FcntlFlock(file.Fd(), syscall.F_SETLK, &syscall.Flock_t{Type: syscall.F_WRLCK})
	if err != nil {
		file.Close()
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EACCES) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	lockFile = file
	return true, nil
}

// releaseLock drops the lock taken by acquireLock.
func releaseLock() {
	if lockFile == nil {
		return
	}
	if err := syscall.FcntlFlock(lockFile.Fd(), syscall.F_SETLK, &syscall.Flock_t{Type: syscall.F_UNLCK}); err != nil {
		log.Printf("Failed to unlock %s: %v", lockFile.Name(), err)
	}
	lockFile.Close()
	lockFile = nil
}
