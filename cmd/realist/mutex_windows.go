//go:build windows

package main

import (
	"errors"
	"fmt"

	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/util/log"
	"golang.org/x/sys/windows"
)

var mutex windows.Handle

// acquireLock creates a named mutex. It reports false when another instance owns it.
func acquireLock() (bool, error) {
	name, err := windows.UTF16PtrFromString(config.AppName + "_SingleInstanceMutex")
	if err != nil {
		return false, err
	}

	h, err := windows.CreateMutex(nil, true, name)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create mutex: %w", err)
	}

	mutex = h
	return true, nil
}

// releaseLock releases and closes the mutex taken by acquireLock.
func releaseLock() {
	if mutex == 0 {
		return
	}
	if err := windows.ReleaseMutex(mutex); err != nil {
		log.Printf("Failed to release mutex: %v", err)
	}
	if err := windows.CloseHandle(mutex); err != nil {
		log.Printf("Failed to close mutex handle: %v", err)
	}
	mutex = 0
}
