//go:build linux

// File: pool/region_linux.go
//
// Linux regions: anonymous private mappings, optionally mlock'ed.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func platformMap(size int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return data, nil
}

func platformUnmap(data []byte) error {
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

func platformLock(data []byte) error {
	return unix.Mlock(data)
}

func platformUnlock(data []byte) error {
	return unix.Munlock(data)
}
