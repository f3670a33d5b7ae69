//go:build !linux

// File: pool/region_other.go
//
// Heap-only regions for platforms without the Linux mapping path.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/momentics/hioload-ring/api"

func platformMap(size int) ([]byte, error) { return nil, api.ErrNotSupported }
func platformUnmap(data []byte) error      { return nil }
func platformLock(data []byte) error       { return api.ErrNotSupported }
func platformUnlock(data []byte) error     { return nil }
