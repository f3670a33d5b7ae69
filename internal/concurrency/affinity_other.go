//go:build !linux

// File: internal/concurrency/affinity_other.go
//
// Fallback for platforms without thread affinity support.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

func platformPinCurrentThread(cpuID int) (func(), error) {
	return nil, ErrAffinityNotSupported
}
