// File: internal/concurrency/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform CPU affinity for producer and consumer threads.

package concurrency

import (
	"fmt"
	"runtime"
)

// NumCPUs returns the number of logical CPUs.
func NumCPUs() int {
	return runtime.NumCPU()
}

// PinCurrentThread locks the calling goroutine to its OS thread and binds
// that thread to cpuID. The returned func undoes both. A negative cpuID
// only locks the OS thread.
func PinCurrentThread(cpuID int) (unpin func(), err error) {
	if cpuID >= NumCPUs() {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidCPU, cpuID, NumCPUs())
	}
	runtime.LockOSThread()
	if cpuID < 0 {
		return runtime.UnlockOSThread, nil
	}
	restore, err := platformPinCurrentThread(cpuID)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return func() {
		restore()
		runtime.UnlockOSThread()
	}, nil
}
