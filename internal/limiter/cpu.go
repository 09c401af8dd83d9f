// Package limiter provides global resource limiters for CPU-intensive operations.
package limiter

import "dubsync/internal/config"

// cpuOperationSemaphore limits the total number of concurrent CPU-intensive
// operations across ALL jobs in the process: the ffmpeg exec calls made by
// internal/audio.Toolkit (convert, time-stretch, crossfade concat). ffprobe
// calls and in-process PCM generation do not take a slot.
//
// Without this limit, N concurrent jobs each running their own worker pool
// would compound into far more CPU-bound processes than the host has cores
// for.
var cpuOperationSemaphore = make(chan struct{}, config.MaxConcurrentCPUOperations)

// AcquireCPUSlot blocks until a CPU operation slot is available.
func AcquireCPUSlot() {
	cpuOperationSemaphore <- struct{}{}
}

// ReleaseCPUSlot releases a CPU operation slot. Call with defer.
func ReleaseCPUSlot() {
	<-cpuOperationSemaphore
}
