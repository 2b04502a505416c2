package worker

// Log messages - worker pool
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanic    = "Worker job panicked"
	LogMsgWorkerQueueFull   = "Worker queue full, job dropped"
	LogMsgWorkerPoolStopped = "Worker pool stopped, job dropped"
)

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
