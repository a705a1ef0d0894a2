// Package profiler wraps kernel execution with timing, asynchronous output
// readback, numeric validation, and per-output profile logging.
//
// ProfileKernel never delays or mutates the kernel's synchronous result:
// timing is delegated to the backend's KernelTimer, and readback, NaN/Inf
// checking, and logging run as tracked background tasks. Failures inside
// those tasks are routed to an injectable error sink instead of the caller,
// so a corrupted or unreadable output never aborts the computation being
// profiled.
package profiler
