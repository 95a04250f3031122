// Package watch delivers change notifications for a single file without
// polling.
//
// Each Stream owns one goroutine that blocks in the backend's wait primitive.
// Closing the stream wakes that wait through the same primitive, and Close
// returns only after the goroutine has exited and the backend's handles have
// been released.
package watch
