// Package stream provides the ordered, push-based event channel between one
// workflow run and its single observer. Publishing never blocks the runner:
// events are buffered, and once the observer is gone or the buffer is
// exhausted they are dropped rather than stalling step execution.
package stream
