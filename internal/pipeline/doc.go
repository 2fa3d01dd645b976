// Package pipeline drives the frame-accurate read, transform, and encode
// loop over a video asset.
//
// A Job owns its cubes, buffers, and encoder session; independent jobs share
// no mutable state and can run concurrently. Within a job the loop is
// sequential: frame N+1 is not touched until frame N has been transformed
// and handed to the sink, which keeps peak memory bounded to a single
// frame's working set.
//
// Job status fields are written only by the pipeline goroutine; observers
// read them through Snapshot or the Observer callbacks. Cancellation is
// cooperative and takes effect at the next loop boundary.
package pipeline
