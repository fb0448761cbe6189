// Package shm maps named shared memory segments and lays memvector regions out in them.
//
// The package is instrumented with OpenTelemetry metrics and tracing (OTel Go API v1.30.0);
// without a Meter or Tracer in OpenOptions the no-op providers are used.
//
// Example usage:
//
//	seg, vec, err := shm.CreateVector[slot](ctx, shm.OpenOptions{Name: "slots"}, 1024)
//	// ...
//	defer seg.Close()
//
// and in another process:
//
//	seg, vec, err := shm.AttachVector[slot](ctx, shm.OpenOptions{Name: "slots", AttachTimeout: time.Second})
package shm
