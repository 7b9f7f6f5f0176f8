// Package dynexport implements a dynamic resource registry driven through an
// attribute class, in the manner of a sysfs "export"/"unexport" device class.
//
// Writing a number to the class's write-only "export" attribute creates a
// Record with that id and publishes a node named after it ("dyn7"). The node
// exposes two read-write integer attributes, field_a and field_b. Writing the
// same number to "unexport" removes the node and releases the Record.
//
// # Basic Usage
//
//	reg, err := dynexport.Initialize(dynexport.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer reg.Shutdown(ctx)
//
//	class := reg.Class()
//	_ = class.Write("export", "7")
//	_ = class.Write("dyn7/field_a", "42")
//	v, _ := class.Read("dyn7/field_a") // "42"
//	_ = class.Write("unexport", "7")
//
// Create and Destroy are also available directly for callers that hold the
// Registry.
//
// # Concurrency
//
// One mutex serializes Create, Destroy and the Shutdown sweep. Field reads
// and writes never take it: the attribute layer dispatches them straight to
// the Record it was given at publish time. A Record is invalidated before its
// node can be reused, and invalidation waits for in-flight field accesses, so
// a field access racing Destroy of the same record either completes against
// the live record or fails with ErrReleased.
//
// # Shutdown
//
// Shutdown destroys every live record, logging rather than returning per
// record failures, then unregisters the class. Afterwards no records and no
// nodes remain and further Create or Destroy calls fail with ErrClosed.
package dynexport
