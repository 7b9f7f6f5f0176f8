// Package registry provides a generic thread-safe table of values indexed by key.
//
// It backs the node table of the attribute layer, where two properties matter:
// insertion must be atomic with respect to name collision, and lookups vastly
// outnumber mutations. Registry uses a sync.RWMutex for the latter.
//
// # Insert If Absent
//
// Add inserts only when the key is free and reports whether it did. The check
// and the insert happen under one write lock, so two concurrent Adds for the
// same key can never both succeed:
//
//	nodes := registry.New[string, *Node]()
//	if !nodes.Add("dyn7", node) {
//	    return ErrExists
//	}
//
// # Removal
//
// Remove deletes a key and hands back the value that was stored, which lets a
// caller tear down exactly the value it removed:
//
//	node, ok := nodes.Remove("dyn7")
//
// # Teardown
//
// Clear swaps in an empty table and returns the old one, so whatever was still
// registered can be reported after the fact:
//
//	for name := range nodes.Clear() {
//	    log.Printf("dropped %s", name)
//	}
package registry
