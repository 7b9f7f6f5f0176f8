// Package attrfs is an in-memory attribute layer in the style of a sysfs
// device class.
//
// A Class owns a flat namespace containing two kinds of entries:
//
//   - class attributes, fixed at construction, such as a write-only "export"
//     control file;
//   - nodes, published and unpublished at runtime, each carrying a typed data
//     value and exposing the class's node attribute group ("dyn7/field_a").
//
// Callers address entries by path, either "attr" or "node/attr", and use Read,
// Write and List the way a shell would use cat, echo and ls. Node attribute
// callbacks receive the data value supplied at Publish time; the class never
// interprets it.
//
// Publish is atomic with respect to name collision: of two concurrent Publish
// calls for the same name exactly one succeeds and the other gets ErrExists.
package attrfs
