// internal/fieldpath/doc.go

/*
Package fieldpath provides a structured representation for field
identifiers inside a form, based on the canonical dotted format.

A path such as `address.city` names the field `city` nested in the
`address` scope. The same path type is used as the key of scope trees,
the dependency graph, and the persisted form state.
*/
package fieldpath
