/*
Package depgraph answers one question for the form engine: when some fields
change, which other fields must re-validate?

Each field declares dependencies, either a symbolic group name shared with
other fields or a direct reference to another field's path. Two fields are
linked when they share a group name, or when either one references the
other.

Dependents is deliberately one hop. If B references A and C references B,
the dependents of A are [B]; C is not reached through B.
*/
package depgraph
