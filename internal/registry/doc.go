// Package registry provides the central "glue" between declarative form
// definitions and Go code.
//
// The Registry stores mappings between the string identifiers used in form
// files (e.g., biz_rule = "field_match") and the Go factories that build
// business rules and submit handlers. It also holds the loaded, format-agnostic
// form definitions.
//
// During application startup the registry is populated and then validated,
// so that every name a form file references resolves to registered Go code
// before any form is created.
package registry
