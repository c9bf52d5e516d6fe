// Package config defines the format-agnostic model of form definitions and
// the Loader interface that produces it.
//
// The `config.Model` is what the registry binds to Go business rules and
// submit handlers. Concrete loaders, such as the HCL one, live in separate
// packages.
package config
