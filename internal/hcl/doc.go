// Package hcl provides the concrete HCL implementation of config.Loader. It
// is responsible for file discovery, parsing, form block translation and
// cty-to-Go value conversion.
package hcl
