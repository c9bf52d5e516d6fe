// Package scenario drives a form from a YAML event script, the way a widget
// host would, and checks expectations about the resulting view. Scripts are
// used by the CLI for headless runs and by integration tests.
package scenario
