// Package bridge connects forms to a remote render host over socket.io.
//
// The host sends widget events (field:focus, field:change, field:blur,
// field:keypress) and form commands (form:submit, form:set, form:get), each
// with a {form, path, value, key} payload. The bridge applies them to the
// named form and pushes a form:view event whenever a bridged form's stored
// state changes. Problems with an incoming event are reported back as
// form:error rather than dropped silently.
package bridge
