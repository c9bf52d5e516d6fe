// Package app contains the core application logic. It loads form
// definitions, binds them to the compiled-in modules, instantiates the
// forms and drives them from a scenario script, the admin server or a
// socket.io render host, decoupled from any specific entrypoint.
package app
