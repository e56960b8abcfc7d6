// Package injection exposes an HTTP surface for hot-injecting configuration
// into a running registry service: partial config documents, individual tool
// and prompt bindings, additional scripts and a websocket channel that
// streams registry change events.  It is disabled unless a port is
// configured.
package injection
