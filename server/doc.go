// Package server exposes the workflow engine over HTTP: a small REST surface
// for agent discovery and run history, and a websocket endpoint that accepts
// workflow submissions and streams run events back in order.
package server
