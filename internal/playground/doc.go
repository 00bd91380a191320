// Package playground serves an interactive page for trying out toasts.
//
// The server owns one notifier rendering into an in-memory document. Every
// change to the stack is serialized and pushed to connected browsers over
// WebSocket, so the browser shows exactly what the notifier built.
//
// # Endpoints
//
//	GET  /                     playground page
//	GET  /ws                   snapshot stream
//	GET  /state                current snapshot as JSON
//	POST /toasts               create a toast from an event
//	POST /toasts/{id}/dismiss  dismiss a toast
//	POST /promise              run a simulated operation
//	GET  /metrics              Prometheus metrics
//
// Requests are traced with OpenTelemetry and counted per route.
package playground
