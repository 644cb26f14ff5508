// Package orchestrator wires a form definition source, the resolver, and a
// renderer registry into a single Generate call.
package orchestrator
