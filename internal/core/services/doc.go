// Package services implements the driving port interfaces.
// Services contain the core retrieval logic and orchestrate
// calls to driven ports (adapters).
//
// Services depend only on the domain, the ports and the process-wide
// logger and tracer.
package services
