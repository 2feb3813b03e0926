/*
Package ports defines the driven ports (interfaces) of the Abacus core.

These interfaces decouple the session and gateway logic from concrete
implementations, so the core can be tested without a real evaluator and the
evaluation engine can be swapped without touching the state machine.

# Key Interfaces

  - Evaluator: Evaluates a normalized math expression string to a value.
*/
package ports
