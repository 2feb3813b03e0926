/*
Package domain contains the core domain models of the Abacus calculator.

It defines the values that flow through one evaluation request and the
snapshot a presentation host reads back. This package is kept pure and free
of external dependencies like I/O or evaluation engines, following Hexagonal
Architecture principles.

# Key Entities

  - AngleMode: Radians or Degrees; decides how trig calls are normalized.
  - ViewMode: The active panel (basic, scientific, history).
  - Outcome: The tagged result of one evaluation (Success or Failure).
  - HistoryEntry: An immutable pair of expression and result text.
  - State: The snapshot of a calculator session.
*/
package domain
