/*
Package session implements the calculator session state machine.

A Session owns one domain.State and exposes the named commands a
presentation host issues (insert, backspace, evaluate, switch view, ...).
Every command runs to completion under the session lock, so readers never
observe a partial update, and no command returns an error: evaluation
failures are folded into the state's error flag.

The Manager keeps many sessions alive for multi-client hosts (HTTP, MCP)
and serialises multi-step interactions on the same session.
*/
package session
