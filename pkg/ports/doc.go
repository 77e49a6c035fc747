/*
Package ports defines the interfaces the crank pipeline consumes.

They decouple the signature locator and the source patcher from the concrete
file adapter, so both can run against an in-memory document in tests.

# Key Interfaces

  - LineReader: read access to normalized and raw host lines.
  - Document: LineReader plus 0-based insertion and 1-based deletion.
*/
package ports
