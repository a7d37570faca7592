// Package history keeps a volatile, bounded record of workflow runs for the
// discovery API. The runner appends as it executes; the server reads. Records
// live in process memory only — durability of runs across restart is out of
// scope by design.
package history
