package corpus

import "fmt"

// PersistenceError is a failed read or write of the cache file or the
// generated-subjects record. It is logged and never returned from the
// mutating operations: the in-memory corpus stays authoritative.
type PersistenceError struct {
	Op     string // "read", "decode", "encode" or "write"
	Target string // cache path or record key
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("corpus %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
