package heaptype

import "errors"

// ErrNotImplemented is the sentinel error for continuation types
// (cont/nocont). No Basic or HeapTypeKind value denotes a continuation type,
// so no function in this module returns it; it exists so callers have a
// named error to compare against with errors.Is.
var ErrNotImplemented = errors.New("heaptype: continuation types are not implemented")
