package arena

import "errors"

// ErrIndexAlias is returned when a caller asks for two mutable references
// into the same slot (GetPair with equal indices). Unlike a slot-state
// violation this is a recoverable condition: the caller supplied two
// indices it believed were distinct.
var ErrIndexAlias = errors.New("arena: index alias")

// ErrNotOccupied is returned when an operation addresses a slot that is
// not currently occupied.
var ErrNotOccupied = errors.New("arena: index not occupied")
