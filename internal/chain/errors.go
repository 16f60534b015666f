package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChunkName marks a chunk whose name has no recognized direction suffix.
	ErrInvalidChunkName = errors.New("invalid chunk name")
	// ErrMissingRequiredChunk marks an empty entrance or exit pool.
	ErrMissingRequiredChunk = errors.New("missing required chunk")
	// ErrNoMatchingExit marks a zero-length chain with no exit facing the entrance.
	ErrNoMatchingExit = errors.New("no matching exit")
	// ErrIncompleteChain is returned in strict mode for short or exit-less chains.
	ErrIncompleteChain = errors.New("incomplete chain")
)

// ChunkError ties a build failure to the chunk or pool that caused it.
type ChunkError struct {
	Chunk string // Chunk name, empty when a whole pool is at fault
	Role  string
	Err   error
}

func (e *ChunkError) Error() string {
	if e.Chunk == "" {
		return fmt.Sprintf("chain: %s pool: %v", e.Role, e.Err)
	}
	return fmt.Sprintf("chain: %s %q: %v", e.Role, e.Chunk, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
