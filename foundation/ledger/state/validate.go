package state

import (
	"fmt"
)

// IntegrityReason identifies the kind of chain integrity failure.
type IntegrityReason int

// The set of chain integrity failures.
const (
	ReasonInvalidHash IntegrityReason = iota
	ReasonInvalidLinkage
)

// IntegrityError reports a chain integrity failure at a specific block.
// The validator never attempts repair.
type IntegrityError struct {
	Number uint64
	Reason IntegrityReason
}

// Error implements the error interface.
func (ie *IntegrityError) Error() string {
	switch ie.Reason {
	case ReasonInvalidLinkage:
		return fmt.Sprintf("block %d has invalid previous hash", ie.Number)
	default:
		return fmt.Sprintf("block %d has invalid hash", ie.Number)
	}
}

// =============================================================================

// ValidateChain walks the stored chain and checks hash integrity and
// linkage. Genesis is trusted by construction and skipped. The audit is
// read-only and short-circuits on the first failure.
func (s *State) ValidateChain() error {
	blocks, err := s.storage.AllBlocks()
	if err != nil {
		return err
	}

	for i, block := range blocks {
		if i == 0 {
			continue
		}

		s.evHandler("state: ValidateChain: validate: blk[%d]: check: hash matches recomputation", block.Number)

		if block.Hash != block.HashValue() {
			return &IntegrityError{Number: block.Number, Reason: ReasonInvalidHash}
		}

		s.evHandler("state: ValidateChain: validate: blk[%d]: check: previous hash matches parent", block.Number)

		if block.PrevBlockHash != blocks[i-1].Hash {
			return &IntegrityError{Number: block.Number, Reason: ReasonInvalidLinkage}
		}
	}

	return nil
}
