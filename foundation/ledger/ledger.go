// Package ledger implements the core data model for the chain: blocks,
// transactions, the canonical digest, and the proof of work search.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ZeroHash is the previous hash value carried by the genesis block. It is
// a sentinel, not a digest.
const ZeroHash = "0"

// SystemAccount is the reserved sender for system minted mining rewards.
const SystemAccount = "SYSTEM"

// ErrMiningCancelled is returned when the proof of work search is cancelled
// through the context before a solution is found.
var ErrMiningCancelled = errors.New("mining cancelled")

// ErrMiningTimedOut is returned when the proof of work search exhausts the
// configured attempt budget before a solution is found.
var ErrMiningTimedOut = errors.New("mining timed out: attempt budget exhausted")

// =============================================================================

// TranSummary is the settled form of a transaction as recorded inside a
// block payload. Amounts are fixed to two decimal places so the payload
// serialization stays canonical across runs.
type TranSummary struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Amount    string `json:"amount"`
	TimeStamp uint64 `json:"timestamp"`
}

// BlockData represents the payload carried by a block. The genesis block
// carries a marker message, every other block carries the transactions
// that were settled into it.
type BlockData struct {
	Message string        `json:"message,omitempty"`
	Trans   []TranSummary `json:"transactions,omitempty"`
}

// Block represents the chained, mined unit of the ledger. Once a block has
// been mined and persisted it is immutable and is referenced by its
// successor only through the PrevBlockHash value.
type Block struct {
	Number        uint64    `json:"number"`
	TimeStamp     uint64    `json:"timestamp"`
	Data          BlockData `json:"data"`
	PrevBlockHash string    `json:"prev_block_hash"`
	Nonce         uint64    `json:"nonce"`
	Hash          string    `json:"hash"`
}

// NewBlock constructs the candidate block that follows prevBlock. The
// candidate starts with nonce 0 and a provisional hash and still needs to
// be mined before it can be appended to the chain.
func NewBlock(prevBlock Block, timeStamp uint64, data BlockData) Block {
	b := Block{
		Number:        prevBlock.Number + 1,
		TimeStamp:     timeStamp,
		Data:          data,
		PrevBlockHash: prevBlock.Hash,
		Nonce:         0,
	}
	b.Hash = b.HashValue()

	return b
}

// NewGenesisBlock constructs the trusted first block of the chain. The
// genesis block is exempt from the proof of work requirement.
func NewGenesisBlock(timeStamp uint64, message string) Block {
	b := Block{
		Number:        0,
		TimeStamp:     timeStamp,
		Data:          BlockData{Message: message},
		PrevBlockHash: ZeroHash,
		Nonce:         0,
	}
	b.Hash = b.HashValue()

	return b
}

// HashValue computes the canonical digest over the block's content. The
// payload is serialized with json.Marshal which keeps struct field order
// stable, so identical inputs produce identical digests across runs.
func (b Block) HashValue() string {
	data, err := json.Marshal(b.Data)
	if err != nil {

		// BlockData contains only strings and integers so marshaling
		// cannot fail. Guard anyway so the digest stays a total function.
		data = []byte("{}")
	}

	content := fmt.Sprintf("%d%d%s%s%d", b.Number, b.TimeStamp, data, b.PrevBlockHash, b.Nonce)
	hash := sha256.Sum256([]byte(content))

	return hex.EncodeToString(hash[:])
}

// PerformPOW runs the proof of work search for the block: increment the
// nonce and recompute the digest until the first difficulty characters of
// the hex digest are all zero. Pointer semantics are being used since a
// nonce is being discovered. Only Nonce and Hash are touched.
//
// A budget of 0 means the search is unbounded aside from ctx cancellation.
func (b *Block) PerformPOW(ctx context.Context, difficulty int, budget uint64, ev func(v string, args ...any)) error {
	ev("ledger: PerformPOW: MINING: started: block[%d] difficulty[%d]", b.Number, difficulty)
	defer ev("ledger: PerformPOW: MINING: completed: block[%d]", b.Number)

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("ledger: PerformPOW: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("ledger: PerformPOW: MINING: CANCELLED")
			return ErrMiningCancelled
		}

		if budget > 0 && attempts > budget {
			ev("ledger: PerformPOW: MINING: TIMED OUT: attempts[%d]", attempts)
			return ErrMiningTimedOut
		}

		b.Hash = b.HashValue()
		if !isHashSolved(difficulty, b.Hash) {
			b.Nonce++
			continue
		}

		ev("ledger: PerformPOW: MINING: SOLVED: block[%d] nonce[%d] hash[%s]", b.Number, b.Nonce, b.Hash)
		ev("ledger: PerformPOW: MINING: attempts[%d]", attempts)

		return nil
	}
}

// isHashSolved checks the hash complies with the POW rules. We need to
// match a difficulty number of leading '0' characters.
func isHashSolved(difficulty int, hash string) bool {
	const match = "0000000000"

	if difficulty < 0 || difficulty > len(match) || len(hash) != 64 {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
