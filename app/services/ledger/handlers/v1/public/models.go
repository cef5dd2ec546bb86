package public

import (
	"github.com/chainforge/ledger/foundation/ledger"
)

// submitTran is what a caller provides to record a new transaction.
type submitTran struct {
	Sender   string `json:"sender" validate:"required,max=100"`
	Receiver string `json:"receiver" validate:"required,max=100"`
	Amount   string `json:"amount" validate:"required"`
}

// mineRequest is what a caller provides to seal the pending transactions.
type mineRequest struct {
	MinerAddress string `json:"miner_address" validate:"required,max=100,alphanum"`
}

// tran represents a transaction in API responses.
type tran struct {
	ID          string `json:"id"`
	Sender      string `json:"sender"`
	Receiver    string `json:"receiver"`
	Amount      string `json:"amount"`
	TimeStamp   uint64 `json:"timestamp"`
	Settled     bool   `json:"settled"`
	BlockNumber uint64 `json:"block_number,omitempty"`
}

func toTran(tx ledger.Tran) tran {
	return tran{
		ID:          tx.ID.String(),
		Sender:      tx.Sender,
		Receiver:    tx.Receiver,
		Amount:      tx.Amount.String(),
		TimeStamp:   tx.TimeStamp,
		Settled:     tx.Settled,
		BlockNumber: tx.BlockNumber,
	}
}

func toTrans(txs []ledger.Tran) []tran {
	trans := make([]tran, len(txs))
	for i, tx := range txs {
		trans[i] = toTran(tx)
	}
	return trans
}

// summaryInfo represents ledger wide totals in API responses.
type summaryInfo struct {
	TotalBlocks           int    `json:"total_blocks"`
	TotalTransactions     int    `json:"total_transactions"`
	PendingTransactions   int    `json:"pending_transactions"`
	SettledTransactions   int    `json:"settled_transactions"`
	TotalValueTransferred string `json:"total_value_transferred"`
	CurrentDifficulty     int    `json:"current_difficulty"`
}

// block represents a block in API responses.
type block struct {
	Number        uint64           `json:"number"`
	TimeStamp     uint64           `json:"timestamp"`
	Data          ledger.BlockData `json:"data"`
	PrevBlockHash string           `json:"prev_block_hash"`
	Nonce         uint64           `json:"nonce"`
	Hash          string           `json:"hash"`
}

func toBlock(blk ledger.Block) block {
	return block{
		Number:        blk.Number,
		TimeStamp:     blk.TimeStamp,
		Data:          blk.Data,
		PrevBlockHash: blk.PrevBlockHash,
		Nonce:         blk.Nonce,
		Hash:          blk.Hash,
	}
}

func toBlocks(blks []ledger.Block) []block {
	blocks := make([]block, len(blks))
	for i, blk := range blks {
		blocks[i] = toBlock(blk)
	}
	return blocks
}
