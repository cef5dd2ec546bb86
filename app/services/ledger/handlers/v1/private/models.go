package private

// setDifficulty is what an operator provides to replace the difficulty.
type setDifficulty struct {
	Difficulty int `json:"difficulty" validate:"required,gte=1,lte=10"`
}

// setTargetTime is what an operator provides to replace the target block
// time, in seconds.
type setTargetTime struct {
	TargetBlockTime int `json:"target_block_time" validate:"required,gte=1,lte=300"`
}

// setInterval is what an operator provides to replace the retarget cadence.
type setInterval struct {
	AdjustmentInterval int `json:"adjustment_interval" validate:"required,gte=1,lte=100"`
}

// batchTrans is what an operator provides to generate fixture transactions.
type batchTrans struct {
	Count int `json:"count" validate:"required,gte=1,lte=1000"`
}

// batchMine is what an operator provides to mine a run of blocks.
type batchMine struct {
	Count        int    `json:"count" validate:"required,gte=1,lte=50"`
	MinerAddress string `json:"miner_address" validate:"required,max=100,alphanum"`
	AutoAdjust   bool   `json:"auto_adjust"`
}

// resetRequest guards the destructive reset behind an explicit confirm.
type resetRequest struct {
	Confirm bool `json:"confirm" validate:"required"`
}
