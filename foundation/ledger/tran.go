package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidAmount is returned when a user submitted transaction carries a
// zero or negative amount.
var ErrInvalidAmount = errors.New("transaction amount must be strictly positive")

// =============================================================================

// Amount represents a monetary quantity in hundredths of the ledger's
// unit. Keeping amounts in integer hundredths makes arithmetic exact and
// the textual form canonical.
type Amount int64

// ParseAmount converts a decimal string like "12.50" into an Amount. At
// most two fractional digits are accepted.
func ParseAmount(value string) (Amount, error) {
	whole, frac, found := strings.Cut(value, ".")

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", value, err)
	}

	if !found {
		return Amount(w * 100), nil
	}

	if len(frac) == 0 || len(frac) > 2 {
		return 0, fmt.Errorf("parsing amount %q: fractional part must be 1 or 2 digits", value)
	}

	// ParseUint rejects a sign inside the fractional part.
	fu, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", value, err)
	}

	f := int64(fu)
	if len(frac) == 1 {
		f *= 10
	}

	if w < 0 || strings.HasPrefix(whole, "-") {
		return Amount(w*100 - f), nil
	}

	return Amount(w*100 + f), nil
}

// String formats the amount with exactly two decimal places.
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as its canonical decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON decodes the amount from its canonical decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	value, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}

	amount, err := ParseAmount(value)
	if err != nil {
		return err
	}

	*a = amount
	return nil
}

// =============================================================================

// Tran represents a monetary transfer between two addresses. A transaction
// is created pending and flips to settled exactly once, when the block
// that absorbed it is mined.
type Tran struct {
	ID          uuid.UUID `json:"id"`
	Sender      string    `json:"sender"`
	Receiver    string    `json:"receiver"`
	Amount      Amount    `json:"amount"`
	TimeStamp   uint64    `json:"timestamp"`
	Settled     bool      `json:"settled"`
	BlockNumber uint64    `json:"block_number,omitempty"`
}

// NewTran constructs a pending user transaction. The amount must be
// strictly positive.
func NewTran(sender string, receiver string, amount Amount, timeStamp uint64) (Tran, error) {
	if amount <= 0 {
		return Tran{}, ErrInvalidAmount
	}

	tx := Tran{
		ID:        uuid.New(),
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: timeStamp,
	}

	return tx, nil
}

// NewRewardTran constructs the pending system minted reward credited to
// the miner of a block. The reward stays pending until a future mining
// round settles it.
func NewRewardTran(receiver string, amount Amount, timeStamp uint64) Tran {
	return Tran{
		ID:        uuid.New(),
		Sender:    SystemAccount,
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: timeStamp,
	}
}

// Summary converts the transaction into the settled form recorded inside
// a block payload.
func (tx Tran) Summary() TranSummary {
	return TranSummary{
		Sender:    tx.Sender,
		Receiver:  tx.Receiver,
		Amount:    tx.Amount.String(),
		TimeStamp: tx.TimeStamp,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tran) String() string {
	return fmt.Sprintf("%s -> %s: %s", tx.Sender, tx.Receiver, tx.Amount)
}
