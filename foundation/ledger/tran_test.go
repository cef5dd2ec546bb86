package ledger_test

import (
	"errors"
	"testing"

	"github.com/chainforge/ledger/foundation/ledger"
)

func TestParseAmount(t *testing.T) {
	type table struct {
		name  string
		value string
		want  ledger.Amount
		fails bool
	}

	tt := []table{
		{name: "whole", value: "10", want: 10_00},
		{name: "one frac digit", value: "12.5", want: 12_50},
		{name: "two frac digits", value: "12.50", want: 12_50},
		{name: "cents", value: "0.01", want: 1},
		{name: "negative", value: "-3.25", want: -3_25},
		{name: "negative cents", value: "-0.25", want: -25},
		{name: "too many frac digits", value: "1.234", fails: true},
		{name: "empty frac", value: "1.", fails: true},
		{name: "signed frac", value: "1.-5", fails: true},
		{name: "plus signed frac", value: "1.+5", fails: true},
		{name: "not a number", value: "abc", fails: true},
	}

	t.Log("Given the need to validate amount parsing.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen parsing %q.", testID, tst.value)
			{
				got, err := ledger.ParseAmount(tst.value)

				if tst.fails {
					if err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject the value.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the value.", success, testID)
					continue
				}

				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to parse the value: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to parse the value.", success, testID)

				if got != tst.want {
					t.Fatalf("\t%s\tTest %d:\tShould get %d hundredths: got %d.", failed, testID, tst.want, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get %d hundredths.", success, testID, tst.want)
			}
		}
	}
}

func TestAmountString(t *testing.T) {
	t.Log("Given the need to validate the canonical amount format.")
	{
		t.Log("\tTest 0:\tWhen formatting amounts.")
		{
			if got := ledger.Amount(25_50).String(); got != "25.50" {
				t.Fatalf("\t%s\tTest 0:\tShould format with two decimals: got %q.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould format with two decimals.", success)

			if got := ledger.Amount(5).String(); got != "0.05" {
				t.Fatalf("\t%s\tTest 0:\tShould pad sub unit amounts: got %q.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould pad sub unit amounts.", success)

			if got := ledger.Amount(-3_25).String(); got != "-3.25" {
				t.Fatalf("\t%s\tTest 0:\tShould carry the sign: got %q.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the sign.", success)
		}
	}
}

func TestNewTran(t *testing.T) {
	t.Log("Given the need to validate transaction construction.")
	{
		t.Log("\tTest 0:\tWhen creating a transaction with a positive amount.")
		{
			tx, err := ledger.NewTran("alice", "bob", 25_50, 1700000000)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the transaction: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to create the transaction.", success)

			if tx.Settled {
				t.Fatalf("\t%s\tTest 0:\tShould start in the pending state.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould start in the pending state.", success)
		}

		t.Log("\tTest 1:\tWhen creating a transaction with a zero amount.")
		{
			if _, err := ledger.NewTran("alice", "bob", 0, 1700000000); !errors.Is(err, ledger.ErrInvalidAmount) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrInvalidAmount: got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrInvalidAmount.", success)
		}

		t.Log("\tTest 2:\tWhen creating a transaction with a negative amount.")
		{
			if _, err := ledger.NewTran("alice", "bob", -1_00, 1700000000); !errors.Is(err, ledger.ErrInvalidAmount) {
				t.Fatalf("\t%s\tTest 2:\tShould get ErrInvalidAmount: got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get ErrInvalidAmount.", success)
		}

		t.Log("\tTest 3:\tWhen minting a mining reward.")
		{
			tx := ledger.NewRewardTran("miner1", 10_00, 1700000000)

			if tx.Sender != ledger.SystemAccount {
				t.Fatalf("\t%s\tTest 3:\tShould carry the system sender: got %q.", failed, tx.Sender)
			}
			t.Logf("\t%s\tTest 3:\tShould carry the system sender.", success)

			if tx.Settled {
				t.Fatalf("\t%s\tTest 3:\tShould start in the pending state.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould start in the pending state.", success)
		}
	}
}
