package soroban

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSimulationMinFee(t *testing.T) {
	c := qt.New(t)

	sim := &SimulationResult{MinResourceFee: "58705"}
	fee, err := sim.MinFee()
	c.Assert(err, qt.IsNil)
	c.Assert(fee, qt.Equals, int64(58705))

	// a fee that does not parse must never be treated as zero
	for _, raw := range []string{"", "garbage", "1.5"} {
		sim = &SimulationResult{MinResourceFee: raw}
		_, err = sim.MinFee()
		c.Assert(err, qt.IsNotNil, qt.Commentf("minResourceFee %q", raw))
	}
}

func TestTransactionStatusTerminal(t *testing.T) {
	c := qt.New(t)

	for status, terminal := range map[string]bool{
		TxStatusSuccess:  true,
		TxStatusFailed:   true,
		TxStatusNotFound: false,
		TxStatusPending:  false,
	} {
		ts := &TransactionStatus{Status: status}
		c.Assert(ts.Terminal(), qt.Equals, terminal, qt.Commentf("status %s", status))
	}
}
