package engine

import (
	"context"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/stellar/go/keypair"
	"github.com/zkidlabs/stellar-zkid/soroban"
	"github.com/zkidlabs/stellar-zkid/types"
)

func TestUserLookup(t *testing.T) {
	c := qt.New(t)
	f := newFakeLedger(c)
	eng := newTestEngine(c, f)
	user := keypair.MustRandom().Address()

	record := scMap(
		"commitment_hash", soroban.BytesScVal([]byte{0x01, 0x02}),
		"timestamp", u64ScVal(1714608000),
		"attributes_verified", scMap(
			"age_over_18", soroban.BoolScVal(true),
			"document_type", soroban.U32ScVal(types.DocTypePassport),
		),
	)
	f.simRet["get_user_doc_count"] = soroban.U32ScVal(2)
	f.simRet["get_prepaid_credits"] = soroban.U32ScVal(1)
	f.simRet["check_verification"] = record
	f.simRet["get_user_document"] = record

	account, err := eng.User(context.Background(), user)
	c.Assert(err, qt.IsNil)
	c.Assert(account.Address, qt.Equals, user)
	c.Assert(account.Verified, qt.IsTrue)
	c.Assert(account.DocCount, qt.Equals, 2)
	c.Assert(account.PrepaidCredits, qt.Equals, 1)
	c.Assert(account.CommitmentHash.String(), qt.Equals, "0102")
	c.Assert(account.Attributes.DocumentType, qt.Equals, "Passport")
	c.Assert(account.Documents, qt.HasLen, 2)
	c.Assert(account.Documents[0].Index, qt.Equals, 0)
	c.Assert(account.Documents[1].Index, qt.Equals, 1)
}

func TestUserLookupNotVerified(t *testing.T) {
	c := qt.New(t)
	f := newFakeLedger(c)
	eng := newTestEngine(c, f)
	user := keypair.MustRandom().Address()

	f.simRet["get_user_doc_count"] = voidScVal()
	f.simRet["get_prepaid_credits"] = voidScVal()
	f.simRet["check_verification"] = voidScVal()
	_, err := eng.User(context.Background(), user)
	c.Assert(errors.Is(err, ErrUserNotVerified), qt.IsTrue)

	// a contract panic on an unknown user is also a miss, not a failure
	f.simErr["check_verification"] = "host function failed"
	_, err = eng.User(context.Background(), user)
	c.Assert(errors.Is(err, ErrUserNotVerified), qt.IsTrue)

	_, err = eng.User(context.Background(), "not an address")
	c.Assert(errors.Is(err, ErrInvalidRequest), qt.IsTrue)
}

func TestUserLookupSkipsBrokenDocuments(t *testing.T) {
	c := qt.New(t)
	f := newFakeLedger(c)
	eng := newTestEngine(c, f)
	user := keypair.MustRandom().Address()

	f.simRet["get_user_doc_count"] = soroban.U32ScVal(3)
	f.simRet["get_prepaid_credits"] = voidScVal()
	f.simRet["check_verification"] = scMap("timestamp", u64ScVal(1714608000))
	// every document read decodes to a non-map, so all three are skipped
	f.simRet["get_user_document"] = soroban.U32ScVal(1)

	account, err := eng.User(context.Background(), user)
	c.Assert(err, qt.IsNil)
	c.Assert(account.Verified, qt.IsTrue)
	c.Assert(account.DocCount, qt.Equals, 3)
	c.Assert(account.Documents, qt.HasLen, 0)
}
