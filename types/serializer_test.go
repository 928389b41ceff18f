package types

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/zkidlabs/stellar-zkid/util"
)

func TestHexBytesJSON(t *testing.T) {
	c := qt.New(t)

	b := HexBytes{0xde, 0xad, 0xbe, 0xef}
	data, err := json.Marshal(b)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `"deadbeef"`)

	var out HexBytes
	c.Assert(json.Unmarshal(data, &out), qt.IsNil)
	c.Assert(out, qt.DeepEquals, b)

	// a leading 0x is accepted on input
	c.Assert(json.Unmarshal([]byte(`"0xdeadbeef"`), &out), qt.IsNil)
	c.Assert(out, qt.DeepEquals, b)

	c.Assert(json.Unmarshal([]byte(`"zz"`), &out), qt.IsNotNil)
	c.Assert(out.String(), qt.Equals, "deadbeef")
}

func TestHexBytesRoundTrip(t *testing.T) {
	c := qt.New(t)

	raw := util.RandomBytes(32)
	data, err := json.Marshal(HexBytes(raw))
	c.Assert(err, qt.IsNil)

	var out HexBytes
	c.Assert(json.Unmarshal(data, &out), qt.IsNil)
	c.Assert([]byte(out), qt.DeepEquals, raw)

	s := "0x" + util.RandomHex(16)
	c.Assert(out.SetString(s), qt.IsNil)
	c.Assert(out.String(), qt.Equals, util.TrimHex(s))
}
