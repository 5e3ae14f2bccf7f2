package calyx

import (
	"fmt"
	"io"
	"strconv"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// SimOutput is the JSON document the Calyx simulator prints at exit.
type SimOutput struct {
	Cycles   uint32             `json:"cycles"`
	Memories map[string][]Value `json:"memories"`
}

// ReadSimOutput decodes a simulator output document from r.
func ReadSimOutput(r io.Reader) (*SimOutput, error) {
	out := new(SimOutput)
	if err := jsonv2.UnmarshalRead(r, out, jsonv2.RejectUnknownMembers(false)); err != nil {
		return nil, fmt.Errorf("failed to parse simulator output: %w", err)
	}
	return out, nil
}

// Value is one memory cell of simulator output. The simulator prints
// numbers for plain cells and strings for anything it cannot represent
// as an unsigned number.
type Value struct {
	num   uint32
	str   string
	isNum bool
}

// Num returns a numeric Value.
func Num(n uint32) Value {
	return Value{num: n, isNum: true}
}

// Str returns a string Value.
func Str(s string) Value {
	return Value{str: s}
}

// IsNum reports whether v holds a number.
func (v Value) IsNum() bool {
	return v.isNum
}

// Num returns the numeric value, or 0 for string cells.
func (v Value) Num() uint32 {
	return v.num
}

// String returns the cell as printed by the simulator.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatUint(uint64(v.num), 10)
	}
	return v.str
}

// UnmarshalJSONFrom implements jsonv2.UnmarshalerFrom.
func (v *Value) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	switch k := dec.PeekKind(); k {
	case '"':
		var s string
		if err := jsonv2.UnmarshalDecode(dec, &s); err != nil {
			return err
		}
		*v = Str(s)
	case '0':
		var n uint32
		if err := jsonv2.UnmarshalDecode(dec, &n); err != nil {
			return err
		}
		*v = Num(n)
	default:
		return fmt.Errorf("memory cell must be a string or number, got %v", k)
	}
	return nil
}

// MarshalJSONTo implements jsonv2.MarshalerTo.
func (v Value) MarshalJSONTo(enc *jsontext.Encoder) error {
	if v.isNum {
		return jsonv2.MarshalEncode(enc, v.num)
	}
	return jsonv2.MarshalEncode(enc, v.str)
}
