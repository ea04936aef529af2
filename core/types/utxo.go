package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
)

type ScriptPubKey struct {
	Hex       string   `json:"hex"`
	Asm       string   `json:"asm,omitempty"`
	Type      string   `json:"type,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// AssetSlice is an asset amount attached to an output.
type AssetSlice struct {
	AssetId           string `json:"assetId"`
	Amount            int64  `json:"amount"`
	IssueTxid         string `json:"issueTxid"`
	Divisibility      int    `json:"divisibility"`
	LockStatus        bool   `json:"lockStatus"`
	AggregationPolicy string `json:"aggregationPolicy"`
}

// UTXO is an unspent output with its value in base units.
type UTXO struct {
	Txid         string       `json:"txid"`
	Index        uint32       `json:"index"`
	Value        int64        `json:"value"`
	BlockHeight  int64        `json:"blockheight,omitempty"`
	Used         bool         `json:"used,omitempty"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
	Assets       []AssetSlice `json:"assets,omitempty"`
}

func (u *UTXO) OutPoint() OutPointRef {
	return OutPointRef{Txid: u.Txid, Index: u.Index}
}

// Address returns the first address locking the output, or empty string.
func (u *UTXO) Address() string {
	if len(u.ScriptPubKey.Addresses) == 0 {
		return ""
	}
	return u.ScriptPubKey.Addresses[0]
}

// OutPointRef references an output by transaction id and output index.
type OutPointRef struct {
	Txid  string `json:"txid"`
	Index uint32 `json:"index"`
}

// ParseOutPointRef parses "txid:index".
func ParseOutPointRef(s string) (OutPointRef, error) {
	txid, rawIndex, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || txid == "" || rawIndex == "" {
		return OutPointRef{}, errors.Wrapf(errs.InvalidArgument, "invalid outpoint %q, expected txid:index", s)
	}
	index, err := strconv.ParseUint(rawIndex, 10, 32)
	if err != nil {
		return OutPointRef{}, errors.Wrapf(errs.InvalidArgument, "invalid outpoint index %q", rawIndex)
	}
	return OutPointRef{Txid: txid, Index: uint32(index)}, nil
}

func (o OutPointRef) String() string {
	return fmt.Sprintf("%s:%d", o.Txid, o.Index)
}

// UtxoSpec is one entry of an explicit input list. Either UTXO or Ref is set.
type UtxoSpec struct {
	UTXO *UTXO
	Ref  *OutPointRef
}

func NewUtxoSpecFromRef(ref OutPointRef) UtxoSpec {
	return UtxoSpec{Ref: &ref}
}

func NewUtxoSpecFromUTXO(utxo *UTXO) UtxoSpec {
	return UtxoSpec{UTXO: utxo}
}

// IsRef reports whether the spec still needs to be resolved.
func (s UtxoSpec) IsRef() bool {
	return s.UTXO == nil && s.Ref != nil
}

// MarshalJSON implements the json.Marshaler interface.
func (s UtxoSpec) MarshalJSON() ([]byte, error) {
	switch {
	case s.UTXO != nil:
		return json.Marshal(s.UTXO)
	case s.Ref != nil:
		return json.Marshal(s.Ref.String())
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts either a "txid:index" string or a full UTXO object.
func (s *UtxoSpec) UnmarshalJSON(input []byte) error {
	var raw string
	if err := json.Unmarshal(input, &raw); err == nil {
		ref, err := ParseOutPointRef(raw)
		if err != nil {
			return errors.WithStack(err)
		}
		*s = UtxoSpec{Ref: &ref}
		return nil
	}

	var utxo UTXO
	if err := json.Unmarshal(input, &utxo); err != nil {
		return errors.Wrap(errs.InvalidArgument, "utxo must be a txid:index string or an utxo object")
	}
	if utxo.Txid == "" {
		return errors.Wrap(errs.InvalidArgument, "utxo object requires txid")
	}
	*s = UtxoSpec{UTXO: &utxo}
	return nil
}
