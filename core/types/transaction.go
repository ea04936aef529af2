package types

import "github.com/samber/lo"

const (
	CCTypeIssuance = "issuance"
	CCTypeTransfer = "transfer"
	CCTypeBurn     = "burn"
)

// CCData is the decoded asset-protocol payload of a colored transaction.
type CCData struct {
	Type              string `json:"type"`
	Amount            int64  `json:"amount,omitempty"`
	LockStatus        bool   `json:"lockStatus,omitempty"`
	Divisibility      int    `json:"divisibility,omitempty"`
	AggregationPolicy string `json:"aggregationPolicy,omitempty"`
	TorrentHash       string `json:"torrentHash,omitempty"`
	Sha2              string `json:"sha2,omitempty"`
}

type PreviousOutput struct {
	Hex       string   `json:"hex,omitempty"`
	Addresses []string `json:"addresses"`
}

type TxInput struct {
	Txid           string          `json:"txid"`
	Vout           uint32          `json:"vout"`
	PreviousOutput *PreviousOutput `json:"previousOutput,omitempty"`
	Assets         []AssetSlice    `json:"assets,omitempty"`
}

type TxOutput struct {
	N            uint32       `json:"n"`
	Value        int64        `json:"value"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
	Assets       []AssetSlice `json:"assets,omitempty"`
}

type Transaction struct {
	Txid          string     `json:"txid"`
	Hex           string     `json:"hex,omitempty"`
	BlockHash     string     `json:"blockhash,omitempty"`
	BlockHeight   int64      `json:"blockheight"`
	BlockTime     int64      `json:"blocktime,omitempty"`
	Confirmations int64      `json:"confirmations"`
	Fee           int64      `json:"fee,omitempty"`
	TotalSent     int64      `json:"totalsent,omitempty"`
	Colored       bool       `json:"colored"`
	CCData        []CCData   `json:"ccdata,omitempty"`
	Vin           []TxInput  `json:"vin"`
	Vout          []TxOutput `json:"vout"`
}

// Addresses returns every address found in the spent previous outputs and the new outputs.
func (t *Transaction) Addresses() []string {
	addresses := make([]string, 0, len(t.Vin)+len(t.Vout))
	for _, in := range t.Vin {
		if in.PreviousOutput != nil {
			addresses = append(addresses, in.PreviousOutput.Addresses...)
		}
	}
	for _, out := range t.Vout {
		addresses = append(addresses, out.ScriptPubKey.Addresses...)
	}
	return lo.Uniq(addresses)
}

// IsIssuance reports whether the first asset payload is an issuance.
func (t *Transaction) IsIssuance() bool {
	return t.Colored && len(t.CCData) > 0 && t.CCData[0].Type == CCTypeIssuance
}

// AddressTransactions groups transactions fetched for one address.
type AddressTransactions struct {
	Address      string         `json:"address,omitempty"`
	Transactions []*Transaction `json:"transactions"`
}

type TransmitResult struct {
	Txid string `json:"txid"`
}
