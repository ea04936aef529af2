package types

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
)

type OperationKind string

const (
	OperationIssue OperationKind = "issue"
	OperationSend  OperationKind = "send"
	OperationBurn  OperationKind = "burn"
)

func ParseOperationKind(s string) (OperationKind, error) {
	switch kind := OperationKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case OperationIssue, OperationSend, OperationBurn:
		return kind, nil
	default:
		return "", errors.Wrapf(errs.Unsupported, "unknown operation type %q", s)
	}
}

func (k OperationKind) String() string {
	return string(k)
}

// Transfer is a destination of asset units.
type Transfer struct {
	Address string   `json:"address,omitempty"`
	PubKeys []string `json:"pubKeys,omitempty"`
	M       int      `json:"m,omitempty"`
	Amount  int64    `json:"amount"`
	AssetId string   `json:"assetId,omitempty"`
}

type Burn struct {
	AssetId string `json:"assetId"`
	Amount  int64  `json:"amount"`
}

// BuildFlags is forwarded to the transaction builder.
type BuildFlags struct {
	InjectPreviousOutput bool  `json:"injectPreviousOutput"`
	SplitChange          *bool `json:"splitChange,omitempty"`
}

// Encryption designates one userData section to be encrypted before upload.
// Without PubKey the section is encrypted to a generated shared key.
type Encryption struct {
	Key    string `json:"key"`
	PubKey string `json:"pubKey,omitempty"`
	Format string `json:"format,omitempty"`
	Type   string `json:"type,omitempty"`
}

type MetadataURL struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType,omitempty"`
	DataHash string `json:"dataHash,omitempty"`
}

type Metadata struct {
	AssetId     string         `json:"assetId,omitempty"`
	AssetName   string         `json:"assetName,omitempty"`
	Issuer      string         `json:"issuer,omitempty"`
	Description string         `json:"description,omitempty"`
	Urls        []MetadataURL  `json:"urls,omitempty"`
	UserData    map[string]any `json:"userData,omitempty"`
	Encryptions []Encryption   `json:"encryptions,omitempty"`
}

// AssetOperationRequest carries the arguments of an issue, send or burn operation.
// Utxos, TorrentHash, Sha1 and Sha2 are attached while the operation runs.
type AssetOperationRequest struct {
	IssueAddress      string         `json:"issueAddress,omitempty"`
	Amount            int64          `json:"amount,omitempty"`
	Divisibility      int            `json:"divisibility,omitempty"`
	Reissueable       bool           `json:"reissueable,omitempty"`
	AggregationPolicy string         `json:"aggregationPolicy,omitempty"`
	From              []string       `json:"from,omitempty"`
	SendUtxo          []UtxoSpec     `json:"sendutxo,omitempty"`
	To                []Transfer     `json:"to,omitempty"`
	Transfer          []Transfer     `json:"transfer,omitempty"`
	Burn              []Burn         `json:"burn,omitempty"`
	Fee               int64          `json:"fee,omitempty"`
	Flags             *BuildFlags    `json:"flags,omitempty"`
	Metadata          *Metadata      `json:"metadata,omitempty"`
	Rules             map[string]any `json:"rules,omitempty"`
	Transmit          *bool          `json:"transmit,omitempty"`

	Utxos       []*UTXO `json:"utxos,omitempty"`
	TorrentHash string  `json:"torrentHash,omitempty"`
	Sha1        string  `json:"sha1,omitempty"`
	Sha2        string  `json:"sha2,omitempty"`
}

// ShouldTransmit defaults to true.
func (r *AssetOperationRequest) ShouldTransmit() bool {
	return r.Transmit == nil || *r.Transmit
}

func (r *AssetOperationRequest) HasMetadata() bool {
	return r.Metadata != nil || len(r.Rules) > 0
}

// HasExternalMetadata reports whether the request references an uploaded metadata document.
func (r *AssetOperationRequest) HasExternalMetadata() bool {
	return r.TorrentHash != ""
}

// BuiltTransaction is the unsigned transaction returned by the builder.
type BuiltTransaction struct {
	TxHex                string `json:"txHex"`
	AssetId              string `json:"assetId,omitempty"`
	ColoredOutputIndexes []int  `json:"coloredOutputIndexes,omitempty"`
	MultisigOutputs      []any  `json:"multisigOutputs,omitempty"`
	Sha1                 string `json:"sha1,omitempty"`
	Txid                 string `json:"txid,omitempty"`
}

// AssetOperationResult is returned by issue, send and burn.
// Without transmission only SignedTxHex and PrivateKey are set.
type AssetOperationResult struct {
	Txid                 string     `json:"txid,omitempty"`
	TxHex                string     `json:"txHex,omitempty"`
	SignedTxHex          string     `json:"signedTxHex,omitempty"`
	AssetId              string     `json:"assetId,omitempty"`
	IssueAddress         string     `json:"issueAddress,omitempty"`
	ReceivingAddresses   []Transfer `json:"receivingAddresses,omitempty"`
	ColoredOutputIndexes []int      `json:"coloredOutputIndexes,omitempty"`
	MultisigOutputs      []any      `json:"multisigOutputs,omitempty"`
	PrivateKey           string     `json:"privateKey,omitempty"`
}
