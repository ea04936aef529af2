package types

// WalletAsset is one asset slice held by a wallet output.
type WalletAsset struct {
	Address           string `json:"address"`
	Txid              string `json:"txid"`
	Index             uint32 `json:"index"`
	AssetId           string `json:"assetId"`
	Amount            int64  `json:"amount"`
	IssueTxid         string `json:"issueTxid"`
	Divisibility      int    `json:"divisibility"`
	LockStatus        bool   `json:"lockStatus"`
	AggregationPolicy string `json:"aggregationPolicy"`
	AssetIndex        int    `json:"assetIndex"`
}

// IssuedAsset is an asset issued by one of the wallet addresses.
type IssuedAsset struct {
	IssueTxid         string   `json:"issueTxid"`
	Txid              string   `json:"txid"`
	AssetId           string   `json:"assetId"`
	Address           string   `json:"address"`
	Amount            int64    `json:"amount"`
	Divisibility      int      `json:"divisibility"`
	LockStatus        bool     `json:"lockStatus"`
	AggregationPolicy string   `json:"aggregationPolicy"`
	OutputIndexes     []uint32 `json:"outputIndexes"`
}

// PartialAssetMetadata is the display subset of an asset metadata document.
type PartialAssetMetadata struct {
	AssetId     string `json:"assetId"`
	AssetName   string `json:"assetName,omitempty"`
	Description string `json:"description,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
	Icon        string `json:"icon,omitempty"`
	LargeIcon   string `json:"large_icon,omitempty"`
}

// MetadataDocument is the metadata of an issuance or an utxo.
type MetadataDocument struct {
	Data  *Metadata      `json:"data,omitempty"`
	Rules map[string]any `json:"rules,omitempty"`
}

// AssetMetadata is the metadata returned by the colored coins API.
type AssetMetadata struct {
	AssetId             string            `json:"assetId"`
	AssetName           string            `json:"assetName,omitempty"`
	Description         string            `json:"description,omitempty"`
	Issuer              string            `json:"issuer,omitempty"`
	Icon                string            `json:"icon,omitempty"`
	LargeIcon           string            `json:"large_icon,omitempty"`
	Divisibility        int               `json:"divisibility,omitempty"`
	LockStatus          bool              `json:"lockStatus,omitempty"`
	AggregationPolicy   string            `json:"aggregationPolicy,omitempty"`
	TotalSupply         int64             `json:"totalSupply,omitempty"`
	NumOfHolders        int64             `json:"numOfHolders,omitempty"`
	NumOfTransfers      int64             `json:"numOfTransfers,omitempty"`
	NumOfIssuance       int64             `json:"numOfIssuance,omitempty"`
	NumOfBurns          int64             `json:"numOfBurns,omitempty"`
	FirstBlock          int64             `json:"firstBlock,omitempty"`
	IssuanceTxid        string            `json:"issuanceTxid,omitempty"`
	IssueAddress        string            `json:"issueAddress,omitempty"`
	MetadataOfIssuance  *MetadataDocument `json:"metadataOfIssuence,omitempty"`
	MetadataOfUtxo      *MetadataDocument `json:"metadataOfUtxo,omitempty"`
	SomeUtxo            string            `json:"someUtxo,omitempty"`
	PartialMetadataOnly bool              `json:"-"`
}

// Partial extracts the display fields, preferring the utxo metadata over the issuance metadata.
func (m *AssetMetadata) Partial() PartialAssetMetadata {
	partial := PartialAssetMetadata{AssetId: m.AssetId}

	doc := m.MetadataOfUtxo
	if doc == nil {
		doc = m.MetadataOfIssuance
	}
	if doc != nil && doc.Data != nil {
		partial.AssetName = doc.Data.AssetName
		partial.Description = doc.Data.Description
		partial.Issuer = doc.Data.Issuer
		for _, url := range doc.Data.Urls {
			switch url.Name {
			case "icon":
				partial.Icon = url.URL
			case "large_icon":
				partial.LargeIcon = url.URL
			}
		}
		return partial
	}

	partial.AssetName = m.AssetName
	partial.Description = m.Description
	partial.Issuer = m.Issuer
	partial.Icon = m.Icon
	partial.LargeIcon = m.LargeIcon
	return partial
}

// ApplyPartial overwrites the display fields with the given partial metadata.
func (m *AssetMetadata) ApplyPartial(partial PartialAssetMetadata) {
	m.AssetId = partial.AssetId
	m.AssetName = partial.AssetName
	m.Description = partial.Description
	m.Issuer = partial.Issuer
	m.Icon = partial.Icon
	m.LargeIcon = partial.LargeIcon
}

type AddressInfo struct {
	Address string  `json:"address"`
	Utxos   []*UTXO `json:"utxos"`
}

type StakeHolder struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

type StakeHolders struct {
	AssetId           string        `json:"assetId"`
	Holders           []StakeHolder `json:"holders"`
	Divisibility      int           `json:"divisibility"`
	LockStatus        bool          `json:"lockStatus"`
	AggregationPolicy string        `json:"aggregationPolicy"`
	SomeUtxo          string        `json:"someUtxo,omitempty"`
}

// MetadataRef identifies an uploaded metadata document.
type MetadataRef struct {
	TorrentHash string `json:"torrentHash"`
	Sha1        string `json:"sha1,omitempty"`
	Sha2        string `json:"sha2,omitempty"`
}
