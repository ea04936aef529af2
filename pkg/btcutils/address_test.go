package btcutils_test

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/gaze-network/coloredcoins-network/pkg/btcutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPkScript(t *testing.T) {
	type Spec struct {
		Address          string
		AddressType      btcutils.AddressType
		ExpectedPkScript string // hex encoded
	}

	specs := []Spec{
		{
			Address:          "bc1qdx72th7e3z8zc5wdrdxweswfcne974pjneyjln",
			AddressType:      btcutils.AddressP2WPKH,
			ExpectedPkScript: "001469bca5dfd9888e2c51cd1b4cecc1c9c4f25f5432",
		},
		{
			Address:          "bc1pfd0zw2jwlpn4xckpr3dxpt7x0gw6wetuftxvrc4dt2qgn9azjuus65fug6",
			AddressType:      btcutils.AddressP2TR,
			ExpectedPkScript: "51204b5e272a4ef8675362c11c5a60afc67a1da7657c4accc1e2ad5a808997a29739",
		},
		{
			Address:          "3Ccte7SJz71tcssLPZy3TdWz5DTPeNRbPw",
			AddressType:      btcutils.AddressP2SH,
			ExpectedPkScript: "a91477e1a3d54f545d83869ae3a6b28b071422801d7b87",
		},
		{
			Address:          "1KrRZSShVkdc8J71CtY4wdw46Rx3BRLKyH",
			AddressType:      btcutils.AddressP2PKH,
			ExpectedPkScript: "76a914cecb25b53809991c7beef2d27bc2be49e78c684388ac",
		},
	}

	for _, spec := range specs {
		t.Run(spec.Address, func(t *testing.T) {
			assert.True(t, btcutils.IsAddress(spec.Address))

			addrType, err := btcutils.GetAddressType(spec.Address, &chaincfg.MainNetParams)
			require.NoError(t, err)
			assert.Equal(t, spec.AddressType, addrType)

			pkScript, err := btcutils.NewPkScript(spec.Address, &chaincfg.MainNetParams)
			require.NoError(t, err)
			assert.Equal(t, spec.ExpectedPkScript, hex.EncodeToString(pkScript))

			address, err := btcutils.PkScriptToAddress(pkScript, &chaincfg.MainNetParams)
			require.NoError(t, err)
			assert.Equal(t, spec.Address, address)
		})
	}
}

func TestIsAddressInvalid(t *testing.T) {
	assert.False(t, btcutils.IsAddress(""))
	assert.False(t, btcutils.IsAddress("some_invalid_address"))
	assert.False(t, btcutils.IsAddress("1KrRZSShVkdc8J71CtY4wdw46Rx3BRLKyH", &chaincfg.TestNet3Params))

	_, err := btcutils.NewPkScript("some_invalid_address")
	assert.Error(t, err)
}
