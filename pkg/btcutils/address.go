package btcutils

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
)

// AddressType is the type of bitcoin address.
// It's an alias of txscript.ScriptClass
type AddressType = txscript.ScriptClass

// Types of bitcoin address
const (
	AddressP2WPKH = txscript.WitnessV0PubKeyHashTy
	AddressP2TR   = txscript.WitnessV1TaprootTy
	AddressP2SH   = txscript.ScriptHashTy
	AddressP2PKH  = txscript.PubKeyHashTy
	AddressP2WSH  = txscript.WitnessV0ScriptHashTy
)

var supportedNetworks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
}

// IsAddress returns whether or not the passed string is a valid bitcoin address and valid supported type.
//
// NetParams is optional. If provided, we only check for that network,
// otherwise, we check for all supported networks.
func IsAddress(address string, defaultNet ...*chaincfg.Params) bool {
	if len(address) == 0 {
		return false
	}

	if net, ok := utils.Optional(defaultNet); ok {
		_, _, err := parseAddress(address, net)
		return err == nil
	}

	for _, net := range supportedNetworks {
		if _, _, err := parseAddress(address, net); err == nil {
			return true
		}
	}
	return false
}

// GetAddressType returns the address type of the passed address.
func GetAddressType(address string, net *chaincfg.Params) (AddressType, error) {
	_, addrType, err := parseAddress(address, net)
	return addrType, errors.WithStack(err)
}

// NewPkScript creates a pubkey script(or witness program) from the given address string
//
// see: https://en.bitcoin.it/wiki/Script
func NewPkScript(address string, defaultNet ...*chaincfg.Params) ([]byte, error) {
	net := utils.DefaultOptional(defaultNet, &chaincfg.MainNetParams)
	decoded, _, err := parseAddress(address, net)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse address")
	}
	scriptPubkey, err := txscript.PayToAddrScript(decoded)
	if err != nil {
		return nil, errors.Wrap(err, "can't get script pubkey")
	}
	return scriptPubkey, nil
}

// PkScriptToAddress returns the single address paid by the given pkScript.
func PkScriptToAddress(pkScript []byte, net *chaincfg.Params) (string, error) {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, net)
	if err != nil {
		return "", errors.Wrap(err, "can't extract addresses from pkScript")
	}
	if len(addrs) != 1 {
		return "", errors.Wrap(errs.Unsupported, "pkScript must pay exactly one address")
	}
	return addrs[0].EncodeAddress(), nil
}

func parseAddress(address string, params *chaincfg.Params) (btcutil.Address, AddressType, error) {
	decoded, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "can't decode address `%s` for network `%s`", address, params.Name)
	}
	if !decoded.IsForNet(params) {
		return nil, 0, errors.Wrapf(errs.InvalidArgument, "address `%s` is not for network `%s`", address, params.Name)
	}

	switch decoded.(type) {
	case *btcutil.AddressWitnessPubKeyHash:
		return decoded, AddressP2WPKH, nil
	case *btcutil.AddressTaproot:
		return decoded, AddressP2TR, nil
	case *btcutil.AddressScriptHash:
		return decoded, AddressP2SH, nil
	case *btcutil.AddressPubKeyHash:
		return decoded, AddressP2PKH, nil
	case *btcutil.AddressWitnessScriptHash:
		return decoded, AddressP2WSH, nil
	default:
		return nil, 0, errors.Wrap(errs.Unsupported, "unsupported address type")
	}
}
