// Package wallet is a key-store wallet signing legacy pay-to-pubkey-hash inputs.
package wallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/pkg/btcutils"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
)

// Wallet keeps WIF keys indexed by their P2PKH address.
type Wallet struct {
	params *chaincfg.Params

	mu         sync.RWMutex
	keys       map[string]*btcutil.WIF
	addresses  []string
	onRegister []func(address string)
}

func New(params *chaincfg.Params, wifs ...string) (*Wallet, error) {
	w := &Wallet{
		params: params,
		keys:   make(map[string]*btcutil.WIF),
	}
	for _, wif := range wifs {
		if _, err := w.AddKey(wif); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return w, nil
}

// AddKey imports a WIF key and notifies the register listeners of its address.
func (w *Wallet) AddKey(wifStr string) (string, error) {
	wif, err := btcutil.DecodeWIF(wifStr)
	if err != nil {
		return "", errors.Wrap(errs.InvalidArgument, "invalid WIF key")
	}
	if !wif.IsForNet(w.params) {
		return "", errors.Wrapf(errs.InvalidArgument, "WIF key is not for %s", w.params.Name)
	}
	return w.register(wif)
}

func (w *Wallet) register(wif *btcutil.WIF) (string, error) {
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(wif.SerializePubKey()), w.params)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive address")
	}
	address := addr.EncodeAddress()

	w.mu.Lock()
	if _, ok := w.keys[address]; ok {
		w.mu.Unlock()
		return address, nil
	}
	w.keys[address] = wif
	w.addresses = append(w.addresses, address)
	handlers := append([]func(string){}, w.onRegister...)
	w.mu.Unlock()

	for _, fn := range handlers {
		fn(address)
	}
	return address, nil
}

// GetAddresses returns the wallet addresses in registration order.
func (w *Wallet) GetAddresses(context.Context) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.addresses...), nil
}

func (w *Wallet) OnRegisterAddress(fn func(address string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onRegister = append(w.onRegister, fn)
}

// Discover is a no-op: every key is imported explicitly.
func (w *Wallet) Discover() {}

// Sign signs every input of an unsigned transaction. Each input must carry the
// pkScript of the output it spends in its signature script, as produced by a
// builder with previous output injection enabled.
func (w *Wallet) Sign(ctx context.Context, txHex string) (string, error) {
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return "", errors.Wrap(errs.InvalidArgument, "transaction hex is malformed")
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", errors.Wrap(errs.InvalidArgument, "can't decode transaction")
	}

	for i, txIn := range tx.TxIn {
		pkScript := txIn.SignatureScript
		if len(pkScript) == 0 {
			return "", errors.Wrapf(errs.InvalidArgument, "input %d has no previous output script", i)
		}
		address, err := btcutils.PkScriptToAddress(pkScript, w.params)
		if err != nil {
			return "", errors.Wrapf(err, "input %d", i)
		}
		addrType, err := btcutils.GetAddressType(address, w.params)
		if err != nil {
			return "", errors.Wrapf(err, "input %d", i)
		}
		if addrType != btcutils.AddressP2PKH {
			return "", errors.Wrapf(errs.Unsupported, "input %d spends a %s output, only P2PKH inputs can be signed", i, addrType)
		}

		w.mu.RLock()
		wif, ok := w.keys[address]
		w.mu.RUnlock()
		if !ok {
			return "", errors.Wrapf(errs.NotFound, "no key for address %s of input %d", address, i)
		}

		sigScript, err := txscript.SignatureScript(tx, i, pkScript, txscript.SigHashAll, wif.PrivKey, wif.CompressPubKey)
		if err != nil {
			return "", errors.Wrapf(err, "failed to sign input %d", i)
		}
		txIn.SignatureScript = sigScript
	}

	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	if err := tx.Serialize(&buf); err != nil {
		return "", errors.Wrap(err, "failed to serialize signed transaction")
	}
	logger.DebugContext(ctx, "Signed transaction", slogx.String("txid", tx.TxHash().String()), slogx.Int("inputs", len(tx.TxIn)))
	return hex.EncodeToString(buf.Bytes()), nil
}
