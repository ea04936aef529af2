package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	ecies "github.com/ecies/go/v2"
)

// Ciphertext encodings.
const (
	FormatBase64 = "base64"
	FormatHex    = "hex"
)

type Client struct {
	privateKey *btcec.PrivateKey
}

// New creates a client from a hex encoded private key.
// An empty key creates an encrypt only client.
func New(privateKeyStr string) (*Client, error) {
	if privateKeyStr == "" {
		return &Client{}, nil
	}
	privateKeyBytes, err := hex.DecodeString(privateKeyStr)
	if err != nil {
		return nil, errors.Wrap(err, "decode private key")
	}
	if len(privateKeyBytes) != btcec.PrivKeyBytesLen {
		return nil, errors.Wrapf(errs.InvalidArgument, "private key must be %d bytes", btcec.PrivKeyBytesLen)
	}
	privateKey, _ := btcec.PrivKeyFromBytes(privateKeyBytes)
	return &Client{privateKey: privateKey}, nil
}

// Generate creates a client holding a new random keypair.
func Generate() (*Client, error) {
	eciesPrivateKey, err := ecies.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return New(eciesPrivateKey.Hex())
}

// PrivateKeyHex returns the hex encoded private key.
func (c *Client) PrivateKeyHex() string {
	if c.privateKey == nil {
		return ""
	}
	return hex.EncodeToString(c.privateKey.Serialize())
}

// PublicKeyHex returns the compressed public key in hex.
func (c *Client) PublicKeyHex() string {
	if c.privateKey == nil {
		return ""
	}
	return hex.EncodeToString(c.privateKey.PubKey().SerializeCompressed())
}

func (c *Client) WIF(net *chaincfg.Params) (string, error) {
	if c.privateKey == nil {
		return "", errors.Wrap(errs.InvalidArgument, "client has no private key")
	}
	wif, err := btcutil.NewWIF(c.privateKey, net, true)
	if err != nil {
		return "", errors.Wrap(err, "new wif")
	}
	return wif.String(), nil
}

// EncryptFormat encrypts message to the given public key. The ciphertext is
// hex encoded for FormatHex and base64 encoded otherwise.
func (c *Client) EncryptFormat(message, pubKeyStr, format string) (string, error) {
	pubKey, err := ecies.NewPublicKeyFromHex(pubKeyStr)
	if err != nil {
		return "", errors.Wrap(err, "parse pubkey")
	}

	ciphertext, err := ecies.Encrypt(pubKey, []byte(message))
	if err != nil {
		return "", errors.Wrap(err, "encrypt message")
	}

	if strings.EqualFold(format, FormatHex) {
		return hex.EncodeToString(ciphertext), nil
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
