package usecase

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/crypto"
	"github.com/samber/lo"
)

// externalizeMetadata encrypts and uploads the metadata of op and attaches the
// returned references. It returns the hex private key of the shared encryption
// key when one was generated.
func (u *Usecase) externalizeMetadata(ctx context.Context, op *types.AssetOperationRequest) (string, error) {
	if !op.HasMetadata() {
		return "", nil
	}
	if u.metadata == nil {
		return "", errors.Wrap(errs.Unsupported, "metadata server is not configured")
	}

	doc := &types.MetadataDocument{Rules: op.Rules}
	var privateKey string
	if op.Metadata != nil {
		encrypted, key, err := encryptMetadata(op.Metadata)
		if err != nil {
			return "", errs.WithKind(errors.Wrap(err, "failed to encrypt metadata"), errs.EncryptionFailed)
		}
		doc.Data = encrypted
		privateKey = key
		op.Metadata = encrypted
	}

	ref, err := u.metadata.Upload(ctx, doc)
	if err != nil {
		return "", errors.Wrap(err, "failed to upload metadata")
	}
	op.TorrentHash = ref.TorrentHash
	op.Sha1 = ref.Sha1
	op.Sha2 = ref.Sha2
	return privateKey, nil
}

// encryptMetadata replaces every userData section named by an encryption
// entry with its ECIES ciphertext, base64 unless the entry asks for hex. Entries without a public key share
// one generated key, whose private key is returned.
func encryptMetadata(md *types.Metadata) (*types.Metadata, string, error) {
	if len(md.Encryptions) == 0 || len(md.UserData) == 0 {
		return md, "", nil
	}

	out := *md
	out.UserData = lo.Assign(md.UserData)
	encryptor, err := crypto.New("")
	if err != nil {
		return nil, "", errors.WithStack(err)
	}

	var shared *crypto.Client
	for _, enc := range md.Encryptions {
		section, ok := out.UserData[enc.Key]
		if !ok || section == nil {
			continue
		}
		pubKey := enc.PubKey
		if pubKey == "" {
			if shared == nil {
				if shared, err = crypto.Generate(); err != nil {
					return nil, "", errors.Wrap(err, "failed to generate shared key")
				}
			}
			pubKey = shared.PublicKeyHex()
		}

		plaintext, err := sectionPlaintext(section)
		if err != nil {
			return nil, "", errors.Wrapf(err, "userData section %q", enc.Key)
		}
		ciphertext, err := encryptor.EncryptFormat(plaintext, pubKey, enc.Format)
		if err != nil {
			return nil, "", errors.Wrapf(err, "userData section %q", enc.Key)
		}
		out.UserData[enc.Key] = ciphertext
	}

	if shared == nil {
		return &out, "", nil
	}
	return &out, shared.PrivateKeyHex(), nil
}

func sectionPlaintext(section any) (string, error) {
	if s, ok := section.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(section)
	if err != nil {
		return "", errors.Wrap(err, "can't marshal section")
	}
	return string(raw), nil
}

// DownloadMetadata fetches an uploaded metadata document.
func (u *Usecase) DownloadMetadata(ctx context.Context, torrentHash string) (*types.MetadataDocument, error) {
	if u.metadata == nil {
		return nil, errors.Wrap(errs.Unsupported, "metadata server is not configured")
	}
	if torrentHash == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "torrent hash is required")
	}
	doc, err := u.metadata.Download(ctx, torrentHash)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return doc, nil
}
