package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/internal/config"
	"github.com/gaze-network/coloredcoins-network/pkg/crypto"
	"github.com/spf13/cobra"
)

type generateKeypairCmdOptions struct {
	Path  string
	Force bool
}

func NewGenerateKeypairCommand() *cobra.Command {
	opts := &generateKeypairCmdOptions{}

	cmd := &cobra.Command{
		Use:   "generate-keypair",
		Short: "Generate new keypair for metadata encryption and a WIF wallet key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateKeypairHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Path, "path", "/data/keys", `Path to save to key pair file`)
	flags.BoolVar(&opts.Force, "force", false, `Replace the existing key pair without asking`)

	return cmd
}

func generateKeypairHandler(opts *generateKeypairCmdOptions, cmd *cobra.Command, _ []string) error {
	network := config.Load().Network
	if !network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", network.String())
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Generating key pair\n")
	client, err := crypto.Generate()
	if err != nil {
		return errors.Wrap(err, "generate key pair")
	}
	fmt.Fprintf(out, "Public key: %s\n", client.PublicKeyHex())

	if err := os.MkdirAll(opts.Path, 0o755); err != nil {
		return errors.Wrap(errs.SomethingWentWrong, "create directory")
	}

	privateKeyPath := path.Join(opts.Path, "priv.key")
	if _, err := os.Stat(privateKeyPath); err == nil && !opts.Force {
		fmt.Fprintf(out, "Existing private key found at %s\n[WARNING] THE EXISTING PRIVATE KEY WILL BE LOST\nType [replace] to replace existing private key: ", privateKeyPath)
		var ans string
		fmt.Fscanln(cmd.InOrStdin(), &ans)
		if ans != "replace" {
			fmt.Fprintf(out, "Keypair generation aborted\n")
			return nil
		}
	}

	if err := os.WriteFile(privateKeyPath, []byte(client.PrivateKeyHex()), 0o600); err != nil {
		return errors.Wrap(err, "write private key file")
	}
	fmt.Fprintf(out, "Private key saved at %s\n", privateKeyPath)

	wifKeyPath := path.Join(opts.Path, wifKeyFilename(network))
	wifKey, err := client.WIF(network.ChainParams())
	if err != nil {
		return errors.Wrap(err, "get WIF key")
	}
	if err := os.WriteFile(wifKeyPath, []byte(wifKey), 0o600); err != nil {
		return errors.Wrap(err, "write WIF private key file")
	}
	fmt.Fprintf(out, "WIF private key saved at %s\n", wifKeyPath)

	publicKeyPath := path.Join(opts.Path, "pub.key")
	if err := os.WriteFile(publicKeyPath, []byte(client.PublicKeyHex()), 0o644); err != nil {
		return errors.Wrap(errs.SomethingWentWrong, "write public key file")
	}
	fmt.Fprintf(out, "Public key saved at %s\n", publicKeyPath)
	return nil
}

func wifKeyFilename(network common.Network) string {
	return fmt.Sprintf("priv_wif_%s.key", network)
}
