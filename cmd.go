package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pmt",
		Short: "Signature-gated NFT mint relayer",
		Long: `pmt runs the relayer for a signature-gated NFT mint: it validates that a
mint request carries an authority signature over (recipient, block hash),
checks the per-address cap and mint deadline, and submits passing requests
to the contract from its own funded account.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(CreateServeCommand(), CreateSignCommand(), CreateHashCommand(), CreateVersionCommand())

	return rootCmd
}

func CreateServeCommand() *cobra.Command {
	var host string
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relayer API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServer(host, port)
		},
	}

	serveCmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host to bind the server to")
	serveCmd.Flags().IntVar(&port, "port", 8412, "Port to bind the server to")

	return serveCmd
}

// parseRecipientAndBlockHash validates the two flag values shared by the sign
// and hash commands.
func parseRecipientAndBlockHash(recipientRaw, blockHashRaw string) (common.Address, common.Hash, error) {
	if !addressPattern.MatchString(recipientRaw) {
		return common.Address{}, common.Hash{}, fmt.Errorf("--recipient must be a 0x-prefixed 20-byte hex address, got %q", recipientRaw)
	}
	if !blockHashPattern.MatchString(blockHashRaw) {
		return common.Address{}, common.Hash{}, errors.New("--block-hash must be a 0x-prefixed 32-byte hex value")
	}
	return common.HexToAddress(recipientRaw), common.HexToHash(blockHashRaw), nil
}

func CreateSignCommand() *cobra.Command {
	var recipientRaw, blockHashRaw string

	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a mint approval for (recipient, block hash) with the configured key",
		Long: `Produces the 65-byte authority signature over the mint digest. The signing
key is loaded the same way the relayer loads its own: PMT_PRIVATE_KEY,
PMT_AWS_SECRET_NAME, or PMT_KEYSTORE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, blockHash, parseErr := parseRecipientAndBlockHash(recipientRaw, blockHashRaw)
			if parseErr != nil {
				return parseErr
			}

			key, keyErr := SigningKeyFromEnv()
			if keyErr != nil {
				return keyErr
			}

			signature, signErr := SignMintApproval(recipient, blockHash, key)
			if signErr != nil {
				return signErr
			}

			cmd.Println("0x" + hex.EncodeToString(signature))
			return nil
		},
	}

	signCmd.Flags().StringVar(&recipientRaw, "recipient", "", "Recipient address the mint is bound to")
	signCmd.Flags().StringVar(&blockHashRaw, "block-hash", "", "Hash of the block the signature is bound to")

	return signCmd
}

func CreateHashCommand() *cobra.Command {
	var recipientRaw, blockHashRaw string

	hashCmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the mint digest and signed-message hash for (recipient, block hash)",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, blockHash, parseErr := parseRecipientAndBlockHash(recipientRaw, blockHashRaw)
			if parseErr != nil {
				return parseErr
			}

			digest := MintDigest(recipient, blockHash)
			cmd.Println("digest:         0x" + hex.EncodeToString(digest))
			cmd.Println("signed message: 0x" + hex.EncodeToString(MintSignedMessageHash(digest)))
			return nil
		},
	}

	hashCmd.Flags().StringVar(&recipientRaw, "recipient", "", "Recipient address the mint is bound to")
	hashCmd.Flags().StringVar(&blockHashRaw, "block-hash", "", "Hash of the block the signature is bound to")

	return hashCmd
}

func CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of this tool",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(PMTVersion())
		},
	}
}
