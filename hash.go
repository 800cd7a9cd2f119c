package main

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MintDigest computes the message that the mint authority signs: the keccak256
// hash of the recipient address (20 bytes) packed with a block hash (32 bytes).
// The contract computes the same digest from blockhash(blockNumberUsedInSig),
// so both sides must agree byte for byte.
func MintDigest(recipient common.Address, blockHash common.Hash) []byte {
	return crypto.Keccak256(recipient.Bytes(), blockHash.Bytes())
}

// MintSignedMessageHash wraps a mint digest in the EIP-191 personal-message
// envelope: keccak256("\x19Ethereum Signed Message:\n32" ++ digest). The prefix
// keeps authority signatures from being replayed as transactions or typed-data
// signatures.
func MintSignedMessageHash(digest []byte) []byte {
	return accounts.TextHash(digest)
}

// RecoverMintSigner recovers the address that signed the given mint digest.
// The signature must be 65 bytes; both 0/1 and 27/28 recovery ids are accepted.
func RecoverMintSigner(digest []byte, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(signature))
	}

	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, signature)

	// Normalize signature so that 27 -> 0, 28 -> 1.
	// For more context: https://github.com/ethereum/go-ethereum/issues/2053
	if normalized[64] == 27 || normalized[64] == 28 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return common.Address{}, errors.New("invalid signature recovery id")
	}

	signerPubkey, recoverErr := crypto.SigToPub(MintSignedMessageHash(digest), normalized)
	if recoverErr != nil {
		return common.Address{}, recoverErr
	}

	return crypto.PubkeyToAddress(*signerPubkey), nil
}

// SignMintApproval produces an authority signature over (recipient, blockHash).
// This is what the NFC chip's key computes out of band; it is exposed here for
// the `pmt sign` command and for tests.
func SignMintApproval(recipient common.Address, blockHash common.Hash, key *ecdsa.PrivateKey) ([]byte, error) {
	return SignRawMessage(MintSignedMessageHash(MintDigest(recipient, blockHash)), key, false)
}
