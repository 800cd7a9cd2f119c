package main

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestMintDigestMatchesManualConstruction(t *testing.T) {
	recipient := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	blockHash := common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")

	digest := MintDigest(recipient, blockHash)

	packed := append(recipient.Bytes(), blockHash.Bytes()...)
	expected := crypto.Keccak256(packed)
	if !bytes.Equal(digest, expected) {
		t.Fatalf("digest does not match keccak256(recipient ++ blockHash): got %x, want %x", digest, expected)
	}

	if !bytes.Equal(digest, MintDigest(recipient, blockHash)) {
		t.Error("digest is not deterministic")
	}
}

func TestSignedMessageHashUsesPersonalMessagePrefix(t *testing.T) {
	recipient := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	blockHash := common.HexToHash("0x2222222222222222222222222222222222222222222222222222222222222222")
	digest := MintDigest(recipient, blockHash)

	// The contract computes keccak256("\x19Ethereum Signed Message:\n32" ++ digest)
	// from its own copy of the digest. Both computations must agree byte for byte.
	expected := crypto.Keccak256([]byte("\x19Ethereum Signed Message:\n32"), digest)
	if !bytes.Equal(MintSignedMessageHash(digest), expected) {
		t.Fatalf("signed message hash does not match the EIP-191 construction")
	}
}

func TestSignAndRecoverRoundTrip(t *testing.T) {
	key, keyErr := crypto.GenerateKey()
	if keyErr != nil {
		t.Fatalf("failed to generate key: %v", keyErr)
	}
	authority := crypto.PubkeyToAddress(key.PublicKey)

	recipient := common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB")
	blockHash := common.HexToHash("0x3333333333333333333333333333333333333333333333333333333333333333")

	signature, signErr := SignMintApproval(recipient, blockHash, key)
	if signErr != nil {
		t.Fatalf("failed to sign: %v", signErr)
	}
	if len(signature) != 65 {
		t.Fatalf("expected 65-byte signature, got %d bytes", len(signature))
	}
	if signature[64] != 27 && signature[64] != 28 {
		t.Errorf("expected shifted v-byte (27 or 28), got %d", signature[64])
	}

	recovered, recoverErr := RecoverMintSigner(MintDigest(recipient, blockHash), signature)
	if recoverErr != nil {
		t.Fatalf("failed to recover signer: %v", recoverErr)
	}
	if recovered != authority {
		t.Errorf("recovered %s, want %s", recovered.Hex(), authority.Hex())
	}
}

func TestRecoverAcceptsUnshiftedRecoveryID(t *testing.T) {
	key, _ := crypto.GenerateKey()
	authority := crypto.PubkeyToAddress(key.PublicKey)

	recipient := common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC")
	blockHash := common.HexToHash("0x4444444444444444444444444444444444444444444444444444444444444444")

	digest := MintDigest(recipient, blockHash)
	signature, signErr := SignRawMessage(MintSignedMessageHash(digest), key, true)
	if signErr != nil {
		t.Fatalf("failed to sign: %v", signErr)
	}
	if signature[64] > 1 {
		t.Fatalf("sensible signature should carry v in {0,1}, got %d", signature[64])
	}

	recovered, recoverErr := RecoverMintSigner(digest, signature)
	if recoverErr != nil {
		t.Fatalf("failed to recover signer: %v", recoverErr)
	}
	if recovered != authority {
		t.Errorf("recovered %s, want %s", recovered.Hex(), authority.Hex())
	}
}

func TestTamperingChangesRecoveredAddress(t *testing.T) {
	key, _ := crypto.GenerateKey()
	authority := crypto.PubkeyToAddress(key.PublicKey)

	recipient := common.HexToAddress("0xDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD")
	blockHash := common.HexToHash("0x5555555555555555555555555555555555555555555555555555555555555555")
	signature, _ := SignMintApproval(recipient, blockHash, key)

	// Flip one bit of the signature body.
	tampered := make([]byte, len(signature))
	copy(tampered, signature)
	tampered[10] ^= 0x01
	if recovered, recoverErr := RecoverMintSigner(MintDigest(recipient, blockHash), tampered); recoverErr == nil && recovered == authority {
		t.Error("tampered signature still recovered the authority address")
	}

	// Rebind to a different recipient.
	otherRecipient := common.HexToAddress("0xEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEE")
	if recovered, recoverErr := RecoverMintSigner(MintDigest(otherRecipient, blockHash), signature); recoverErr == nil && recovered == authority {
		t.Error("signature bound to one recipient recovered the authority for another")
	}

	// Rebind to a different block hash.
	otherBlockHash := common.HexToHash("0x6666666666666666666666666666666666666666666666666666666666666666")
	if recovered, recoverErr := RecoverMintSigner(MintDigest(recipient, otherBlockHash), signature); recoverErr == nil && recovered == authority {
		t.Error("signature bound to one block hash recovered the authority for another")
	}
}

func TestRecoverRejectsBadSignatureShapes(t *testing.T) {
	digest := MintDigest(common.HexToAddress("0x1"), common.HexToHash("0x2"))

	if _, err := RecoverMintSigner(digest, make([]byte, 64)); err == nil {
		t.Error("expected error for 64-byte signature")
	}
	badRecoveryID := make([]byte, 65)
	badRecoveryID[64] = 9
	if _, err := RecoverMintSigner(digest, badRecoveryID); err == nil {
		t.Error("expected error for recovery id outside {0,1,27,28}")
	}
}
