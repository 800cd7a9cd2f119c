package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for the four mint checks. The names match the contract's
// revert identifiers so relayer logs and on-chain failures read the same.
var (
	ErrMaxMinted          = errors.New("recipient has already minted the maximum number of tokens")
	ErrEndTimePassed      = errors.New("minting window has closed")
	ErrInvalidBlockNumber = errors.New("block number must be strictly less than the current block")
	ErrInvalidSignature   = errors.New("signature does not recover to the mint authority")
)

// MintView is a read-only view of the state the mint checks consult. The
// relayer backs it with JSON-RPC and contract calls; the ledger backs it with
// its own storage. Errors from a MintView are infrastructure failures, never
// check failures.
type MintView interface {
	NumberMinted(ctx context.Context, recipient common.Address) (uint64, error)
	CurrentBlock(ctx context.Context) (uint64, error)
	BlockHash(ctx context.Context, number uint64) (common.Hash, error)
}

// MintPolicy holds the deploy-time mint configuration. It is constructed once
// and never mutated; there is no setter for any field.
type MintPolicy struct {
	Authority     common.Address
	MaxPerAddress uint64
	EndMintTime   time.Time
}

// AuthorizeMint runs the full check sequence for a mint request:
//
//  1. per-address cap
//  2. global deadline
//  3. claimed block strictly in the past (the hash of the block currently
//     being built is not knowable inside it)
//  4. signature recovery over (recipient, block hash) against the authority
//
// Both the relayer and the ledger run exactly this function; the ledger's run
// is authoritative, the relayer's is a cost-saving fast path. The check order
// is part of the interface: each step is an independent cheap short-circuit
// and must surface its own error.
func (policy MintPolicy) AuthorizeMint(ctx context.Context, view MintView, now time.Time, recipient common.Address, blockNumber uint64, signature []byte) error {
	minted, mintedErr := view.NumberMinted(ctx, recipient)
	if mintedErr != nil {
		return fmt.Errorf("failed to read mint count for %s: %w", recipient.Hex(), mintedErr)
	}
	if minted >= policy.MaxPerAddress {
		return ErrMaxMinted
	}

	if now.After(policy.EndMintTime) {
		return ErrEndTimePassed
	}

	currentBlock, blockErr := view.CurrentBlock(ctx)
	if blockErr != nil {
		return fmt.Errorf("failed to read current block: %w", blockErr)
	}
	if blockNumber >= currentBlock {
		return ErrInvalidBlockNumber
	}

	blockHash, hashErr := view.BlockHash(ctx, blockNumber)
	if hashErr != nil {
		return fmt.Errorf("failed to read hash of block %d: %w", blockNumber, hashErr)
	}

	signer, recoverErr := RecoverMintSigner(MintDigest(recipient, blockHash), signature)
	if recoverErr != nil {
		return ErrInvalidSignature
	}
	if signer != policy.Authority {
		return ErrInvalidSignature
	}

	return nil
}

// IsCheckFailure reports whether err is one of the four mint check errors, as
// opposed to an infrastructure failure talking to the chain.
func IsCheckFailure(err error) bool {
	return errors.Is(err, ErrMaxMinted) ||
		errors.Is(err, ErrEndTimePassed) ||
		errors.Is(err, ErrInvalidBlockNumber) ||
		errors.Is(err, ErrInvalidSignature)
}
