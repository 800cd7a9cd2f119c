package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNotOwner     = errors.New("caller is not the ledger owner")
	ErrUnknownToken = errors.New("token does not exist")
)

// ChainContext is the ledger's view of its host chain: the execution
// environment the contract reads block data from. BlockHash returns the zero
// hash for block numbers the environment no longer (or does not yet) know,
// which makes signature recovery fail rather than silently accepting.
type ChainContext interface {
	CurrentBlock() uint64
	BlockHash(number uint64) common.Hash
	Timestamp() time.Time
}

// TokenMetadata is the single metadata record shared by every minted token.
// There is deliberately no per-token variant: updating the record refreshes
// the URI of all existing ids at once.
type TokenMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Ledger is the authoritative mint state machine, mirroring the deployed
// contract's semantics: it re-derives the signed message from its own chain
// context and only mints when all four checks pass. The relayer's checks are
// advisory; this state machine is the source of truth.
//
// All mutation goes through MintWithSig and SetMetadata under a single mutex,
// matching the serialized execution of the host environment: the cap check is
// atomic with the increment.
type Ledger struct {
	mu sync.Mutex

	chain    ChainContext
	policy   MintPolicy
	owner    common.Address
	metadata TokenMetadata

	minted      map[common.Address]uint64
	tokenOwners map[uint64]common.Address
	nextTokenID uint64
}

// NewLedger creates a ledger with the given deploy-time configuration. Token
// ids are sequential starting at 1.
func NewLedger(chain ChainContext, policy MintPolicy, owner common.Address, metadata TokenMetadata) *Ledger {
	return &Ledger{
		chain:       chain,
		policy:      policy,
		owner:       owner,
		metadata:    metadata,
		minted:      make(map[common.Address]uint64),
		tokenOwners: make(map[uint64]common.Address),
		nextTokenID: 1,
	}
}

// ledgerView adapts the ledger's own storage and chain context to the MintView
// consulted by AuthorizeMint. It must only be used with the ledger mutex held.
type ledgerView struct {
	ledger *Ledger
}

func (view ledgerView) NumberMinted(_ context.Context, recipient common.Address) (uint64, error) {
	return view.ledger.minted[recipient], nil
}

func (view ledgerView) CurrentBlock(_ context.Context) (uint64, error) {
	return view.ledger.chain.CurrentBlock(), nil
}

func (view ledgerView) BlockHash(_ context.Context, number uint64) (common.Hash, error) {
	return view.ledger.chain.BlockHash(number), nil
}

// MintWithSig validates the signature-gated mint request and, if every check
// passes, increments the recipient's mint count and assigns the next token id.
// This is the single state mutation of the flow: it either happens whole or
// the call returns before any write.
func (ledger *Ledger) MintWithSig(signature []byte, blockNumberUsedInSig uint64, mintTo common.Address) (uint64, error) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	authorizeErr := ledger.policy.AuthorizeMint(context.Background(), ledgerView{ledger}, ledger.chain.Timestamp(), mintTo, blockNumberUsedInSig, signature)
	if authorizeErr != nil {
		return 0, authorizeErr
	}

	tokenID := ledger.nextTokenID
	ledger.nextTokenID++
	ledger.minted[mintTo]++
	ledger.tokenOwners[tokenID] = mintTo

	return tokenID, nil
}

// NumberMinted returns how many tokens have been minted to the recipient.
func (ledger *Ledger) NumberMinted(recipient common.Address) uint64 {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	return ledger.minted[recipient]
}

// TotalSupply returns the number of tokens minted so far.
func (ledger *Ledger) TotalSupply() uint64 {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	return ledger.nextTokenID - 1
}

// OwnerOf returns the owner of the given token id.
func (ledger *Ledger) OwnerOf(tokenID uint64) (common.Address, error) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	owner, exists := ledger.tokenOwners[tokenID]
	if !exists {
		return common.Address{}, ErrUnknownToken
	}
	return owner, nil
}

// Policy returns the ledger's immutable mint configuration.
func (ledger *Ledger) Policy() MintPolicy {
	return ledger.policy
}

// SetMetadata replaces the shared metadata record. Only the ledger owner may
// call it; the update is visible through every token id's URI immediately.
func (ledger *Ledger) SetMetadata(caller common.Address, metadata TokenMetadata) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if caller != ledger.owner {
		return ErrNotOwner
	}
	ledger.metadata = metadata
	return nil
}

// TokenURI renders the shared metadata record for a token id as a base64
// data URI.
func (ledger *Ledger) TokenURI(tokenID uint64) (string, error) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if _, exists := ledger.tokenOwners[tokenID]; !exists {
		return "", ErrUnknownToken
	}

	document := struct {
		TokenMetadata
		TokenID uint64 `json:"tokenId"`
	}{ledger.metadata, tokenID}

	encoded, marshalErr := json.Marshal(document)
	if marshalErr != nil {
		return "", fmt.Errorf("failed to encode token metadata: %w", marshalErr)
	}

	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(encoded), nil
}
