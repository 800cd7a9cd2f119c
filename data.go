package main

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

var ZERO_ADDRESS = common.Address{}

// Request field shapes, checked before anything touches the network.
var (
	addressPattern   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	blockHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	signaturePattern = regexp.MustCompile(`^0x[0-9a-fA-F]{130}$`)
)

// Client-facing error codes. Every mint check reports its own code; nothing
// is folded together.
const (
	CodeMalformedInput   = "malformed-input"
	CodeAlreadyMinted    = "already-minted"
	CodeWindowClosed     = "window-closed"
	CodeBlockNotFinal    = "block-not-final"
	CodeInvalidSignature = "invalid-signature"
	CodeInternalError    = "internal-error"
)

type PingResponse struct {
	Status string `json:"status"`
}

type AddressResponse struct {
	Address string `json:"address"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MintSubmissionRequest is the wire shape of a mint request: the recipient,
// the block the authority signed over, and the authority's 65-byte signature.
type MintSubmissionRequest struct {
	UserAddress string `json:"userAddress"`
	BlockHash   string `json:"blockHash"`
	BlockNumber uint64 `json:"blockNumber"`
	Signature   string `json:"signature"`
}

type SubmitResponse struct {
	TxHash string `json:"txHash"`
}

type ValidateResponse struct {
	Request *MintSubmissionRequest `json:"request"`
	Valid   bool                   `json:"valid"`
}

type MessageHashRequest struct {
	UserAddress string `json:"userAddress"`
	BlockHash   string `json:"blockHash"`
}

type MessageHashResponse struct {
	Digest            string `json:"digest"`
	SignedMessageHash string `json:"signedMessageHash"`
}

type StatusResponse struct {
	ChainID         string         `json:"chainID"`
	BlockNumber     uint64         `json:"blockNumber"`
	ContractAddress common.Address `json:"contractAddress"`
	Authority       common.Address `json:"authority"`
	MaxPerAddress   uint64         `json:"maxPerAddress"`
	EndMintTime     int64          `json:"endMintTime"`
}

// MintParameters is the parsed, validated form of a MintSubmissionRequest.
type MintParameters struct {
	Recipient   common.Address
	BlockHash   common.Hash
	BlockNumber uint64
	Signature   []byte
}

// ParseMintSubmissionRequest validates the shape of every request field and
// decodes them. Any failure here is a malformed-input rejection; no check
// beyond shape runs.
func (parameters *MintParameters) ParseMintSubmissionRequest(request *MintSubmissionRequest) error {
	if !addressPattern.MatchString(request.UserAddress) {
		return fmt.Errorf("userAddress must be a 0x-prefixed 20-byte hex address, got %q", request.UserAddress)
	}
	if !blockHashPattern.MatchString(request.BlockHash) {
		return fmt.Errorf("blockHash must be a 0x-prefixed 32-byte hex value, got %d characters", len(request.BlockHash))
	}
	if !signaturePattern.MatchString(request.Signature) {
		return fmt.Errorf("signature must be a 0x-prefixed 65-byte hex value, got %d characters", len(request.Signature))
	}

	recipient := common.HexToAddress(request.UserAddress)
	if recipient == ZERO_ADDRESS {
		return errors.New("userAddress must be a non-zero address")
	}

	parameters.Recipient = recipient
	parameters.BlockHash = common.HexToHash(request.BlockHash)
	parameters.BlockNumber = request.BlockNumber
	parameters.Signature = common.FromHex(request.Signature)

	return nil
}

// ErrorCode maps an error from the validation pipeline to its client-facing
// code. Unrecognized errors are infrastructure failures and stay opaque.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrMaxMinted):
		return CodeAlreadyMinted
	case errors.Is(err, ErrEndTimePassed):
		return CodeWindowClosed
	case errors.Is(err, ErrInvalidBlockNumber):
		return CodeBlockNotFinal
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	default:
		return CodeInternalError
	}
}
