package main

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/term"
)

// SigningKeyFromEnv loads the relayer's Ethereum account signing key from the environment variables following this strategy:
//   - If PMT_PRIVATE_KEY is set, it takes priority. This environment variable is expected to represent
//     an Ethereum account private key, and is decoded directly to the go struct that will be used for signatures.
//   - If PMT_AWS_SECRET_NAME is set, the private key hex is fetched from AWS Secrets Manager under that
//     secret name, using the ambient AWS credential chain.
//   - If PMT_KEYSTORE is set, then it is expected to be a path to a keystore file. If PMT_KEYSTORE_PASSWORD
//     is also set, that is used as the password to decrypt the keystore. Otherwise, the user is prompted for
//     this password. The signing key is the private key decrypted from this file.
func SigningKeyFromEnv() (*ecdsa.PrivateKey, error) {
	privateKeyHex := os.Getenv("PMT_PRIVATE_KEY")
	if privateKeyHex != "" {
		return PrivateKey(privateKeyHex)
	}

	secretName := os.Getenv("PMT_AWS_SECRET_NAME")
	if secretName != "" {
		return PrivateKeyFromSecretsManager(context.Background(), secretName)
	}

	keystoreFile := os.Getenv("PMT_KEYSTORE")
	if keystoreFile == "" {
		return nil, errors.New("one of PMT_PRIVATE_KEY, PMT_AWS_SECRET_NAME, or PMT_KEYSTORE must be set")
	}

	prompt := false
	keystorePassword, ok := os.LookupEnv("PMT_KEYSTORE_PASSWORD")
	if !ok {
		prompt = true
	}
	return PrivateKeyFromKeystoreFile(keystoreFile, keystorePassword, prompt)
}

// PrivateKey decodes a private key from its hex representation.
func PrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	parsedPrivateKey, parseErr := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	return parsedPrivateKey, parseErr
}

// PrivateKeyFromSecretsManager fetches a hex-encoded private key from AWS
// Secrets Manager. The secret's string value is expected to be the bare key
// hex, optionally 0x-prefixed.
func PrivateKeyFromSecretsManager(ctx context.Context, secretName string) (*ecdsa.PrivateKey, error) {
	awsConfiguration, configErr := awsconfig.LoadDefaultConfig(ctx)
	if configErr != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", configErr)
	}

	client := secretsmanager.NewFromConfig(awsConfiguration)
	secretValue, getErr := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if getErr != nil {
		return nil, fmt.Errorf("failed to read secret %s: %w", secretName, getErr)
	}
	if secretValue.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", secretName)
	}

	return PrivateKey(strings.TrimSpace(*secretValue.SecretString))
}

// PrivateKeyFromKeystoreFile loads a private key from a keystore file. If prompt is true, the user will be
// interactively prompted for the password to the keystore file even if the password variable is nonempty.
func PrivateKeyFromKeystoreFile(keystoreFile, password string, prompt bool) (*ecdsa.PrivateKey, error) {
	keystoreContent, readErr := os.ReadFile(keystoreFile)
	if readErr != nil {
		return nil, readErr
	}

	// If password is "", prompt user for password.
	if prompt {
		fmt.Printf("Please provide a password for keystore (%s): ", keystoreFile)
		passwordRaw, inputErr := term.ReadPassword(int(os.Stdin.Fd()))
		if inputErr != nil {
			return nil, fmt.Errorf("error reading password: %s", inputErr.Error())
		}
		fmt.Print("\n")
		password = string(passwordRaw)
	}

	key, err := keystore.DecryptKey(keystoreContent, password)
	if err != nil {
		return nil, err
	}
	return key.PrivateKey, nil
}

// Signs bytes using a private key and return the signature.
// The "sensible" parameter refers to the v-byte of the signature. If it is true, then the v-byte will
// be 0 or 1. Default should be sensible=false. For more information look at comment in the function implementation.
func SignRawMessage(message []byte, key *ecdsa.PrivateKey, sensible bool) ([]byte, error) {
	signature, err := crypto.Sign(message, key)
	if err != nil {
		return nil, err
	}
	if !sensible {
		// This refers to a bug in an early Ethereum client implementation where the v parameter byte was
		// shifted by 27: https://github.com/ethereum/go-ethereum/issues/2053
		// Default for callers should be NOT sensible.
		// Defensively, we only shift if the 65th byte is 0 or 1.
		if signature[64] < 2 {
			signature[64] += 27
		}
	}
	return signature, nil
}
