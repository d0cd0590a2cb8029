// Package signature provides helper functions for handling the ledger's
// hashing and signing needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ledgerID is an arbitrary number added to the recovery id so signatures
// produced by this ledger are recognizable. Ethereum and Bitcoin use 27.
const ledgerID = 29

// =============================================================================

// Hash returns the hex encoded SHA-256 digest of the JSON encoding of the
// value. The JSON encoding of a struct is stable since fields are written in
// declaration order, which makes the digest reproducible across processes.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ""
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Sign uses the specified private key to sign the value. The signature is
// returned hex encoded in the [R|S|V] format.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the data for signing.
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return "", errors.New("invalid signature")
	}

	sig[crypto.RecoveryIDOffset] += ledgerID

	return hexutil.Encode(sig), nil
}

// VerifySignature verifies the signature conforms to our standards.
func VerifySignature(sigStr string) error {
	sig, err := toSignatureBytes(sigStr)
	if err != nil {
		return err
	}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(sig[crypto.RecoveryIDOffset], r, s, false) {
		return errors.New("invalid signature values")
	}

	return nil
}

// FromAddress extracts the address of the key that signed the value.
func FromAddress(value any, sigStr string) (string, error) {

	// NOTE: If the exact same value is not provided, a different public key
	// is recovered and the wrong address comes back. There is no way to
	// detect that here since the public key is recovered from the signature.

	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	sig, err := toSignatureBytes(sigStr)
	if err != nil {
		return "", err
	}

	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	return crypto.PubkeyToAddress(*publicKey).String(), nil
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this value with the
// ledger stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	txHash := crypto.Keccak256(v)

	// The stamp keeps signatures produced here from being valid for
	// messages signed by other systems.
	stamp := []byte("\x19Ledger Signed Message:\n32")

	return crypto.Keccak256(stamp, txHash), nil
}

// toSignatureBytes decodes the hex signature and removes the ledger id
// from the recovery byte.
func toSignatureBytes(sigStr string) ([]byte, error) {
	sig, err := hexutil.Decode(sigStr)
	if err != nil {
		return nil, fmt.Errorf("decoding signature: %w", err)
	}

	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("invalid signature length %d", len(sig))
	}

	v := sig[crypto.RecoveryIDOffset]
	if v != ledgerID && v != ledgerID+1 {
		return nil, errors.New("invalid recovery id")
	}
	sig[crypto.RecoveryIDOffset] = v - ledgerID

	return sig, nil
}
