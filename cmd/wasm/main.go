//go:build js && wasm

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/internal/crypto/keys"
	"github.com/smallyu/go-ecckit/internal/crypto/schemes"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

// paramsInput is the JSON form of ecc.Parameters accepted from JS.
type paramsInput struct {
	Scheme string `json:"scheme"`
	Curve  string `json:"curve"`
	Hash   string `json:"hash"`
	Nonce  string `json:"nonce"`
	LowS   *bool  `json:"lowS"`
}

func (p paramsInput) parameters() *ecc.Parameters {
	return &ecc.Parameters{Scheme: p.Scheme, Curve: p.Curve, Hash: p.Hash, Nonce: p.Nonce, LowS: p.LowS}
}

var newScheme = schemes.Initializer()

func main() {
	c := make(chan struct{})

	fmt.Println("Go ECC WASM Initialized")

	js.Global().Set("GoECC", map[string]interface{}{
		"KeyGen": js.FuncOf(KeyGen),
		"Sign":   js.FuncOf(Sign),
		"Verify": js.FuncOf(Verify),
	})

	<-c
}

// KeyGen creates a key pair.
// Arguments:
// 0: curve name
// Returns:
// JSON string {"private": hex, "public": compressed hex} or an "error: ..." string
func KeyGen(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (curve)"
	}

	name, err := curves.ParseName(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	c, err := curves.Lookup(name)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	kp, err := keys.GenerateKeyPair(c, rand.Reader)
	if err != nil {
		return fmt.Sprintf("error: key generation failed: %v", err)
	}

	b, _ := json.Marshal(map[string]string{
		"private": kp.Private.Hex(),
		"public":  kp.Public.Hex(),
	})
	return string(b)
}

// Sign hashes a message and signs it.
// Arguments:
// 0: JSON string of parameters
// 1: private key hex
// 2: message (UTF-8)
// Returns:
// signature hex or an "error: ..." string
func Sign(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (jsonParams, privateKey, message)"
	}

	s, alg, err := schemeFromJSON(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	priv, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid private key hex: %v", err)
	}

	sig, err := s.Sign(alg.Sum([]byte(args[2].String())), priv)
	if err != nil {
		return fmt.Sprintf("error: sign failed: %v", err)
	}
	return hex.EncodeToString(sig)
}

// Verify checks a signature over a message.
// Arguments:
// 0: JSON string of parameters
// 1: public key hex
// 2: signature hex
// 3: message (UTF-8)
// Returns:
// bool or an "error: ..." string
func Verify(this js.Value, args []js.Value) interface{} {
	if len(args) != 4 {
		return "error: expected 4 arguments (jsonParams, publicKey, signature, message)"
	}

	s, alg, err := schemeFromJSON(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	pub, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid public key hex: %v", err)
	}
	sig, err := hex.DecodeString(args[2].String())
	if err != nil {
		return fmt.Sprintf("error: invalid signature hex: %v", err)
	}

	ok, err := s.Verify(alg.Sum([]byte(args[3].String())), sig, pub)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return ok
}

func schemeFromJSON(paramsJSON string) (ecc.Scheme, hashes.Algorithm, error) {
	var input paramsInput
	if err := json.Unmarshal([]byte(paramsJSON), &input); err != nil {
		return nil, hashes.UnknownAlgorithm, fmt.Errorf("invalid json: %w", err)
	}

	s, err := newScheme(input.parameters())
	if err != nil {
		return nil, hashes.UnknownAlgorithm, err
	}

	alg := hashes.SHA2_256
	if input.Hash != "" {
		if alg, err = hashes.Parse(input.Hash); err != nil {
			return nil, hashes.UnknownAlgorithm, err
		}
	}
	return s, alg, nil
}
