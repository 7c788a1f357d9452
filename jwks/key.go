package jwks

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"strings"
)

// JSONWebKey is a single key entry as published in a JWKS document,
// per RFC 7517. Only the fields needed for signature verification are
// modeled; unknown fields are ignored on decode.
type JSONWebKey struct {
	Kid string `json:"kid,omitempty"`
	Kty string `json:"kty,omitempty"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`

	// X.509 certificate chain. Each entry is standard (not URL-safe)
	// base64 DER; the first entry is the leaf certificate.
	X5c []string `json:"x5c,omitempty"`
	X5t string   `json:"x5t,omitempty"`

	// RSA modulus and public exponent, base64url encoded.
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`

	// EC curve name and point coordinates, base64url encoded.
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

// JSONWebKeySet is the JWKS document schema: {"keys": [...]}.
type JSONWebKeySet struct {
	Keys []JSONWebKey `json:"keys"`
}

// SigningKey is the verification-side key material extracted from one
// JWK entry. It is immutable once produced; callers must not mutate the
// public key it references.
type SigningKey struct {
	// Kid is the key identifier from the source entry. May be empty.
	Kid string

	// Kty is the key type tag from the source entry ("RSA", "EC", ...).
	Kty string

	// Alg is the intended algorithm from the source entry, when published.
	Alg string

	// PublicKey is the parsed verification key, either *rsa.PublicKey
	// or *ecdsa.PublicKey.
	PublicKey crypto.PublicKey

	// Certificate is the leaf certificate when the key was derived from
	// an x5c chain, nil otherwise.
	Certificate *x509.Certificate

	// PEM holds a PEM encoding of the key: the leaf certificate for x5c
	// keys, a PKIX public key block otherwise.
	PEM string
}

// ExtractSigningKey converts one JWK entry into a SigningKey.
//
// Material is tried in order: the first certificate of an x5c chain,
// then raw RSA n/e parameters, then EC curve coordinates. Entries with
// none of these fail with a KindInvalidKey error. The function is pure;
// equivalent input always yields an equivalent key.
func ExtractSigningKey(key JSONWebKey) (*SigningKey, error) {
	switch {
	case len(key.X5c) > 0:
		return extractFromCertChain(key)
	case key.N != "" && key.E != "":
		return extractFromModulus(key)
	case key.Crv != "" && key.X != "" && key.Y != "":
		return extractFromCurve(key)
	default:
		return nil, newError(KindInvalidKey, "jwk %q has no usable key material", key.Kid)
	}
}

// extractFromCertChain derives the public key from the leaf certificate
// of the x5c chain. Entries past the first describe the issuing chain
// and are not needed to verify signatures, so they are ignored.
func extractFromCertChain(key JSONWebKey) (*SigningKey, error) {
	der, err := base64.StdEncoding.DecodeString(key.X5c[0])
	if err != nil {
		return nil, wrapError(KindInvalidKey, err, "jwk %q has a malformed x5c certificate", key.Kid)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, wrapError(KindInvalidKey, err, "jwk %q x5c is not a valid DER certificate", key.Kid)
	}

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})

	return &SigningKey{
		Kid:         key.Kid,
		Kty:         key.Kty,
		Alg:         key.Alg,
		PublicKey:   cert.PublicKey,
		Certificate: cert,
		PEM:         string(pemBytes),
	}, nil
}

func extractFromModulus(key JSONWebKey) (*SigningKey, error) {
	n, err := decodeBase64URL(key.N)
	if err != nil {
		return nil, wrapError(KindInvalidKey, err, "jwk %q has a malformed modulus", key.Kid)
	}

	e, err := decodeBase64URL(key.E)
	if err != nil {
		return nil, wrapError(KindInvalidKey, err, "jwk %q has a malformed exponent", key.Kid)
	}
	if len(e) == 0 {
		return nil, newError(KindInvalidKey, "jwk %q has an out of range exponent", key.Kid)
	}

	// Exponents must fit in a positive 31-bit int, matching what
	// crypto/x509 accepts when parsing certificates.
	exp := new(big.Int).SetBytes(e)
	if exp.BitLen() > 31 {
		return nil, newError(KindInvalidKey, "jwk %q has an out of range exponent", key.Kid)
	}

	pub := &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(exp.Int64()),
	}

	return buildRawKey(key, pub)
}

func extractFromCurve(key JSONWebKey) (*SigningKey, error) {
	var curve elliptic.Curve
	switch key.Crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, newError(KindInvalidKey, "jwk %q uses unsupported curve %q", key.Kid, key.Crv)
	}

	x, err := decodeBase64URL(key.X)
	if err != nil {
		return nil, wrapError(KindInvalidKey, err, "jwk %q has a malformed x coordinate", key.Kid)
	}
	y, err := decodeBase64URL(key.Y)
	if err != nil {
		return nil, wrapError(KindInvalidKey, err, "jwk %q has a malformed y coordinate", key.Kid)
	}

	pub := &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}
	if !curve.IsOnCurve(pub.X, pub.Y) {
		return nil, newError(KindInvalidKey, "jwk %q point is not on curve %q", key.Kid, key.Crv)
	}

	return buildRawKey(key, pub)
}

func buildRawKey(key JSONWebKey, pub crypto.PublicKey) (*SigningKey, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, wrapError(KindInvalidKey, err, "jwk %q public key cannot be encoded", key.Kid)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	return &SigningKey{
		Kid:       key.Kid,
		Kty:       key.Kty,
		Alg:       key.Alg,
		PublicKey: pub,
		PEM:       string(pemBytes),
	}, nil
}

// decodeBase64URL decodes base64url values, tolerating padded input from
// providers that emit standard padding despite RFC 7515.
func decodeBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
