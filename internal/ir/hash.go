package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDocument = "relayts/document/v1"
	DomainOptions  = "relayts/options/v1"
	DomainSchema   = "relayts/schema/v1"
	DomainArtifact = "relayts/artifact/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HashValue computes the content hash of v under domain.
func HashValue(domain string, v IRValue) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// DocumentHash computes the content hash of a document together with the
// IR version, so a version bump invalidates every cached artifact.
func DocumentHash(doc Document) (string, error) {
	obj := IRObject{
		"document":   DocumentValue(doc),
		"ir_version": IRString(IRVersion),
	}
	return HashValue(DomainDocument, obj)
}

// SchemaHash computes the content hash of a schema.
func SchemaHash(s *Schema) (string, error) {
	return HashValue(DomainSchema, SchemaValue(s))
}

// ArtifactKey combines the hashes that determine one generated artifact:
// the document, its normalized tree (nil when absent), the schema hash and
// the options hash.
func ArtifactKey(doc Document, root *Root, schemaHash, optionsHash string) (string, error) {
	obj := IRObject{
		"document":   DocumentValue(doc),
		"schema":     IRString(schemaHash),
		"options":    IRString(optionsHash),
		"ir_version": IRString(IRVersion),
		"generator":  IRString(GeneratorVersion),
	}
	if root != nil {
		obj["normalized"] = RootValue(root)
	}
	return HashValue(DomainArtifact, obj)
}
