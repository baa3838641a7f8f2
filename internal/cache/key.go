package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// KeyPrefix namespaces every cache key so shared stores can be bulk-cleared
// with a single prefix match.
const KeyPrefix = "mcpgen:"

// NormalizePrompt trims the prompt, collapses internal whitespace runs to a
// single space, and lowercases the result. Prompts differing only in case
// or whitespace map to the same cache key.
func NormalizePrompt(prompt string) string {
	return strings.ToLower(strings.Join(strings.Fields(prompt), " "))
}

// keyTuple is the canonical structure hashed into a cache key. Struct field
// order fixes the serialisation, so keys are stable across processes.
type keyTuple struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Params Params `json:"params"`
}

// Key derives the deterministic cache key for a (prompt, model, params)
// tuple: KeyPrefix followed by the 64-character hex SHA-256 digest of the
// canonical JSON tuple.
func Key(prompt, model string, p Params) string {
	raw, _ := json.Marshal(keyTuple{
		Prompt: NormalizePrompt(prompt),
		Model:  model,
		Params: p,
	})
	h := sha256.Sum256(raw)
	return KeyPrefix + hex.EncodeToString(h[:])
}
