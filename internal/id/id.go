package id

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Entity prefixes.
const (
	Transaction = "trans"
	Account     = "acc"
	Category    = "cat"

	ImportedTransaction = "importedTx"
	ImportedAccount     = "importedAcc"
	ImportedCategory    = "importedCat"
)

// Generator produces a fresh identifier for an entity prefix.
type Generator func(prefix string) string

// New returns an identifier like "trans-6f1c...".
func New(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Prefix returns the entity prefix of an identifier.
// "acc-checking" -> "acc"
func Prefix(id string) string {
	before, _, found := strings.Cut(id, "-")
	if !found {
		return ""
	}
	return before
}

// Sequence returns a deterministic Generator: "trans-1", "trans-2", ...
// Counters are kept per prefix.
func Sequence() Generator {
	counters := make(map[string]int)
	return func(prefix string) string {
		counters[prefix]++
		return prefix + "-" + strconv.Itoa(counters[prefix])
	}
}
