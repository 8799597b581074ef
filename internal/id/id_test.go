package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	got := New(Transaction)
	require.True(t, strings.HasPrefix(got, "trans-"), "got %q", got)

	_, err := uuid.Parse(strings.TrimPrefix(got, "trans-"))
	assert.NoError(t, err)

	assert.NotEqual(t, got, New(Transaction), "ids must be unique")
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"acc-checking", "acc"},
		{"cat-misc-expense", "cat"},
		{"importedTx-1", "importedTx"},
		{"nodash", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Prefix(tt.id), "Prefix(%q)", tt.id)
	}
}

func TestSequence(t *testing.T) {
	gen := Sequence()
	assert.Equal(t, "trans-1", gen(Transaction))
	assert.Equal(t, "trans-2", gen(Transaction))
	assert.Equal(t, "acc-1", gen(Account))
	assert.Equal(t, "trans-3", gen(Transaction))
}
