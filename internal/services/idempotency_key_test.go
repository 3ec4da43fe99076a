package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"giftregistry/internal/domain"
)

func TestTransferIdempotencyKey(t *testing.T) {
	a := TransferIdempotencyKey(domain.PhaseFullPrice, "ev-1", "art-1")

	assert.Equal(t, a, TransferIdempotencyKey(domain.PhaseFullPrice, "ev-1", "art-1"), "deterministic")
	assert.NotEqual(t, a, TransferIdempotencyKey(domain.PhaseRemainder, "ev-1", "art-1"), "phases differ")
	assert.NotEqual(t, a, TransferIdempotencyKey(domain.PhaseFullPrice, "ev-1", "art-2"), "articles differ")
	assert.NotEqual(t, a, TransferIdempotencyKey(domain.PhaseFullPrice, "ev-2", "art-1"), "events differ")

	// Shifting a boundary between fields must not produce the same key.
	assert.NotEqual(t,
		TransferIdempotencyKey(domain.PhaseFullPrice, "ev-1a", "rt-1"),
		TransferIdempotencyKey(domain.PhaseFullPrice, "ev-1", "art-1"),
	)

	assert.Len(t, a, len(idempotencyKeyPrefix)+1+len(domain.PhaseFullPrice)+1+64)
	assert.Len(t, TransferIdempotencyKey(domain.PhaseFullPrice, "e", "a"), len(a))
}
