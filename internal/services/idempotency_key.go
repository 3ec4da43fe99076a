package services

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"giftregistry/internal/domain"
)

const idempotencyKeyPrefix = "gift-transfer"

// TransferIdempotencyKey derives the payment processor idempotency key for paying out
// one article in one settlement phase. It is a pure function of its inputs:
//   - the same (phase, eventID, articleID) always yields the same key, so a retried
//     request can never create a second transfer;
//   - different triples yield different keys: every field is length-prefixed before
//     hashing, so no two triples share an encoding, and BLAKE2b-256 makes digest
//     collisions negligible. In particular a full-price and a remainder payout of the
//     same article never share a key.
//
// Keys have a fixed length regardless of identifier sizes.
func TransferIdempotencyKey(phase domain.SettlementPhase, eventID, articleID string) string {
	var buf []byte
	for _, part := range []string{string(phase), eventID, articleID} {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(part)))
		buf = append(buf, part...)
	}
	sum := blake2b.Sum256(buf)
	return idempotencyKeyPrefix + "-" + string(phase) + "-" + hex.EncodeToString(sum[:])
}
