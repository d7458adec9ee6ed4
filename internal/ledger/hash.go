package ledger

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/blogchain/internal/models"
)

// EncodePost returns the canonical byte encoding of a post record:
// uvarint(len(content)) || content || uvarint(len(author)) || author.
func EncodePost(p models.Post) []byte {
	buf := make([]byte, 0, len(p.Content)+len(p.Author)+2*binary.MaxVarintLen64)
	buf = binary.AppendUvarint(buf, uint64(len(p.Content)))
	buf = append(buf, p.Content...)
	buf = binary.AppendUvarint(buf, uint64(len(p.Author)))
	buf = append(buf, p.Author...)
	return buf
}

// PostID derives the content-addressed identifier of a post record.
func PostID(p models.Post) models.Hash {
	return models.Hash(blake2b.Sum256(EncodePost(p)))
}
