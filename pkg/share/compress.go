package share

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/pierrec/lz4"

	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// Payload formats, stored in the first byte of a decoded token.
const (
	formatRaw byte = 0x00
	formatLZ4 byte = 0x01
)

// MaxPayloadSize bounds the uncompressed size accepted by Unpack.
const MaxPayloadSize = 1 << 20

var encoding = base64.RawURLEncoding

// Pack compresses data into a URL-safe token. Data that LZ4 cannot shrink is
// stored uncompressed.
func Pack(data []byte) (string, error) {
	if len(data) > MaxPayloadSize {
		return "", errs.New(errs.ErrCodeInvalidInput, "share payload too large (%d bytes, max %d)", len(data), MaxPayloadSize)
	}

	buf := make([]byte, 1+binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	buf[0] = formatLZ4
	n := 1 + binary.PutUvarint(buf[1:], uint64(len(data)))

	hashTable := make([]int, 1<<16)
	m, err := lz4.CompressBlock(data, buf[n:], hashTable)
	if err != nil || m == 0 || n+m >= 1+len(data) {
		raw := make([]byte, 1+len(data))
		raw[0] = formatRaw
		copy(raw[1:], data)
		return encoding.EncodeToString(raw), nil
	}
	return encoding.EncodeToString(buf[:n+m]), nil
}

// Unpack reverses Pack.
func Unpack(token string) ([]byte, error) {
	if token == "" {
		return nil, errs.New(errs.ErrCodeInvalidToken, "empty share token")
	}
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidToken, err, "decode share token")
	}
	if len(raw) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidToken, "empty share token")
	}

	switch raw[0] {
	case formatRaw:
		return raw[1:], nil
	case formatLZ4:
		size, k := binary.Uvarint(raw[1:])
		if k <= 0 {
			return nil, errs.New(errs.ErrCodeInvalidToken, "corrupt share token header")
		}
		if size > MaxPayloadSize {
			return nil, errs.New(errs.ErrCodeInvalidToken, "share payload too large (%d bytes)", size)
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(raw[1+k:], out)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidToken, err, "decompress share token")
		}
		if uint64(n) != size {
			return nil, errs.New(errs.ErrCodeInvalidToken, "share payload truncated (%d of %d bytes)", n, size)
		}
		return out, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidToken, "unknown share token format %#x", raw[0])
	}
}
