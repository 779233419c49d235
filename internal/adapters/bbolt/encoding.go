// Binary encoding for dictionary pair blobs.
//
// Format v1:
//
//	version:   byte (1)
//	pairCount: uvarint
//	per pair:
//	  primaryLen: uvarint
//	  primary:    [primaryLen]byte
//	  variantLen: uvarint
//	  variant:    [variantLen]byte
package bbolt

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"

	"github.com/corey/occ/internal/ports"
)

const pairsFormatV1 = 1

// encodePairs encodes pairs in order. The buffer is sized up front so large
// dictionaries are written with a single allocation.
func encodePairs(pairs []ports.Pair) ([]byte, error) {
	n, err := safecast.Convert[uint64](len(pairs))
	if err != nil {
		return nil, fmt.Errorf("pair count: %w", err)
	}
	size := 1 + binary.MaxVarintLen64
	for _, p := range pairs {
		size += 2*binary.MaxVarintLen64 + len(p.Primary) + len(p.Variant)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, pairsFormatV1)
	buf = binary.AppendUvarint(buf, n)
	for _, p := range pairs {
		buf = appendString(buf, p.Primary)
		buf = appendString(buf, p.Variant)
	}
	return buf, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// decodePairs decodes a pair blob. Every read is bounds-checked so corrupt
// data returns an error instead of panicking.
func decodePairs(data []byte) ([]ports.Pair, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("pair blob too short: %d bytes", len(data))
	}
	if data[0] != pairsFormatV1 {
		return nil, fmt.Errorf("unsupported pair format %d", data[0])
	}
	offset := 1

	count, err := readLen(data, &offset)
	if err != nil {
		return nil, fmt.Errorf("pair count: %w", err)
	}
	// Each pair takes at least two length bytes.
	if count > (len(data)-offset)/2 {
		return nil, fmt.Errorf("pair count %d exceeds blob size %d", count, len(data))
	}

	pairs := make([]ports.Pair, count)
	for i := range pairs {
		if pairs[i].Primary, err = readString(data, &offset); err != nil {
			return nil, fmt.Errorf("pair %d primary: %w", i, err)
		}
		if pairs[i].Variant, err = readString(data, &offset); err != nil {
			return nil, fmt.Errorf("pair %d variant: %w", i, err)
		}
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after %d pairs", len(data)-offset, count)
	}
	return pairs, nil
}

func readLen(data []byte, offset *int) (int, error) {
	v, n := binary.Uvarint(data[*offset:])
	if n <= 0 {
		return 0, fmt.Errorf("bad uvarint at offset %d", *offset)
	}
	*offset += n
	return safecast.Convert[int](v)
}

func readString(data []byte, offset *int) (string, error) {
	n, err := readLen(data, offset)
	if err != nil {
		return "", err
	}
	if n > len(data)-*offset {
		return "", fmt.Errorf("truncated at offset %d, need %d", *offset, n)
	}
	s := string(data[*offset : *offset+n])
	*offset += n
	return s, nil
}
