package database

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// ZeroHash represents a hash code of zeros. It is only returned when a block
// can't be encoded.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns the hex encoded SHA-256 digest of the canonical form of the
// block. The canonical form is a JSON array of single key objects, one per
// field, sorted by key:
//
//	[{"index":2},{"previousHash":"..."},{"proof":35293},{"timestamp":...},{"transactions":[...]}]
//
// Any node that agrees on this form computes the same hash for the same
// block no matter the order its fields were decoded in.
func Hash(b Block) string {
	if b.Transactions == nil {
		b.Transactions = []Tx{}
	}

	data, err := canonical(b)
	if err != nil {
		return ZeroHash
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// canonical encodes the value as an array of single key objects sorted by
// key. Nested values are left in the form the encoder produced them.
func canonical(value any) ([]byte, error) {
	data, err := marshal(value)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := marshal(key)
		if err != nil {
			return nil, err
		}

		buf.WriteByte('{')
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(fields[key])
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// marshal encodes the value without escaping HTML characters so the output
// matches a plain JSON encoder on other platforms.
func marshal(value any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}

	return unescapeSeparators(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// unescapeSeparators writes U+2028 and U+2029 back as raw characters. The
// encoder always escapes them but plain JSON encoders elsewhere don't.
func unescapeSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			out = append(out, data[i])
			continue
		}

		// Any other escape is copied whole so an escaped backslash is never
		// read as the start of the next escape.
		switch rest := data[i:]; {
		case bytes.HasPrefix(rest, []byte(`\u2028`)):
			out = append(out, "\u2028"...)
			i += 5
		case bytes.HasPrefix(rest, []byte(`\u2029`)):
			out = append(out, "\u2029"...)
			i += 5
		case len(rest) > 1:
			out = append(out, rest[:2]...)
			i++
		default:
			out = append(out, rest[0])
		}
	}

	return out
}
