// Package codec encodes and decodes the shared verification codes document.
//
// The document is a single flat JSON object keyed by code:
//
//	{"482913":{"minecraft_username":"Alice","timestamp":1700000000,"verified":false}}
//
// The format is shared with a foreign peer process that rewrites the whole
// document on every mutation, so Encode must keep the byte-level shape the
// peer expects: compact output, sorted keys, fixed field order, no HTML
// escaping. The peer's writer does not escape string values, so strings
// containing a quote, backslash, brace, comma, or control character cannot
// travel on this wire; Encode rejects them instead of silently upgrading
// the format.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/msga/verify-gate/pkg/domain"
)

var (
	// ErrCorrupt is returned by Decode when the document does not parse as
	// the shared grammar. Callers discard the document and start empty.
	ErrCorrupt = errors.New("codes document is corrupt")

	// ErrUnsupportedText is returned by Encode when a string field contains
	// characters the unescaped wire format cannot carry.
	ErrUnsupportedText = errors.New("text not representable in codes document")
)

// Collection is the in-memory form of the document, keyed by code.
type Collection map[string]domain.Record

// entry mirrors the peer's field names and order. Field order here fixes
// the encoded field order.
type entry struct {
	PlayerName    string `json:"minecraft_username"`
	Timestamp     int64  `json:"timestamp"`
	DiscordUserID string `json:"discord_user_id,omitempty"`
	Verified      bool   `json:"verified"`
}

// Encode renders the collection in the shared wire format. Output is
// deterministic: json.Marshal sorts map keys, and field order follows the
// entry struct.
func Encode(c Collection) ([]byte, error) {
	doc := make(map[string]entry, len(c))
	for code, rec := range c {
		if err := checkText(code); err != nil {
			return nil, err
		}
		if err := checkText(rec.PlayerName); err != nil {
			return nil, err
		}
		if err := checkText(rec.DiscordUserID); err != nil {
			return nil, err
		}
		doc[code] = entry{
			PlayerName:    rec.PlayerName,
			Timestamp:     rec.CreatedAt,
			DiscordUserID: rec.DiscordUserID,
			Verified:      rec.Verified,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode codes document: %w", err)
	}
	// json.Encoder appends a newline the peer's writer does not emit.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a document. Empty or whitespace-only input is an empty
// collection. Any parse failure yields ErrCorrupt and no partial result;
// the peer sometimes writes indented output, which plain JSON parsing
// tolerates.
func Decode(data []byte) (Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Collection{}, nil
	}

	var doc map[string]entry
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	// Trailing garbage after the closing brace is corruption too.
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrCorrupt)
	}

	c := make(Collection, len(doc))
	for code, e := range doc {
		c[code] = domain.Record{
			Code:          code,
			PlayerName:    e.PlayerName,
			CreatedAt:     e.Timestamp,
			Verified:      e.Verified,
			DiscordUserID: e.DiscordUserID,
		}
	}
	return c, nil
}

func checkText(s string) error {
	for _, c := range s {
		if c == '"' || c == '\\' || c == '{' || c == '}' || c == ',' || c < 0x20 {
			return fmt.Errorf("%w: %q", ErrUnsupportedText, s)
		}
	}
	return nil
}
