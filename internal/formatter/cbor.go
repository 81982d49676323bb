package formatter

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// CBORFormatter writes response bodies as deterministic CBOR
type CBORFormatter struct {
	baseFormatter
	enc cbor.EncMode
}

// NewCBORFormatter creates a CBOR formatter using the canonical encoding
// profile. Without arguments it supports application/cbor.
func NewCBORFormatter(mediaTypes ...string) (*CBORFormatter, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	return &CBORFormatter{
		baseFormatter: newBaseFormatter(FamilyCBOR, []string{"application/cbor"}, mediaTypes),
		enc:           em,
	}, nil
}

// Write encodes v as CBOR
func (f *CBORFormatter) Write(w io.Writer, v any) error {
	return f.enc.NewEncoder(w).Encode(v)
}
