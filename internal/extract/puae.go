package extract

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// puaMarker is the private-use-area rune that opens an in-band encoding of
// a scalar that has no native JSON representation, per spec.md §6
// ("puae-jsonl"). It is followed by a one-letter type tag and the payload.
const puaMarker = ''

const (
	tagDecimal = 'D'
	tagTime    = 'T'
	tagBytes   = 'B'
	tagUUID    = 'U'
)

// EncodeScalar converts a column value that encoding/json cannot represent
// natively into a puae-jsonl string; values json already understands pass
// through unchanged.
func EncodeScalar(v any) any {
	switch t := v.(type) {
	case decimal.Decimal:
		return encode(tagDecimal, t.String())
	case time.Time:
		return encode(tagTime, t.UTC().Format(time.RFC3339Nano))
	case []byte:
		return encode(tagBytes, base64.StdEncoding.EncodeToString(t))
	case uuid.UUID:
		return encode(tagUUID, t.String())
	default:
		return v
	}
}

// DecodeScalar reverses EncodeScalar: a puae-jsonl string is restored to
// its concrete Go type; anything else passes through unchanged.
func DecodeScalar(v any) (any, error) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, string(puaMarker)) {
		return v, nil
	}
	body := []rune(s)[1:]
	if len(body) == 0 {
		return nil, fmt.Errorf("puae-jsonl: empty encoded scalar")
	}
	tag := body[0]
	payload := string(body[1:])

	switch tag {
	case tagDecimal:
		d, err := decimal.NewFromString(payload)
		if err != nil {
			return nil, fmt.Errorf("puae-jsonl: invalid decimal: %w", err)
		}
		return d, nil
	case tagTime:
		ts, err := time.Parse(time.RFC3339Nano, payload)
		if err != nil {
			return nil, fmt.Errorf("puae-jsonl: invalid time: %w", err)
		}
		return ts, nil
	case tagBytes:
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("puae-jsonl: invalid bytes: %w", err)
		}
		return b, nil
	case tagUUID:
		id, err := uuid.Parse(payload)
		if err != nil {
			return nil, fmt.Errorf("puae-jsonl: invalid uuid: %w", err)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("puae-jsonl: unknown type tag %q", tag)
	}
}

func encode(tag rune, payload string) string {
	return string(puaMarker) + string(tag) + payload
}

// EncodeItem returns a shallow copy of item with every value run through
// EncodeScalar, ready to marshal as one puae-jsonl line.
func EncodeItem(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	for k, v := range item {
		out[k] = EncodeScalar(v)
	}
	return out
}

// DecodeItem reverses EncodeItem.
func DecodeItem(item map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(item))
	for k, v := range item {
		dv, err := DecodeScalar(v)
		if err != nil {
			return nil, err
		}
		out[k] = dv
	}
	return out, nil
}
