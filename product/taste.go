package product

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Taste is the ordered list of taste descriptors. The catalogue has stored it
// as a JSON array, as a JSON-encoded string and as a keyed object, so decoding
// accepts all three.
type Taste []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Taste) UnmarshalJSON(data []byte) error {
	*t = NormalizeTaste(data)
	return nil
}

// Scan implements sql.Scanner for json/jsonb/text columns.
func (t *Taste) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
	case []byte:
		*t = normalizeColumn(v)
	case string:
		*t = normalizeColumn([]byte(v))
	default:
		return fmt.Errorf("taste: unsupported column type %T", src)
	}
	return nil
}

// Value implements driver.Valuer; taste is always written back as an array.
func (t Taste) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// normalizeColumn treats a column value that is not JSON as a single descriptor.
func normalizeColumn(raw []byte) Taste {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if !json.Valid(trimmed) {
		return Taste{string(trimmed)}
	}
	return NormalizeTaste(trimmed)
}

// NormalizeTaste turns any of the stored taste shapes into an ordered list.
//
//	null, "" or empty input      -> empty
//	["Dry","Oaky"]               -> [Dry Oaky]
//	"[\"Dry\",\"Oaky\"]"         -> [Dry Oaky]   (string holding JSON)
//	"Dry and fruity"             -> [Dry and fruity]
//	{"a":"Dry","b":"Oaky"}       -> [Dry Oaky]   (values in key order)
func NormalizeTaste(raw []byte) Taste {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case 'n':
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Taste{string(raw)}
		}
		out := make(Taste, 0, len(items))
		for _, item := range items {
			out = append(out, scalarText(item))
		}
		return out
	case '{':
		values, err := orderedObjectValues(raw)
		if err != nil {
			return Taste{string(raw)}
		}
		return values
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Taste{string(raw)}
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		inner := []byte(strings.TrimSpace(s))
		if json.Valid(inner) {
			if nested := NormalizeTaste(inner); nested != nil {
				return nested
			}
		}
		return Taste{s}
	default:
		return Taste{string(raw)}
	}
}

// orderedObjectValues walks the object token by token so key order survives;
// decoding into a map would lose it.
func orderedObjectValues(raw []byte) (Taste, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	out := Taste{}
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, scalarText(value))
	}
	return out, nil
}

func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
