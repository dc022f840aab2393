package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Placeholders substituted for fields a catalog entry does not carry.
const (
	NoTitle       = "No Title"
	NoIcon        = "No Icon"
	NoDescription = "No Description"
)

// Entry is one application record from a catalog file.
//
// Only the fields the composer needs are decoded; the original object is kept
// so that a merged catalog is written back without losing scraper fields.
type Entry struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Description string `json:"description"`

	// numericID records that the id was a JSON number, so 1 and "1" stay
	// distinct identities.
	numericID bool
	raw       json.RawMessage
}

// UnmarshalJSON accepts string or numeric ids and tolerates non-string
// title/icon/description values by leaving them empty.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	id, numeric, err := decodeID(fields["id"])
	if err != nil {
		return err
	}
	*e = Entry{
		ID:          id,
		numericID:   numeric,
		Title:       decodeString(fields["title"]),
		Icon:        decodeString(fields["icon"]),
		Description: decodeString(fields["description"]),
		raw:         append(json.RawMessage(nil), b...),
	}
	return nil
}

// MarshalJSON writes the original object when the entry was decoded from JSON.
// Display fields changed since decoding replace the original values; keys the
// entry does not model pass through.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	if len(e.raw) == 0 {
		return json.Marshal(plain(e))
	}
	var decoded Entry
	if err := decoded.UnmarshalJSON(e.raw); err != nil {
		return nil, err
	}
	if decoded.ID == e.ID && decoded.Title == e.Title && decoded.Icon == e.Icon && decoded.Description == e.Description {
		return e.raw, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.raw, &fields); err != nil {
		return nil, err
	}
	set := func(key, value, was string) error {
		if value == was {
			return nil
		}
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fields[key] = b
		return nil
	}
	if err := set("id", e.ID, decoded.ID); err != nil {
		return nil, err
	}
	if err := set("title", e.Title, decoded.Title); err != nil {
		return nil, err
	}
	if err := set("icon", e.Icon, decoded.Icon); err != nil {
		return nil, err
	}
	if err := set("description", e.Description, decoded.Description); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// identity is the merge key. Numeric and string ids never collide.
func (e Entry) identity() string {
	if e.numericID {
		return "n:" + e.ID
	}
	return "s:" + e.ID
}

// WithPlaceholders returns a copy with empty display fields replaced.
func (e Entry) WithPlaceholders() Entry {
	if e.Title == "" {
		e.Title = NoTitle
	}
	if e.Icon == "" {
		e.Icon = NoIcon
	}
	if e.Description == "" {
		e.Description = NoDescription
	}
	return e
}

func decodeID(raw json.RawMessage) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, err
		}
		return s, false, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false, fmt.Errorf("id must be a string or number: %s", raw)
	}
	return n.String(), true, nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
