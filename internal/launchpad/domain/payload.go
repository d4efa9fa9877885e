package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// PayloadSchemaVersion is the newest payload layout this build understands.
const PayloadSchemaVersion = 1

var ErrInvalidPayload = errors.New("domain: invalid payload")

type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// Value is exactly one of string, number, bool or null.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Null() Value            { return Value{} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) AsString() (string, bool)  { return v.str, v.kind == KindString }
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }
func (v Value) AsBool() (bool, bool)      { return v.b, v.kind == KindBool }

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ErrInvalidPayload
	}

	switch raw[0] {
	case 'n':
		*v = Null()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		*v = Bool(b)
	case '[', '{':
		return fmt.Errorf("%w: nested values are not supported", ErrInvalidPayload)
	default:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		*v = Number(n)
	}
	return nil
}

// Payload is a versioned open map of primitive values. It replaces the
// free-form JSON blobs sections used to carry.
type Payload struct {
	SchemaVersion int              `json:"schema_version"`
	Fields        map[string]Value `json:"fields"`
}

// Normalize defaults a zero schema version and rejects ones from the future.
func (p *Payload) Normalize() error {
	if p.SchemaVersion == 0 {
		p.SchemaVersion = PayloadSchemaVersion
	}
	if p.SchemaVersion < 0 || p.SchemaVersion > PayloadSchemaVersion {
		return fmt.Errorf("%w: unsupported schema_version %d", ErrInvalidPayload, p.SchemaVersion)
	}
	if p.Fields == nil {
		p.Fields = map[string]Value{}
	}
	for k := range p.Fields {
		if k == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidPayload)
		}
	}
	return nil
}

// Keys returns field names in sorted order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EncodePayload serialises a payload for storage.
func EncodePayload(p Payload) (string, error) {
	if err := p.Normalize(); err != nil {
		return "", err
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodePayload parses a stored or submitted payload.
func DecodePayload(s string) (Payload, error) {
	var p Payload
	if s == "" {
		return p, p.Normalize()
	}
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		if errors.Is(err, ErrInvalidPayload) {
			return Payload{}, err
		}
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, p.Normalize()
}
