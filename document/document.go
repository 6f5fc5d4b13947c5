/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	storeerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

const (
	idField   = "id"
	selfField = "_self"
)

// Document is an immutable, vendor-neutral view of a stored document.
// The zero value is not a valid document.
type Document struct {
	id       string
	selfLink string
	payload  []byte
}

// ID returns the document identity.
func (d Document) ID() string {
	return d.id
}

// SelfLink returns the store-assigned reference of the document.
// Documents built from caller-supplied JSON have no self-link until written.
func (d Document) SelfLink() string {
	return d.selfLink
}

// JSON returns the payload as JSON text.
func (d Document) JSON() string {
	return string(d.payload)
}

// Bytes returns a copy of the JSON payload.
func (d Document) Bytes() []byte {
	return bytes.Clone(d.payload)
}

// IsZero reports whether d carries no payload.
func (d Document) IsZero() bool {
	return len(d.payload) == 0
}

// MarshalJSON emits the payload unchanged.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return d.Bytes(), nil
}

// Decode unmarshals the payload into v.
func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.payload, v); err != nil {
		return storeerrors.NewDecodeError(fmt.Sprintf("%T", v), err)
	}
	return nil
}

// As decodes the payload into a new value of type T.
func As[T any](d Document) (T, error) {
	var out T
	if err := json.Unmarshal(d.payload, &out); err != nil {
		return out, storeerrors.NewDecodeError(fmt.Sprintf("%T", out), err)
	}
	return out, nil
}

// FromJSON parses raw JSON text into a Document.
func FromJSON(raw string) (Document, error) {
	fields, err := parseObject([]byte(raw))
	if err != nil {
		return Document{}, err
	}

	id, err := stringField(fields, idField)
	if err != nil {
		return Document{}, err
	}
	self, err := stringField(fields, selfField)
	if err != nil {
		return Document{}, err
	}

	return Document{id: id, selfLink: self, payload: compact([]byte(raw))}, nil
}

// Wrap adapts a single vendor document.
func Wrap(native storagemodels.NativeDocument) (Document, error) {
	if isNil(native) {
		return Document{}, storeerrors.NewValidationError("document", "vendor document cannot be nil")
	}

	payload, err := native.JSON()
	if err != nil {
		return Document{}, fmt.Errorf("render vendor document %q: %w", native.ID(), err)
	}

	return Document{
		id:       native.ID(),
		selfLink: native.SelfLink(),
		payload:  compact(payload),
	}, nil
}

// WrapAll adapts a page of vendor documents, preserving order.
func WrapAll(natives []storagemodels.NativeDocument) ([]Document, error) {
	wrapped := make([]Document, 0, len(natives))
	for i, native := range natives {
		doc, err := Wrap(native)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		wrapped = append(wrapped, doc)
	}
	return wrapped, nil
}

// Encode normalises a caller value into JSON object bytes and returns its id.
// Accepted inputs are Document, *Document, JSON text as string, []byte or
// json.RawMessage, and any value encoding/json can marshal to an object.
func Encode(v any) ([]byte, string, error) {
	var raw []byte

	switch tv := v.(type) {
	case nil:
		return nil, "", storeerrors.NewValidationError("document", "document is required")
	case Document:
		raw = tv.payload
	case *Document:
		if tv == nil {
			return nil, "", storeerrors.NewValidationError("document", "document is required")
		}
		raw = tv.payload
	case string:
		raw = []byte(tv)
	case []byte:
		raw = tv
	case json.RawMessage:
		raw = tv
	default:
		if isNil(v) {
			return nil, "", storeerrors.NewValidationError("document", "document is required")
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", storeerrors.NewValidationError("document", fmt.Sprintf("cannot encode %T: %v", v, err))
		}
		raw = b
	}

	fields, err := parseObject(raw)
	if err != nil {
		return nil, "", err
	}
	id, err := stringField(fields, idField)
	if err != nil {
		return nil, "", err
	}
	if id == "" {
		return nil, "", storeerrors.NewValidationError(idField, "document id is required")
	}

	return compact(raw), id, nil
}

func parseObject(raw []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, storeerrors.NewValidationError("document", "payload must be a JSON object")
	}
	return fields, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", storeerrors.NewValidationError(name, "must be a string")
	}
	return s, nil
}

func compact(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return bytes.Clone(raw)
	}
	return buf.Bytes()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
