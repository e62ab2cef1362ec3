package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// NameField is the manifest field holding the package name.
	NameField = "name"
	// KeywordsField is the manifest field holding the package keywords.
	KeywordsField = "keywords"

	// indent matches the formatting npm and wasm-pack use for package.json.
	indent = "  "
)

// errNotObject is returned when the top-level JSON value is not an object.
var errNotObject = errors.New("top-level value is not an object")

// field is a single top-level member of a manifest.
type field struct {
	key   string
	value json.RawMessage
}

// Document is a manifest with ordered top-level fields.
type Document struct {
	fields []field
}

// Parse decodes a manifest from JSON. Duplicate keys keep the position of the
// first occurrence and the value of the last one.
func Parse(data []byte) (*Document, error) {
	if err := json.Unmarshal(data, new(json.RawMessage)); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: %w at offset %d", ErrParse, err, syntaxErr.Offset)
		}

		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: %w", ErrParse, errNotObject)
	}

	doc := new(Document)

	for decoder.More() {
		token, err = decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrParse, token)
		}

		var value json.RawMessage
		if err = decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrParse, key, err)
		}

		doc.set(key, value)
	}

	if _, err = decoder.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return doc, nil
}

// keys returns the top-level field names in document order.
func (d *Document) keys() []string {
	keys := make([]string, 0, len(d.fields))
	for _, f := range d.fields {
		keys = append(keys, f.key)
	}

	return keys
}

// get returns the raw JSON value of a top-level field.
func (d *Document) get(key string) (json.RawMessage, bool) {
	for _, f := range d.fields {
		if f.key == key {
			return f.value, true
		}
	}

	return nil, false
}

// Name returns the package name, or an empty string when it is absent.
func (d *Document) Name() (string, error) {
	var name string
	if err := d.decode(NameField, &name); err != nil {
		return "", err
	}

	return name, nil
}

// Keywords returns the package keywords, or nil when they are absent.
func (d *Document) Keywords() ([]string, error) {
	var keywords []string
	if err := d.decode(KeywordsField, &keywords); err != nil {
		return nil, err
	}

	return keywords, nil
}

// SetName replaces the package name.
func (d *Document) SetName(name string) error {
	return d.Set(NameField, name)
}

// SetKeywords replaces the package keywords. A nil slice is written as an empty array.
func (d *Document) SetKeywords(keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}

	return d.Set(KeywordsField, keywords)
}

// Set replaces the value of a top-level field, appending it when absent.
func (d *Document) Set(key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	d.set(key, raw)

	return nil
}

// MarshalIndent renders the document with two-space indentation and a trailing newline.
func (d *Document) MarshalIndent() ([]byte, error) {
	var compact bytes.Buffer

	compact.WriteByte('{')

	for i, f := range d.fields {
		if i > 0 {
			compact.WriteByte(',')
		}

		key, err := encode(f.key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", f.key, err)
		}

		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(f.value)
	}

	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("indent manifest: %w", err)
	}

	out.WriteByte('\n')

	return out.Bytes(), nil
}

func (d *Document) set(key string, value json.RawMessage) {
	for i := range d.fields {
		if d.fields[i].key == key {
			d.fields[i].value = value
			return
		}
	}

	d.fields = append(d.fields, field{key: key, value: value})
}

func (d *Document) decode(key string, dst any) error {
	raw, ok := d.get(key)
	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}

	return nil
}

// encode marshals a value without HTML escaping, the way JSON.stringify does.
func encode(value any) (json.RawMessage, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
