package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/rolodex/pkg/adapters/snapshot"
	"gopkg.in/yaml.v3"
)

// Serializer defines how a snapshot document is read and written in one file format.
type Serializer interface {
	// Decode reads a snapshot document from r.
	Decode(r io.Reader) (snapshot.Document, error)
	// Encode converts the document to bytes.
	Encode(doc snapshot.Document) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by file extension.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(strict),
		".yaml": NewYAMLSerializer(strict),
		".yml":  NewYAMLSerializer(strict),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON snapshots.
type JSONSerializer struct {
	// Strict rejects fields the snapshot format does not know.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Decode(r io.Reader) (snapshot.Document, error) {
	var doc snapshot.Document
	decoder := json.NewDecoder(r)
	if s.Strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(&doc); err != nil {
		return snapshot.Document{}, fmt.Errorf("invalid json: %w", err)
	}
	return doc, nil
}

func (s *JSONSerializer) Encode(doc snapshot.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML snapshots.
type YAMLSerializer struct {
	// Strict rejects fields the snapshot format does not know.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Decode(r io.Reader) (snapshot.Document, error) {
	var doc snapshot.Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(s.Strict)
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return snapshot.Document{Version: snapshot.Version}, nil
		}
		return snapshot.Document{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return doc, nil
}

func (s *YAMLSerializer) Encode(doc snapshot.Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
