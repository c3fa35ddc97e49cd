package out

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"yogavrita/internal/modules/catalog/domain"
	catalogout "yogavrita/internal/modules/catalog/port/out"
)

//go:embed builtin_catalog.yaml
var builtinCatalog []byte

type catalogDocument struct {
	Sequences []domain.Sequence `yaml:"sequences"`
}

// YAMLSource reads the catalog from a YAML file, or from the built-in weekly
// catalog when no path is configured.
type YAMLSource struct {
	path string
}

func NewBuiltinSource() catalogout.SequenceSource {
	return &YAMLSource{}
}

func NewYAMLFileSource(path string) catalogout.SequenceSource {
	return &YAMLSource{path: path}
}

func (s *YAMLSource) Sequences(_ context.Context) ([]domain.Sequence, error) {
	raw := builtinCatalog
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		raw = b
	}
	return DecodeYAML(bytes.NewReader(raw))
}

func DecodeYAML(r io.Reader) ([]domain.Sequence, error) {
	doc := catalogDocument{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return doc.Sequences, nil
}

type YAMLEncoder struct{}

func NewYAMLEncoder() catalogout.SequenceEncoder {
	return YAMLEncoder{}
}

func (YAMLEncoder) Encode(w io.Writer, sequences []domain.Sequence) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(catalogDocument{Sequences: sequences}); err != nil {
		return fmt.Errorf("encode catalog yaml: %w", err)
	}
	return encoder.Close()
}
