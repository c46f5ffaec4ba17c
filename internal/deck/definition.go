package deck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/similarity"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition is returned for deck definitions that cannot be loaded.
// It wraps the underlying parse, validation, or reference error.
var ErrInvalidDefinition = errors.New("invalid deck definition")

// ErrUnknownFormat is returned for files whose extension names no known format.
var ErrUnknownFormat = errors.New("unknown deck file format")

// Global validator instance for reuse
var validate = validator.New()

// Format is a deck file encoding.
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Definition is the on-disk shape of a deck.
type Definition struct {
	Name            string           `json:"name"                      yaml:"name"                      validate:"required"`
	Sides           []string         `json:"sides"                     yaml:"sides"                     validate:"min=2,dive,required"`
	TypableSides    []int            `json:"typableSides"              yaml:"typableSides"              validate:"dive,gte=0"`
	RepetitionBoost float64          `json:"repetitionBoost,omitempty" yaml:"repetitionBoost,omitempty" validate:"gte=0"`
	Similar         [][]string       `json:"similar,omitempty"         yaml:"similar,omitempty"         validate:"dive,min=2"`
	Cards           []CardDefinition `json:"cards"                     yaml:"cards"                     validate:"min=1,dive"`
}

// CardDefinition is one card of a Definition. Side values starting with
// "img:" reference images.
type CardDefinition struct {
	ID    string   `json:"id,omitempty" yaml:"id,omitempty"`
	Sides []string `json:"sides"        yaml:"sides"        validate:"min=1"`
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Parse decodes and validates a definition. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Definition, error) {
	var def Definition

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition's struct constraints.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	return nil
}

// Build turns a validated definition into a deck and its similarity graph.
// Side-count mismatches and unresolved similarity references fail here.
func Build(def *Definition) (*domain.Deck, *similarity.Graph, error) {
	if def == nil {
		return nil, nil, fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
	}

	inputs := make([]domain.CardInput, len(def.Cards))
	for i, c := range def.Cards {
		sides := make([]domain.Side, len(c.Sides))
		for j, raw := range c.Sides {
			sides[j] = domain.ParseSide(raw)
		}
		inputs[i] = domain.CardInput{Key: c.ID, Sides: sides}
	}

	d, err := domain.NewDeck(def.Name, def.Sides, def.TypableSides, def.RepetitionBoost, inputs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	graph, err := similarity.Build(d.Len(), similarity.SideIndex(d), def.Similar)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: deck %q: %w", ErrInvalidDefinition, d.Name, err)
	}

	return d, graph, nil
}

// Load parses and builds a deck from data.
func Load(data []byte, format Format) (*domain.Deck, *similarity.Graph, error) {
	def, err := Parse(data, format)
	if err != nil {
		return nil, nil, err
	}
	return Build(def)
}

// LoadFile reads a deck file, inferring the format from its extension.
func LoadFile(path string) (*domain.Deck, *similarity.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read deck file: %w", err)
	}

	d, graph, err := Load(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("deck file %s: %w", filepath.Base(path), err)
	}
	return d, graph, nil
}
