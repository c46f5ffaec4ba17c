package domain

import "strings"

// ImagePrefix marks a side value that references an image instead of text.
const ImagePrefix = "img:"

// SideKind distinguishes text sides from image references.
type SideKind string

// Possible side kinds
const (
	SideText  SideKind = "text"
	SideImage SideKind = "image"
)

// Side is one face of a card: either literal text or an image URL.
type Side struct {
	Kind  SideKind `json:"kind"`
	Value string   `json:"value"`
}

// ParseSide interprets a raw deck value, turning "img:<url>" into an image side.
func ParseSide(raw string) Side {
	if url, ok := strings.CutPrefix(raw, ImagePrefix); ok {
		return Side{Kind: SideImage, Value: strings.TrimSpace(url)}
	}
	return Side{Kind: SideText, Value: raw}
}

// IsImage reports whether the side references an image.
func (s Side) IsImage() bool {
	return s.Kind == SideImage
}

// Raw returns the side in deck-file notation.
func (s Side) Raw() string {
	if s.IsImage() {
		return ImagePrefix + s.Value
	}
	return s.Value
}
