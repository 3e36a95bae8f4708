package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ResourceKind drives extension inference and fallback selection.
type ResourceKind string

const (
	ResourceKindImage ResourceKind = "image"
	ResourceKindVideo ResourceKind = "video"
	ResourceKindAudio ResourceKind = "audio"
	ResourceKindRaw   ResourceKind = "raw"
)

// ParseResourceKind maps any stored value to a known kind. Unknown values become raw.
func ParseResourceKind(s string) ResourceKind {
	switch ResourceKind(strings.ToLower(strings.TrimSpace(s))) {
	case ResourceKindImage:
		return ResourceKindImage
	case ResourceKindVideo:
		return ResourceKindVideo
	case ResourceKindAudio:
		return ResourceKindAudio
	default:
		return ResourceKindRaw
	}
}

// KindFromMimeType derives the resource kind from a MIME type.
func KindFromMimeType(mimeType string) ResourceKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return ResourceKindImage
	case strings.HasPrefix(mimeType, "video/"):
		return ResourceKindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return ResourceKindAudio
	default:
		return ResourceKindRaw
	}
}

func (k ResourceKind) String() string {
	return string(k)
}

func (k *ResourceKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("ResourceKind: %w", err)
	}
	*k = ParseResourceKind(s)
	return nil
}

func (k ResourceKind) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(ParseResourceKind(string(k))))
}

func (k *ResourceKind) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bson.TypeString {
		*k = ResourceKindRaw
		return nil
	}
	var s string
	raw := bson.RawValue{Type: t, Value: data}
	if err := raw.Unmarshal(&s); err != nil {
		return fmt.Errorf("ResourceKind: %w", err)
	}
	*k = ParseResourceKind(s)
	return nil
}

// MediaReference is the canonical persisted pointer to an uploaded asset. It is
// embedded inline in the owning post or message.
type MediaReference struct {
	PublicID     string       `json:"public_id" bson:"public_id" validate:"required,max=255"`
	URL          string       `json:"url" bson:"url" validate:"omitempty,max=2048"`
	SecureURL    string       `json:"secure_url" bson:"secure_url" validate:"omitempty,max=2048"`
	ResourceKind ResourceKind `json:"resource_type" bson:"resource_type"`
	Format       string       `json:"format,omitempty" bson:"format,omitempty"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
}

// PreferredURL returns secure_url when set, url otherwise.
func (m MediaReference) PreferredURL() string {
	if m.SecureURL != "" {
		return m.SecureURL
	}
	return m.URL
}
