// Package asset stores serialized OpenAPI documents as content-addressed
// artifacts, either in a local staging directory or in Amazon S3.
//
// Stores are handed an [Object] and return an [Asset] describing where the
// bytes landed:
//
//	store := asset.NewFileStore("cdk.out/assets")
//	a, err := store.Put(ctx, asset.Object{ID: "petstore", Data: data, ContentType: "application/yaml"})
//	fmt.Println(a.Location)
package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	"github.com/erraggy/openapix/oaserrors"
)

// Object is a serialized document waiting to be stored.
type Object struct {
	// ID names the asset. It must be a valid identifier (see ValidateID).
	ID string
	// Data holds the serialized document.
	Data []byte
	// ContentType is the media type, e.g. "application/yaml".
	ContentType string
}

// Asset describes a stored document.
type Asset struct {
	// ID is the identifier the asset was stored under.
	ID string `json:"id"`
	// Key is the object key or file name within the store.
	Key string `json:"key"`
	// Hash is the hex-encoded SHA-256 of the content.
	Hash string `json:"hash"`
	// Size is the content length in bytes.
	Size int64 `json:"size"`
	// Location is a URI for the stored content (file path or s3:// URL).
	Location string `json:"location"`
	// ContentType is the media type the content was stored with.
	ContentType string `json:"contentType"`
}

// Store persists serialized documents.
type Store interface {
	Put(ctx context.Context, obj Object) (*Asset, error)
}

var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateID checks that id is usable as a file name and object key segment.
func ValidateID(id string) error {
	if !validID.MatchString(id) {
		return &oaserrors.AssetError{ID: id, Message: "id must start with a letter or digit and contain only letters, digits, '.', '_' or '-'"}
	}
	return nil
}

// Hash returns the hex-encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Extension returns the file extension, including the dot, for a content type.
func Extension(contentType string) string {
	switch contentType {
	case "application/json":
		return ".json"
	case "application/yaml", "application/x-yaml", "text/yaml":
		return ".yaml"
	default:
		return ""
	}
}
