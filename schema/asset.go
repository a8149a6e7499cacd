package schema

import (
	"context"

	"github.com/erraggy/openapix/asset"
)

// ToAsset serializes the document in its output format and stores it under
// id. The returned Asset reports where the content was written.
func (s *Schema) ToAsset(ctx context.Context, store asset.Store, id string) (*asset.Asset, error) {
	data, err := s.Marshal(s.OutputFormat())
	if err != nil {
		return nil, err
	}
	a, err := store.Put(ctx, asset.Object{
		ID:          id,
		Data:        data,
		ContentType: s.OutputFormat().ContentType(),
	})
	if err != nil {
		return nil, err
	}
	s.Logger().Info("stored document", "id", a.ID, "location", a.Location, "size", a.Size)
	return a, nil
}
