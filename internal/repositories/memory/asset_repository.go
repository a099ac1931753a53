package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

// AssetRepository is the in-memory fixed-asset register.
type AssetRepository struct {
	store *Store
}

var _ portsrepo.AssetRepository = (*AssetRepository)(nil)

func (r *AssetRepository) SaveAsset(ctx context.Context, asset domain.FixedAsset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.assets[asset.AssetID]; exists {
		return fmt.Errorf("%w: asset %s", apperrors.ErrDuplicate, asset.AssetID)
	}
	r.store.assets[asset.AssetID] = asset
	return nil
}

func (r *AssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	asset, ok := r.store.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, assetID)
	}
	return &asset, nil
}

func (r *AssetRepository) ListAssets(ctx context.Context, activeOnly bool) ([]domain.FixedAsset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	assets := make([]domain.FixedAsset, 0, len(r.store.assets))
	for _, a := range r.store.assets {
		if activeOnly && !a.IsActive {
			continue
		}
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].AssetID < assets[j].AssetID
	})
	return assets, nil
}

func (r *AssetRepository) UpdateAsset(ctx context.Context, asset domain.FixedAsset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.assets[asset.AssetID]; !ok {
		return fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, asset.AssetID)
	}
	r.store.assets[asset.AssetID] = asset
	return nil
}
