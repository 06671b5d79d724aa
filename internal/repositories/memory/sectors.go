package memory

import (
	"context"
	"sort"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

type SectorRepository struct {
	store *Store
}

func (r *SectorRepository) FindSector(ctx context.Context, name string) (*entities.Sector, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sector, ok := r.store.st.sectors[name]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &sector, nil
}

func (r *SectorRepository) GetSectors(ctx context.Context) ([]entities.Sector, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sectors := make([]entities.Sector, 0, len(r.store.st.sectors))
	for _, sector := range r.store.st.sectors {
		if !sector.IsDeleted() {
			sectors = append(sectors, sector)
		}
	}
	sort.Slice(sectors, func(i, j int) bool { return sectors[i].Name < sectors[j].Name })
	return sectors, nil
}

func (r *SectorRepository) CreateSector(ctx context.Context, sector *entities.Sector) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.st.sectors[sector.Name]; exists {
		return apperrors.AlreadyExists("sector %q already exists", sector.Name)
	}
	sector.CreatedAt = r.store.now()
	r.store.st.sectors[sector.Name] = *sector
	return nil
}
