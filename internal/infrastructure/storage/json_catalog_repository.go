package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// JSONCatalogRepository хранит каталог в одном JSON-файле (формат films.json)
type JSONCatalogRepository struct {
	mu   sync.Mutex
	path string
}

// NewJSONCatalogRepository создаёт хранилище каталога в файле path
func NewJSONCatalogRepository(path string) *JSONCatalogRepository {
	return &JSONCatalogRepository{path: path}
}

// Load читает каталог. Отсутствующий файл означает пустой каталог.
func (r *JSONCatalogRepository) Load(ctx context.Context) (entity.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return entity.Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", entity.ErrStorageRead, r.path, err)
	}

	catalog, err := entity.DecodeCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrStorageRead, r.path, err)
	}
	return catalog, nil
}

// Save атомарно заменяет файл каталога
func (r *JSONCatalogRepository) Save(ctx context.Context, catalog entity.Catalog) error {
	data, err := catalog.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStorageWrite, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStorageWrite, err)
	}
	return nil
}

var _ port.CatalogRepository = (*JSONCatalogRepository)(nil)
