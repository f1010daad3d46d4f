package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// JSONUserRepository хранит пользователей в JSON-файле.
// Все записи держатся в памяти, файл переписывается целиком при каждом сохранении.
type JSONUserRepository struct {
	mu    sync.RWMutex
	path  string
	users map[int64]entity.UserRecord
}

// NewJSONUserRepository загружает пользователей из path
func NewJSONUserRepository(path string) (*JSONUserRepository, error) {
	repo := &JSONUserRepository{
		path:  path,
		users: make(map[int64]entity.UserRecord),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *JSONUserRepository) load() error {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", entity.ErrStorageRead, r.path, err)
	}

	var records []entity.UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("%w: decode %s: %v", entity.ErrStorageRead, r.path, err)
	}
	for _, rec := range records {
		r.users[rec.ID] = rec
	}
	return nil
}

// Get возвращает пользователя или nil
func (r *JSONUserRepository) Get(ctx context.Context, userID int64) (*entity.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Save сохраняет пользователя и переписывает файл
func (r *JSONUserRepository) Save(ctx context.Context, user *entity.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, existed := r.users[user.ID]
	r.users[user.ID] = *user

	if err := r.persistLocked(); err != nil {
		if existed {
			r.users[user.ID] = prev
		} else {
			delete(r.users, user.ID)
		}
		return err
	}
	return nil
}

// Count возвращает число пользователей
func (r *JSONUserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *JSONUserRepository) persistLocked() error {
	records := make([]entity.UserRecord, 0, len(r.users))
	for _, rec := range r.users {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode users: %v", entity.ErrStorageWrite, err)
	}
	if err := writeFileAtomic(r.path, append(data, '\n')); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStorageWrite, err)
	}
	return nil
}

var _ port.UserRepository = (*JSONUserRepository)(nil)
