// Package taxonomy owns the category and client reference lists. They are
// persisted locally (sqlite), cached in memory, and mutated only through
// this store. The ledger reads them for validation but never writes them,
// so no cross-store locking is needed.
package taxonomy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

// Repository is the local persistence collaborator: read on startup,
// written through after every mutation.
type Repository interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	InsertCategory(ctx context.Context, c core.Category) error
	RenameCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error

	ListClients(ctx context.Context) ([]core.Client, error)
	InsertClient(ctx context.Context, c core.Client) error
	DeleteClient(ctx context.Context, id string) error
}

type Store struct {
	repo   Repository
	logger *applog.Logger

	mu         sync.RWMutex
	categories []core.Category
	clients    []core.Client
}

func NewStore(repo Repository, logger *applog.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger.WithComponent(applog.ComponentTaxonomy),
	}
}

// Load reads both lists from local persistence into the cache.
func (s *Store) Load(ctx context.Context) error {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("load clients: %w", err)
	}

	s.mu.Lock()
	s.categories = categories
	s.clients = clients
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Taxonomy loaded",
		"categories", len(categories), "clients", len(clients))
	return nil
}

// AddCategory persists a new category. (name, type) uniqueness is enforced
// here so duplicate names can never silently shadow each other when
// transactions are resolved against the taxonomy.
func (s *Store) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByName(c.Name, c.Type) >= 0 {
		return core.Category{}, core.ErrDuplicateCategory
	}
	if err := s.repo.InsertCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	s.categories = append(s.categories, c)
	return c, nil
}

// RenameCategory updates a category name in place, keyed by id. This is a
// single atomic write at the repository, not the delete-then-recreate
// two-step, so a failure cannot lose the category.
func (s *Store) RenameCategory(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.findByID(id)
	if idx < 0 {
		return core.ErrNotFound
	}
	if dup := s.findByName(name, s.categories[idx].Type); dup >= 0 && dup != idx {
		return core.ErrDuplicateCategory
	}
	if err := s.repo.RenameCategory(ctx, id, name); err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	s.categories[idx].Name = name
	return nil
}

// DeleteCategory removes a category. Transactions already referencing it
// keep their dangling name; resolution simply stops matching it.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.findByID(id)
	if idx < 0 {
		return core.ErrNotFound
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	return nil
}

// AddClient persists a new client.
func (s *Store) AddClient(ctx context.Context, c core.Client) (core.Client, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.InsertClient(ctx, c); err != nil {
		return core.Client{}, fmt.Errorf("insert client: %w", err)
	}
	s.clients = append(s.clients, c)
	return c, nil
}

// DeleteClient removes a client. Transactions keep their dangling
// reference; there is no integrity enforcement on the client field.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cl := range s.clients {
		if cl.ID == id {
			if err := s.repo.DeleteClient(ctx, id); err != nil {
				return fmt.Errorf("delete client: %w", err)
			}
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// Categories returns a copy of the cached category list.
func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category(nil), s.categories...)
}

// Clients returns a copy of the cached client list.
func (s *Store) Clients() []core.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Client(nil), s.clients...)
}

// Resolve implements the ledger's CategoryResolver: an exact (name, type)
// lookup against the cache.
func (s *Store) Resolve(name string, t core.TransactionType) (core.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.findByName(strings.TrimSpace(name), t); idx >= 0 {
		return s.categories[idx], true
	}
	return core.Category{}, false
}

// caller must hold s.mu
func (s *Store) findByID(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// caller must hold s.mu
func (s *Store) findByName(name string, t core.TransactionType) int {
	for i, c := range s.categories {
		if c.Name == name && c.Type == t {
			return i
		}
	}
	return -1
}
