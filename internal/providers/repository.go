package providers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository defines provider storage. Summaries and Detail serve the
// appointment enrichment paths.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Provider, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Provider, error)
	Create(ctx context.Context, p *Provider) error
	Update(ctx context.Context, p *Provider) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Summary, error)
	Detail(ctx context.Context, id primitive.ObjectID) (*Summary, error)
}

// InMemoryRepository keeps providers in a map. It backs handler tests and
// mirrors the Mongo implementation's filter and sort semantics.
type InMemoryRepository struct {
	mu        sync.RWMutex
	providers map[primitive.ObjectID]*Provider
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{providers: make(map[primitive.ObjectID]*Provider)}
}

func (r *InMemoryRepository) List(ctx context.Context, q ListQuery) ([]Provider, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if q.Specialty != "" && !containsFold(p.Specialty, q.Specialty) {
			continue
		}
		if q.Search != "" && !matchesSearch(p, q.Search) {
			continue
		}
		matched = append(matched, *p)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	return paginate(matched, q.Skip(), q.Limit), total, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, p *Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.providers {
		if existing.Email == p.Email {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	copied := *p
	r.providers[p.ID] = &copied
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, p *Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[p.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range r.providers {
		if id != p.ID && existing.Email == p.Email {
			return ErrDuplicateEmail
		}
	}
	p.UpdatedAt = time.Now().UTC()
	copied := *p
	r.providers[p.ID] = &copied
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[id]; !ok {
		return ErrNotFound
	}
	delete(r.providers, id)
	return nil
}

func (r *InMemoryRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[primitive.ObjectID]Summary, len(ids))
	for _, id := range ids {
		if p, ok := r.providers[id]; ok {
			out[id] = p.Summarize(false)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Detail(ctx context.Context, id primitive.ObjectID) (*Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	if !ok {
		// Weak reference: a deleted provider is not an error.
		return nil, nil
	}
	s := p.Summarize(true)
	return &s, nil
}

func matchesSearch(p *Provider, term string) bool {
	return containsFold(p.Name, term) ||
		containsFold(p.Specialty, term) ||
		containsFold(p.Email, term)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate(items []Provider, skip, limit int64) []Provider {
	if skip >= int64(len(items)) {
		return []Provider{}
	}
	end := skip + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}
