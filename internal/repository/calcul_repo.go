package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alexagz79190/promo/internal/model"
)

var ErrCalculIntrouvable = errors.New("calcul introuvable")

// maxCalculs bounds the in-memory history; the oldest runs are evicted first.
const maxCalculs = 100

// Calcul is one completed run kept around so its tables can be downloaded.
type Calcul struct {
	ID       uuid.UUID
	Resultat *model.Resultat
	Base     model.BasePrix
	Format   string // csv | xlsx
	Journal  []string
	CreeLe   time.Time
}

// CalculRepository stores completed runs. The only implementation is
// in-memory and process-scoped: runs are independent and nothing survives a
// restart.
type CalculRepository interface {
	Save(c *Calcul)
	FindByID(id uuid.UUID) (*Calcul, error)
}

type calculRepository struct {
	mu      sync.RWMutex
	calculs map[uuid.UUID]*Calcul
	ordre   []uuid.UUID // insertion order, for eviction
}

func NewCalculRepository() CalculRepository {
	return &calculRepository{calculs: make(map[uuid.UUID]*Calcul)}
}

func (r *calculRepository) Save(c *Calcul) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calculs[c.ID]; !ok {
		r.ordre = append(r.ordre, c.ID)
	}
	r.calculs[c.ID] = c
	for len(r.ordre) > maxCalculs {
		delete(r.calculs, r.ordre[0])
		r.ordre = r.ordre[1:]
	}
}

func (r *calculRepository) FindByID(id uuid.UUID) (*Calcul, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.calculs[id]
	if !ok {
		return nil, ErrCalculIntrouvable
	}
	return c, nil
}
