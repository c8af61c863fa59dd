package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/direcciones/card-services/internal/cardsvc/models"
)

// In-memory stand-ins for the mongo stores and the NATS broker.

type fakeCardRepo struct {
	mu    sync.Mutex
	cards map[primitive.ObjectID]*models.Card
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[primitive.ObjectID]*models.Card)}
}

func (r *fakeCardRepo) clone(c *models.Card) *models.Card {
	cp := *c
	cp.Street = append([]primitive.ObjectID(nil), c.Street...)
	cp.UsersAssigned = append([]models.AssignmentEntry(nil), c.UsersAssigned...)
	return &cp
}

func (r *fakeCardRepo) List(ctx context.Context) ([]models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Card, 0, len(r.cards))
	for _, c := range r.cards {
		out = append(out, *r.clone(c))
	}
	return out, nil
}

func (r *fakeCardRepo) Get(ctx context.Context, id primitive.ObjectID) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	return r.clone(c), nil
}

func (r *fakeCardRepo) FindByStreet(ctx context.Context, streetID, excludeID primitive.ObjectID) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.cards {
		if id == excludeID {
			continue
		}
		for _, s := range c.Street {
			if s == streetID {
				return r.clone(c), nil
			}
		}
	}
	return nil, nil
}

func (r *fakeCardRepo) Numbers(ctx context.Context) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	numbers := make([]int, 0, len(r.cards))
	for _, c := range r.cards {
		numbers = append(numbers, c.Number)
	}
	return numbers, nil
}

func (r *fakeCardRepo) Insert(ctx context.Context, card *models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if card.ID.IsZero() {
		card.ID = primitive.NewObjectID()
	}
	r.cards[card.ID] = r.clone(card)
	return nil
}

func (r *fakeCardRepo) SetStreet(ctx context.Context, id primitive.ObjectID, street []primitive.ObjectID) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	c.Street = append([]primitive.ObjectID(nil), street...)
	return r.clone(c), nil
}

func (r *fakeCardRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cards, id)
	return nil
}

func (r *fakeCardRepo) AssignIfAvailable(ctx context.Context, id primitive.ObjectID, entry models.AssignmentEntry) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok || c.StartDate != nil {
		return nil, nil
	}
	date := entry.Date
	c.StartDate = &date
	c.EndDate = nil
	c.UsersAssigned = append(c.UsersAssigned, entry)
	return r.clone(c), nil
}

func (r *fakeCardRepo) Release(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	c.StartDate = nil
	end := at
	c.EndDate = &end
	c.UsersAssigned = []models.AssignmentEntry{}
	return r.clone(c), nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type fakeAddressRepo struct {
	addresses map[primitive.ObjectID]models.Address
}

func newFakeAddressRepo(addresses ...models.Address) *fakeAddressRepo {
	r := &fakeAddressRepo{addresses: make(map[primitive.ObjectID]models.Address)}
	for _, a := range addresses {
		r.addresses[a.ID] = a
	}
	return r
}

func (r *fakeAddressRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Address, error) {
	out := make([]models.Address, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.addresses[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

func (p *fakePublisher) last() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.payloads) == 0 {
		return nil
	}
	return p.payloads[len(p.payloads)-1]
}
