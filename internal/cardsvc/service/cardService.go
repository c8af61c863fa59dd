package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/direcciones/card-services/internal/cardsvc/models"
)

// CardRepo is the persistence contract the lifecycle engine runs on.
// Implemented by store.CardStore; faked in tests.
type CardRepo interface {
	List(ctx context.Context) ([]models.Card, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Card, error)
	FindByStreet(ctx context.Context, streetID, excludeID primitive.ObjectID) (*models.Card, error)
	Numbers(ctx context.Context) ([]int, error)
	Insert(ctx context.Context, card *models.Card) error
	SetStreet(ctx context.Context, id primitive.ObjectID, street []primitive.ObjectID) (*models.Card, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AssignIfAvailable(ctx context.Context, id primitive.ObjectID, entry models.AssignmentEntry) (*models.Card, error)
	Release(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Card, error)
}

type UserRepo interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// CardService drives the card lifecycle: existence follows the street
// set (empty street deletes the card), custody follows the
// assign/return cycle. Every committing operation triggers exactly one
// snapshot broadcast.
type CardService struct {
	cards    CardRepo
	users    UserRepo
	notifier *Notifier

	// serializes number allocation and street linkage, both of which
	// are check-then-act against the store
	mu sync.Mutex

	now func() time.Time
}

func NewCardService(cards CardRepo, users UserRepo, notifier *Notifier) *CardService {
	return &CardService{
		cards:    cards,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *CardService) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Broadcast(ctx)
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// Create allocates the lowest free card number and persists a card in
// the caller's group with an empty street set. Start and end dates are
// the only caller-settable fields and are usually nil.
func (s *CardService) Create(ctx context.Context, group string, startDate, endDate *time.Time) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	numbers, err := s.cards.Numbers(ctx)
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		Number:        nextNumber(numbers),
		Group:         group,
		Street:        []primitive.ObjectID{},
		UsersAssigned: []models.AssignmentEntry{},
		StartDate:     startDate,
		EndDate:       endDate,
	}

	if err := s.cards.Insert(ctx, card); err != nil {
		return nil, err
	}

	s.notify(ctx)
	return card, nil
}

// Update toggles the given street ids on the card: ids already linked
// to it are removed, unclaimed ids are added, ids claimed by a
// different card fail the whole call with AddressLinkedError. When the
// resulting set is empty the card is deleted and (nil, nil) is
// returned; callers must distinguish that outcome from an updated card.
func (s *CardService) Update(ctx context.Context, id string, streetIDs []string) (*models.Card, error) {
	cardID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	street := make([]primitive.ObjectID, len(card.Street))
	copy(street, card.Street)

	for _, sid := range streetIDs {
		streetID, err := parseID(sid)
		if err != nil {
			return nil, err
		}

		if idx := indexOf(street, streetID); idx >= 0 {
			street = append(street[:idx], street[idx+1:]...)
			continue
		}

		other, err := s.cards.FindByStreet(ctx, streetID, cardID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, &AddressLinkedError{AddressID: sid}
		}

		street = append(street, streetID)
	}

	street = dedupe(street)

	if len(street) == 0 {
		if err := s.cards.Delete(ctx, cardID); err != nil {
			return nil, err
		}
		s.notify(ctx)
		return nil, nil
	}

	updated, err := s.cards.SetStreet(ctx, cardID, street)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCardNotFound
	}

	s.notify(ctx)
	return updated, nil
}

// Delete removes the card unconditionally. Deleting an absent card is
// not an error.
func (s *CardService) Delete(ctx context.Context, id string) error {
	cardID, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		return err
	}

	s.notify(ctx)
	return nil
}

// Assign checks out every card in cardIDs to the target user, in list
// order, stamping the whole batch with one shared timestamp. The group
// check rejects the batch up front; per-card failures abort it, but
// transitions already committed are NOT rolled back — callers must
// re-query after a reported failure. The broadcast fires only when the
// whole batch succeeds.
func (s *CardService) Assign(ctx context.Context, callerGroup, userID string, cardIDs []string) ([]models.Card, *models.User, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	if callerGroup != user.Group {
		return nil, nil, ErrGroupMismatch
	}

	now := s.now().UTC()
	updated := make([]models.Card, 0, len(cardIDs))

	for _, cid := range cardIDs {
		cardID, err := parseID(cid)
		if err != nil {
			return nil, nil, err
		}

		entry := models.AssignmentEntry{UserID: uid, Date: now}
		card, err := s.cards.AssignIfAvailable(ctx, cardID, entry)
		if err != nil {
			return nil, nil, err
		}
		if card == nil {
			// conditional write matched nothing: absent or in use
			existing, err := s.cards.Get(ctx, cardID)
			if err != nil {
				return nil, nil, err
			}
			if existing == nil {
				return nil, nil, fmt.Errorf("card %s: %w", cid, ErrCardNotFound)
			}
			return nil, nil, &CardInUseError{CardID: cid}
		}

		updated = append(updated, *card)
	}

	s.notify(ctx)
	return updated, user, nil
}

// Return closes the custody cycle: only the most recent assignee may
// return the card. On success startDate is cleared, endDate stamped and
// the assignment history wiped.
func (s *CardService) Return(ctx context.Context, userID, cardID string) (*models.Card, error) {
	id, err := parseID(cardID)
	if err != nil {
		return nil, err
	}

	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	last := card.LastAssignment()
	if last == nil || last.UserID.Hex() != userID {
		return nil, ErrNotCardOwner
	}

	returned, err := s.cards.Release(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if returned == nil {
		return nil, ErrCardNotFound
	}

	s.notify(ctx)
	return returned, nil
}

func indexOf(ids []primitive.ObjectID, id primitive.ObjectID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
