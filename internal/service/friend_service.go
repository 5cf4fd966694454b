package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const searchLimit = 20

// UserSummary is the public face of a user shown to other users.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

func summarize(u *domain.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.DisplayName(), Username: u.Username}
}

type Friend struct {
	FriendshipID string      `json:"friendshipId"`
	User         UserSummary `json:"user"`
	Since        time.Time   `json:"since"`
}

type FriendRequest struct {
	FriendshipID string      `json:"friendshipId"`
	User         UserSummary `json:"user"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type PendingRequests struct {
	Incoming []FriendRequest `json:"incoming"`
	Outgoing []FriendRequest `json:"outgoing"`
}

// Relationship values reported by Search.
const (
	RelationNone            = "none"
	RelationFriends         = "friends"
	RelationPendingIncoming = "pending_incoming"
	RelationPendingOutgoing = "pending_outgoing"
	RelationBlocked         = "blocked"
)

type SearchResult struct {
	UserSummary
	Relationship string `json:"relationship"`
}

type FriendService interface {
	SendRequest(ctx context.Context, userID, username string) (*domain.Friendship, error)
	Accept(ctx context.Context, userID, friendshipID string) (*domain.Friendship, error)
	Decline(ctx context.Context, userID, friendshipID string) (*domain.Friendship, error)
	Block(ctx context.Context, userID, otherID string) (*domain.Friendship, error)
	Remove(ctx context.Context, userID, friendshipID string) error
	List(ctx context.Context, userID string) ([]Friend, error)
	Pending(ctx context.Context, userID string) (*PendingRequests, error)
	Search(ctx context.Context, userID, query string) ([]SearchResult, error)
}

type friendService struct {
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	privacyRepo    repository.PrivacyRepository
	now            func() time.Time
}

func NewFriendService(userRepo repository.UserRepository, friendshipRepo repository.FriendshipRepository, privacyRepo repository.PrivacyRepository) FriendService {
	return &friendService{
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		privacyRepo:    privacyRepo,
		now:            time.Now,
	}
}

func (s *friendService) SendRequest(ctx context.Context, userID, username string) (*domain.Friendship, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, invalid("username", "is required")
	}
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if target.ID == userID {
		return nil, invalid("username", "cannot send a friend request to yourself")
	}

	now := s.now().UTC()
	existing, err := s.friendshipRepo.GetByPair(ctx, userID, target.ID)
	switch {
	case err == nil:
		if existing.Status != domain.FriendshipDeclined {
			return nil, ErrFriendshipExists
		}
		// a declined request may be asked again, by either side
		existing.RequesterID = userID
		existing.AddresseeID = target.ID
		existing.Status = domain.FriendshipPending
		existing.CreatedAt = now
		existing.RespondedAt = nil
		if err := s.friendshipRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	f := &domain.Friendship{
		ID:          uuid.NewString(),
		RequesterID: userID,
		AddresseeID: target.ID,
		PairKey:     domain.PairKey(userID, target.ID),
		Status:      domain.FriendshipPending,
		CreatedAt:   now,
	}
	if err := s.friendshipRepo.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrFriendshipExists
		}
		return nil, err
	}
	return f, nil
}

// incoming loads a pending request addressed to userID.
func (s *friendService) incoming(ctx context.Context, userID, friendshipID string) (*domain.Friendship, error) {
	f, err := s.friendshipRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, notFound(err, ErrFriendshipNotFound)
	}
	if f.AddresseeID != userID {
		return nil, ErrFriendshipNotFound
	}
	if f.Status != domain.FriendshipPending {
		return nil, fmt.Errorf("%w: request is %s", ErrConflict, strings.ToLower(string(f.Status)))
	}
	return f, nil
}

func (s *friendService) respond(ctx context.Context, userID, friendshipID string, status domain.FriendshipStatus) (*domain.Friendship, error) {
	f, err := s.incoming(ctx, userID, friendshipID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	f.Status = status
	f.RespondedAt = &now
	if err := s.friendshipRepo.Update(ctx, f); err != nil {
		return nil, notFound(err, ErrFriendshipNotFound)
	}
	return f, nil
}

// Accept also makes sure both users have privacy settings.
func (s *friendService) Accept(ctx context.Context, userID, friendshipID string) (*domain.Friendship, error) {
	f, err := s.respond(ctx, userID, friendshipID, domain.FriendshipAccepted)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{f.RequesterID, f.AddresseeID} {
		if _, err := s.privacyRepo.EnsureDefault(ctx, id); err != nil {
			log.Errorf("create privacy settings for %s: %s", id, err)
		}
	}
	return f, nil
}

func (s *friendService) Decline(ctx context.Context, userID, friendshipID string) (*domain.Friendship, error) {
	return s.respond(ctx, userID, friendshipID, domain.FriendshipDeclined)
}

// Block records userID as the blocker, replacing any earlier state of the pair.
func (s *friendService) Block(ctx context.Context, userID, otherID string) (*domain.Friendship, error) {
	if otherID == userID {
		return nil, invalid("userId", "cannot block yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	now := s.now().UTC()
	f, err := s.friendshipRepo.GetByPair(ctx, userID, otherID)
	if err == nil {
		f.RequesterID = userID
		f.AddresseeID = otherID
		f.Status = domain.FriendshipBlocked
		f.RespondedAt = &now
		if err := s.friendshipRepo.Update(ctx, f); err != nil {
			return nil, err
		}
		return f, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	f = &domain.Friendship{
		ID:          uuid.NewString(),
		RequesterID: userID,
		AddresseeID: otherID,
		PairKey:     domain.PairKey(userID, otherID),
		Status:      domain.FriendshipBlocked,
		CreatedAt:   now,
		RespondedAt: &now,
	}
	if err := s.friendshipRepo.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrFriendshipExists
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes the pair row. Only the blocker can lift a block.
func (s *friendService) Remove(ctx context.Context, userID, friendshipID string) error {
	f, err := s.friendshipRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return notFound(err, ErrFriendshipNotFound)
	}
	if !f.Involves(userID) {
		return ErrFriendshipNotFound
	}
	if f.Status == domain.FriendshipBlocked && f.RequesterID != userID {
		return ErrFriendshipNotFound
	}
	return notFound(s.friendshipRepo.Delete(ctx, friendshipID), ErrFriendshipNotFound)
}

func (s *friendService) usersByID(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

func (s *friendService) List(ctx context.Context, userID string) ([]Friend, error) {
	edges, err := s.friendshipRepo.ListByUser(ctx, userID, domain.FriendshipAccepted)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for i := range edges {
		ids = append(ids, edges[i].Other(userID))
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	friends := make([]Friend, 0, len(edges))
	for i := range edges {
		u, ok := users[edges[i].Other(userID)]
		if !ok {
			continue
		}
		since := edges[i].CreatedAt
		if edges[i].RespondedAt != nil {
			since = *edges[i].RespondedAt
		}
		friends = append(friends, Friend{FriendshipID: edges[i].ID, User: summarize(u), Since: since})
	}
	return friends, nil
}

func (s *friendService) Pending(ctx context.Context, userID string) (*PendingRequests, error) {
	edges, err := s.friendshipRepo.ListByUser(ctx, userID, domain.FriendshipPending)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for i := range edges {
		ids = append(ids, edges[i].Other(userID))
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	pending := &PendingRequests{Incoming: []FriendRequest{}, Outgoing: []FriendRequest{}}
	for i := range edges {
		u, ok := users[edges[i].Other(userID)]
		if !ok {
			continue
		}
		req := FriendRequest{FriendshipID: edges[i].ID, User: summarize(u), CreatedAt: edges[i].CreatedAt}
		if edges[i].AddresseeID == userID {
			pending.Incoming = append(pending.Incoming, req)
		} else {
			pending.Outgoing = append(pending.Outgoing, req)
		}
	}
	return pending, nil
}

// Search finds users by username prefix. Users who blocked the searcher are
// left out.
func (s *friendService) Search(ctx context.Context, userID, query string) ([]SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return nil, invalid("q", "must be at least 2 characters")
	}
	users, err := s.userRepo.SearchByUsername(ctx, query, searchLimit+1)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(users))
	for i := range users {
		if users[i].ID == userID {
			continue
		}
		relation, hidden, err := s.relationship(ctx, userID, users[i].ID)
		if err != nil {
			return nil, err
		}
		if hidden {
			continue
		}
		results = append(results, SearchResult{UserSummary: summarize(&users[i]), Relationship: relation})
		if len(results) == searchLimit {
			break
		}
	}
	return results, nil
}

func (s *friendService) relationship(ctx context.Context, userID, otherID string) (relation string, hidden bool, err error) {
	f, err := s.friendshipRepo.GetByPair(ctx, userID, otherID)
	if errors.Is(err, repository.ErrNotFound) {
		return RelationNone, false, nil
	}
	if err != nil {
		return "", false, err
	}
	switch f.Status {
	case domain.FriendshipAccepted:
		return RelationFriends, false, nil
	case domain.FriendshipPending:
		if f.AddresseeID == userID {
			return RelationPendingIncoming, false, nil
		}
		return RelationPendingOutgoing, false, nil
	case domain.FriendshipBlocked:
		return RelationBlocked, f.RequesterID != userID, nil
	case domain.FriendshipDeclined:
		return RelationNone, false, nil
	default:
		return RelationNone, false, nil
	}
}

// acceptedFriendIDs lists the ids on the other side of every accepted edge.
func acceptedFriendIDs(ctx context.Context, repo repository.FriendshipRepository, userID string) ([]string, error) {
	edges, err := repo.ListByUser(ctx, userID, domain.FriendshipAccepted)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for i := range edges {
		ids = append(ids, edges[i].Other(userID))
	}
	return ids, nil
}
