package domain

import (
	"time"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipDeclined FriendshipStatus = "DECLINED"
	FriendshipBlocked  FriendshipStatus = "BLOCKED"
)

func (s FriendshipStatus) IsValid() bool {
	switch s {
	case FriendshipPending, FriendshipAccepted, FriendshipDeclined, FriendshipBlocked:
		return true
	default:
		return false
	}
}

// Friendship is a directed request row. Once accepted it is treated as
// undirected. PairKey holds the sorted ids so one row exists per pair.
type Friendship struct {
	ID          string           `bson:"_id" json:"id"`
	RequesterID string           `bson:"requesterId" json:"requesterId"`
	AddresseeID string           `bson:"addresseeId" json:"addresseeId"`
	PairKey     string           `bson:"pairKey" json:"-"`
	Status      FriendshipStatus `bson:"status" json:"status"`
	CreatedAt   time.Time        `bson:"createdAt" json:"createdAt"`
	RespondedAt *time.Time       `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
}

// PairKey builds the order-independent key of two user ids.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Other returns the id on the other side of the edge from userID.
func (f *Friendship) Other(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Involves reports whether userID is on either side of the edge.
func (f *Friendship) Involves(userID string) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}
