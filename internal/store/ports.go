package store

import (
	"context"
	"errors"

	"tabungan/internal/core"
)

// ErrNotFound is returned by finders when no row matches. It is an expected
// outcome, distinct from a failing query.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters.
type (
	GroupFinder interface {
		// FindGroupByName returns the first group with exactly this name.
		FindGroupByName(ctx context.Context, name string) (core.Group, error)
		// FindEarliestGroup returns the group created first.
		FindEarliestGroup(ctx context.Context) (core.Group, error)
	}

	// MemberLister returns the members of a group by creation order ascending.
	MemberLister interface {
		ListMembers(ctx context.Context, groupID string) ([]core.Member, error)
	}

	// EntryLister returns the entries of a group by transaction date descending.
	EntryLister interface {
		ListEntries(ctx context.Context, groupID string) ([]core.Entry, error)
	}

	// Reader is everything the dashboard needs from a backend.
	Reader interface {
		GroupFinder
		MemberLister
		EntryLister
	}
)
