package auth

import (
	"context"
	"sort"
	"time"
)

// SnapshotBuilder produces the denormalized permission snapshot embedded in a
// token at login and refresh. It is read-only; the repository query joins
// readable board-access rows against active boards.
type SnapshotBuilder struct {
	repo RepositoryAPI
}

func NewSnapshotBuilder(repo RepositoryAPI) *SnapshotBuilder {
	return &SnapshotBuilder{repo: repo}
}

// Build queries the live matrix for the user's role and returns a snapshot
// sorted by board name ascending so clients render it deterministically.
func (b *SnapshotBuilder) Build(ctx context.Context, user *User) (PermissionSnapshot, error) {
	grants, err := b.repo.ReadableBoardGrants(ctx, user.RoleID)
	if err != nil {
		return PermissionSnapshot{}, err
	}

	sort.Slice(grants, func(i, j int) bool {
		return grants[i].BoardName < grants[j].BoardName
	})

	return PermissionSnapshot{
		RoleID:   user.RoleID,
		Boards:   grants,
		IssuedAt: time.Now(),
	}, nil
}
