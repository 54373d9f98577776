package dashboard

import (
	"context"
	"slices"
	"sync"

	"faros-cli/internal/api"
	"faros-cli/internal/model"
)

// ShareService is the slice of the request client a share panel needs.
type ShareService interface {
	ListShares(ctx context.Context, taskID string) ([]model.Share, error)
	GrantShare(ctx context.Context, taskID string, grant api.ShareGrant) (model.Share, error)
	UpdateShare(ctx context.Context, taskID, username string, permission model.SharePermission) (model.Share, error)
	RevokeShare(ctx context.Context, taskID, username string) error
}

// SharePanel owns the share list for one task while its panel is open.
// Share records are keyed by collaborator username throughout.
type SharePanel struct {
	svc    ShareService
	taskID string

	mu     sync.Mutex
	shares []model.Share
}

func NewSharePanel(svc ShareService, taskID string) *SharePanel {
	return &SharePanel{svc: svc, taskID: taskID}
}

func (p *SharePanel) TaskID() string { return p.taskID }

func (p *SharePanel) Load(ctx context.Context) error {
	shares, err := p.svc.ListShares(ctx, p.taskID)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.shares = shares
	p.mu.Unlock()
	return nil
}

func (p *SharePanel) Shares() []model.Share {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.shares)
}

// Grant shares the task with a collaborator. A user already holding a share
// is rejected client-side before any network call. The grant itself is not
// optimistic: permission and id are server-assigned, so the record is
// appended only after success.
func (p *SharePanel) Grant(ctx context.Context, username string, permission model.SharePermission) (model.Share, error) {
	p.mu.Lock()
	for _, s := range p.shares {
		if s.SharedWithUsername == username {
			p.mu.Unlock()
			return model.Share{}, AlreadySharedError{Username: username}
		}
	}
	p.mu.Unlock()

	created, err := p.svc.GrantShare(ctx, p.taskID, api.ShareGrant{
		SharedWithUsername: username,
		Permission:         permission,
	})
	if err != nil {
		return model.Share{}, err
	}
	p.mu.Lock()
	p.shares = append(p.shares, created)
	p.mu.Unlock()
	return created, nil
}

// Update changes a collaborator's permission, applying the server record to
// the local list by username key after success.
func (p *SharePanel) Update(ctx context.Context, username string, permission model.SharePermission) error {
	updated, err := p.svc.UpdateShare(ctx, p.taskID, username, permission)
	if err != nil {
		return err
	}
	p.mu.Lock()
	for i := range p.shares {
		if p.shares[i].SharedWithUsername == username {
			p.shares[i] = updated
			break
		}
	}
	p.mu.Unlock()
	return nil
}

// Revoke removes exactly the record for the given username after the server
// confirms, leaving all others untouched. Failures only surface the error.
func (p *SharePanel) Revoke(ctx context.Context, username string) error {
	if err := p.svc.RevokeShare(ctx, p.taskID, username); err != nil {
		return err
	}
	p.mu.Lock()
	kept := p.shares[:0:0]
	for _, s := range p.shares {
		if s.SharedWithUsername == username {
			continue
		}
		kept = append(kept, s)
	}
	p.shares = kept
	p.mu.Unlock()
	return nil
}
