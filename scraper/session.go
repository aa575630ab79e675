package scraper

import (
	"context"

	"github.com/use-agent/kqxs/browser"
	"github.com/use-agent/kqxs/models"
)

// managerSessions adapts browser.Manager to Sessions.
type managerSessions struct {
	m *browser.Manager
}

func (s managerSessions) Acquire(ctx context.Context) (Lease, error) {
	l, err := s.m.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return managerLease{l: l}, nil
}

func (s managerSessions) Stats() models.SessionStats {
	return s.m.Stats()
}

type managerLease struct {
	l *browser.Lease
}

func (l managerLease) OpenTab(ctx context.Context) (Tab, error) {
	t, err := l.l.OpenTab(ctx)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (l managerLease) Release() {
	l.l.Release()
}
