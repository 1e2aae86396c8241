// Package service orchestrates dispatch sessions: it accepts trigger
// requests, runs each session in the background, persists outcomes, and fans
// lifecycle events out to feed subscribers.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/sereenat7/DISHA-sub001/internal/config"
	"github.com/sereenat7/DISHA-sub001/internal/dispatch"
	"github.com/sereenat7/DISHA-sub001/internal/feed"
	"github.com/sereenat7/DISHA-sub001/internal/policy"
	"github.com/sereenat7/DISHA-sub001/internal/provider"
	"github.com/sereenat7/DISHA-sub001/internal/roster"
	"github.com/sereenat7/DISHA-sub001/internal/store"
)

// Sentinel errors the transport layer maps to HTTP status codes.
var (
	ErrPolicyBlocked         = errors.New("dispatch blocked by policy")
	ErrProviderNotConfigured = errors.New("notification provider is not configured")
	ErrSessionNotFound       = errors.New("session not found")
)

// activeDispatch tracks an in-flight session: its cancel function and the
// resolved plan, which status bookkeeping needs to spot the final round.
type activeDispatch struct {
	cancel context.CancelFunc
	plan   *dispatch.Plan
}

type Service struct {
	store        store.Store
	notifier     provider.Notifier
	hub          *feed.Hub
	policyEngine *policy.Engine
	defaults     *roster.Roster
	config       *config.Config

	mu     sync.Mutex
	active map[string]*activeDispatch
}

func New(store store.Store, notifier provider.Notifier, hub *feed.Hub, policyEngine *policy.Engine, defaults *roster.Roster, cfg *config.Config) *Service {
	return &Service{
		store:        store,
		notifier:     notifier,
		hub:          hub,
		policyEngine: policyEngine,
		defaults:     defaults,
		config:       cfg,
		active:       make(map[string]*activeDispatch),
	}
}
