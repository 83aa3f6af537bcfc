// internal/app/system/contentsync/service.go
//
// Package contentsync keeps an in-memory copy of every content section
// current with the content store and is the only write path for content.
//
// Each section has its own subscription goroutine which is the sole writer
// of that section's slot. Writes go to the store and come back through the
// subscription; nothing is applied to memory optimistically.
package contentsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	contentstore "github.com/advocatechambers/lawsite/internal/app/store/content"
	"github.com/advocatechambers/lawsite/internal/app/system/seeding"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrUnknownSection is returned for a section name outside the schema.
	ErrUnknownSection = errors.New("unknown content section")
	// ErrNotLoaded is returned when writing a section that has no observed value yet.
	ErrNotLoaded = errors.New("content section not loaded")
	// ErrStarted is returned by a second call to Start.
	ErrStarted = errors.New("content sync already started")
)

// Change describes one applied section update.
type Change struct {
	Section models.Section `json:"section"`
	Version uint64         `json:"version"`
	At      time.Time      `json:"at"`
}

// listenerBuffer is how many undelivered changes a listener may hold
// before further changes are dropped for it.
const listenerBuffer = 8

type slot struct {
	mu      sync.RWMutex
	value   any
	version uint64
	loaded  bool

	reported atomic.Bool
}

// Service is the content synchronization service.
type Service struct {
	feed   contentstore.Feed
	logger *zap.Logger

	slots   map[models.Section]*slot
	pending atomic.Int32
	ready   chan struct{}

	mu        sync.Mutex
	started   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	listeners map[chan Change]struct{}
}

// New creates a service over feed. Call Start to open the subscriptions.
func New(feed contentstore.Feed, logger *zap.Logger) *Service {
	s := &Service{
		feed:      feed,
		logger:    logger,
		slots:     make(map[models.Section]*slot, len(models.AllSections())),
		ready:     make(chan struct{}),
		listeners: make(map[chan Change]struct{}),
	}
	for _, sec := range models.AllSections() {
		s.slots[sec] = &slot{}
	}
	s.pending.Store(int32(len(s.slots)))
	return s
}

// Start opens one subscription per section. It returns once every
// subscription is open or has failed; readiness is reported separately.
// The subscriptions outlive ctx and end on Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrStarted
	}
	s.started = true
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.mu.Unlock()

	for _, sec := range models.AllSections() {
		ch, err := s.feed.Watch(runCtx, sec.Key())
		if err != nil {
			s.logger.Error("content subscription failed",
				zap.String("section", sec.String()),
				zap.Error(err))
			s.markReported(sec)
			continue
		}
		s.wg.Add(1)
		go s.watch(runCtx, sec, ch)
	}
	return nil
}

// Stop cancels every subscription and waits for the goroutines to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Service) watch(ctx context.Context, sec models.Section, ch <-chan contentstore.Snapshot) {
	defer s.wg.Done()
	log := s.logger.With(zap.String("section", sec.String()))

	for snap := range ch {
		if snap.Err != nil {
			log.Error("content subscription ended", zap.Error(snap.Err))
			s.markReported(sec)
			continue
		}
		if !snap.Exists {
			// The seeded record arrives through this same subscription.
			if _, err := seeding.EnsureSeeded(ctx, s.feed, sec, log); err != nil {
				if ctx.Err() == nil {
					log.Error("content seed failed", zap.Error(err))
				}
				s.markReported(sec)
			}
			continue
		}

		value := models.DefaultSection(sec)
		if err := snap.Decode(value); err != nil {
			log.Error("content decode failed", zap.Error(err))
			s.markReported(sec)
			continue
		}
		s.apply(sec, value)
	}
}

func (s *Service) apply(sec models.Section, value any) {
	sl := s.slots[sec]
	sl.mu.Lock()
	sl.value = value
	sl.loaded = true
	sl.version++
	version := sl.version
	sl.mu.Unlock()

	s.markReported(sec)
	s.broadcast(Change{Section: sec, Version: version, At: time.Now().UTC()})
}

// markReported counts a section toward readiness once.
func (s *Service) markReported(sec models.Section) {
	sl := s.slots[sec]
	if !sl.reported.CompareAndSwap(false, true) {
		return
	}
	if s.pending.Add(-1) == 0 {
		close(s.ready)
	}
}

// Ready is closed once every section has a value or has failed to load.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// IsReady reports whether Ready is closed.
func (s *Service) IsReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the service is ready or ctx is done.
func (s *Service) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Section returns the current value of one section. The value is shared
// and must not be modified.
func (s *Service) Section(sec models.Section) (any, bool) {
	sl, ok := s.slots[sec]
	if !ok {
		return nil, false
	}
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	if sl.value == nil {
		return nil, false
	}
	return sl.value, true
}

// Version returns how many values the section has observed.
func (s *Service) Version(sec models.Section) uint64 {
	sl, ok := s.slots[sec]
	if !ok {
		return 0
	}
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.version
}

// Get returns a section value with its concrete type.
//
//	hero, ok := contentsync.Get[models.HeroContent](svc, models.SectionHero)
func Get[T any](s *Service, sec models.Section) (*T, bool) {
	v, ok := s.Section(sec)
	if !ok {
		return nil, false
	}
	t, ok := v.(*T)
	return t, ok
}

// Snapshot returns the current aggregate. Sections not yet observed are nil.
func (s *Service) Snapshot() models.SiteContent {
	var out models.SiteContent
	for _, sec := range models.AllSections() {
		if v, ok := s.Section(sec); ok {
			_ = out.Set(sec, v)
		}
	}
	return out
}

// credentialFields are the settings keys only the settings endpoint and
// SetAdmin may change.
var credentialFields = []string{"adminEmail", "adminPassword"}

// Update merges patch over the current value of sec and writes the whole
// section. Each key replaces the top-level field of the same JSON name.
// The in-memory value changes only when the write is observed back.
func (s *Service) Update(ctx context.Context, sec models.Section, patch map[string]json.RawMessage) error {
	if !sec.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSection, string(sec))
	}
	if sec == models.SectionSettings {
		for _, field := range credentialFields {
			if _, ok := patch[field]; ok {
				return &ValidationError{Section: sec, Field: field, Message: "cannot be set through a content update"}
			}
		}
	}
	next, err := s.Merge(sec, patch)
	if err != nil {
		return err
	}
	return s.write(ctx, sec, next)
}

// Merge returns a copy of the current value of sec with patch applied,
// without writing it. Callers that need to set fields Update refuses
// finish the value and pass it to Replace.
func (s *Service) Merge(sec models.Section, patch map[string]json.RawMessage) (any, error) {
	if !sec.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, string(sec))
	}
	current, ok := s.Section(sec)
	if !ok {
		return nil, fmt.Errorf("update %s: %w", sec, ErrNotLoaded)
	}
	next := shallowCopy(current)
	if err := applyPatch(sec, next, patch); err != nil {
		return nil, err
	}
	return next, nil
}

// Replace validates and writes a whole section value. value must be the
// pointer type models.NewSectionValue returns for sec.
func (s *Service) Replace(ctx context.Context, sec models.Section, value any) error {
	if !sec.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSection, string(sec))
	}
	var probe models.SiteContent
	if err := probe.Set(sec, value); err != nil {
		return err
	}
	if !s.isLoaded(sec) {
		return fmt.Errorf("replace %s: %w", sec, ErrNotLoaded)
	}
	return s.write(ctx, sec, value)
}

func (s *Service) isLoaded(sec models.Section) bool {
	sl := s.slots[sec]
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.loaded
}

func (s *Service) write(ctx context.Context, sec models.Section, value any) error {
	if err := Validate(sec, value); err != nil {
		return err
	}
	if err := s.feed.Put(ctx, sec.Key(), value); err != nil {
		s.logger.Error("content write failed",
			zap.String("section", sec.String()),
			zap.Error(err))
		return fmt.Errorf("write %s: %w", sec, err)
	}
	return nil
}

// ResetToDefaults writes the default value of every section. Sections are
// written independently; failures are joined and the rest still proceed.
// The admin credentials in settings are carried over so the reset cannot
// lock the operator out.
func (s *Service) ResetToDefaults(ctx context.Context) error {
	var errs []error
	for _, sec := range models.AllSections() {
		value := models.DefaultSection(sec)
		if sec == models.SectionSettings {
			if cur, ok := Get[models.SettingsContent](s, sec); ok {
				def := value.(*models.SettingsContent)
				def.AdminEmail = cur.AdminEmail
				def.AdminPassword = cur.AdminPassword
			}
		}
		if err := s.feed.Put(ctx, sec.Key(), value); err != nil {
			s.logger.Error("content reset failed",
				zap.String("section", sec.String()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("reset %s: %w", sec, err))
		}
	}
	return errors.Join(errs...)
}

// Await blocks until sec has been observed past version or ctx is done.
// Writers use it to answer with the value they just stored.
func (s *Service) Await(ctx context.Context, sec models.Section, version uint64) error {
	if _, ok := s.slots[sec]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, string(sec))
	}
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()
	for s.Version(sec) <= version {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a listener for applied changes. Call the returned
// func to unsubscribe; it closes the channel. A listener that falls behind
// misses changes rather than blocking the subscriptions.
func (s *Service) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, listenerBuffer)
	s.mu.Lock()
	s.listeners[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Service) broadcast(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.listeners {
		select {
		case ch <- c:
		default:
		}
	}
}

// SetAdmin writes the admin credentials into settings. passwordHash must
// already be a bcrypt hash; an empty hash keeps the stored one.
func (s *Service) SetAdmin(ctx context.Context, email, passwordHash string) error {
	cur, ok := Get[models.SettingsContent](s, models.SectionSettings)
	if !ok {
		return fmt.Errorf("set admin: %w", ErrNotLoaded)
	}
	next := *cur
	next.AdminEmail = email
	if passwordHash != "" {
		next.AdminPassword = passwordHash
	}
	return s.Replace(ctx, models.SectionSettings, &next)
}
