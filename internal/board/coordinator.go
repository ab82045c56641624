package board

import (
	"io"
	"sync"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/store"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Options configures a Coordinator. Zero values fall back to production defaults
// (simulated 500ms backend, wall clock, random UUIDs, discarded logs).
type Options struct {
	Backend Backend
	Logger  *log.Logger
	Now     func() time.Time
	NewID   func() string
}

// Coordinator owns the task table and loading flags and runs every mutation
// through the optimistic begin/acknowledge/commit-or-rollback protocol.
//
// State is only mutated while mu is held; the backend call happens outside it.
type Coordinator struct {
	mu      sync.Mutex
	tasks   *store.Tasks
	loading loadingTracker
	actor   *model.UserProfile

	backend Backend
	log     *log.Logger
	now     func() time.Time
	newID   func() string

	subsMu  sync.Mutex
	subs    []subscriber
	nextSub int
}

// New rehydrates a coordinator from a persisted state tree (nil means empty).
func New(st *store.State, opts Options) *Coordinator {
	c := &Coordinator{
		tasks:   store.NewTasks(nil),
		loading: newLoadingTracker(),
		backend: opts.Backend,
		log:     opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if c.backend == nil {
		c.backend = SimulatedBackend{Delay: DefaultDelay}
	}
	if c.log == nil {
		c.log = log.New()
		c.log.SetOutput(io.Discard)
	}
	if c.now == nil {
		c.now = func() time.Time { return time.Now().UTC() }
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if st != nil {
		c.tasks = store.NewTasks(st.Tasks)
		c.actor = cloneProfile(st.User)
	}
	return c
}

// SetActor switches the signed-in user. nil signs out.
func (c *Coordinator) SetActor(u *model.UserProfile) {
	c.mu.Lock()
	c.actor = cloneProfile(u)
	id := ""
	if u != nil {
		id = u.ID
	}
	c.mu.Unlock()

	c.log.WithField("actor", id).Debug("actor changed")
	c.emit(Event{Type: EventChanged, ActorID: id})
}

// Actor returns a copy of the signed-in user, or nil.
func (c *Coordinator) Actor() *model.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneProfile(c.actor)
}

// Tasks returns every task in store order.
func (c *Coordinator) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tasks.All()
}

func (c *Coordinator) Task(id string) (model.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tasks.Find(id)
}

// Loading reports whether a mutation of kind is in flight. id is ignored for LoadingCreate.
func (c *Coordinator) Loading(kind LoadingKind, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading.get(kind, id)
}

// Busy reports whether any update, move or delete is in flight for id.
func (c *Coordinator) Busy(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading.busy(id)
}

func (c *Coordinator) LoadingState() model.LoadingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading.snapshot()
}

// Snapshot returns the persistable state tree.
func (c *Coordinator) Snapshot() *store.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &store.State{
		Version: store.Version,
		Tasks:   c.tasks.All(),
		User:    cloneProfile(c.actor),
	}
}

func cloneProfile(u *model.UserProfile) *model.UserProfile {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Permissions = append([]string{}, u.Permissions...)
	return &cp
}
