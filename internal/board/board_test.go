package board

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/mutate"
	"taskboard/internal/store"
)

var (
	u1    = &model.UserProfile{ID: "u1", Email: "u1@example.com", Role: model.RoleEmployee}
	u2    = &model.UserProfile{ID: "u2", Email: "u2@example.com", Role: model.RoleEmployee}
	admin = &model.UserProfile{ID: "a1", Email: "admin@example.com", Role: model.RoleAdmin}
)

var t0 = time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC)

// ticker returns a clock advancing one minute per call.
func ticker() func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return t0.Add(time.Duration(n) * time.Minute)
	}
}

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func seeded() *store.State {
	return &store.State{
		Version: store.Version,
		Tasks: []model.Task{
			{ID: "t-1", Title: "Write report", Priority: model.PriorityMedium, State: model.StateTodo, OwnerID: "u1", AssignedUsers: []string{"u3"}, CreatedAt: t0, UpdatedAt: t0},
			{ID: "t-2", Title: "Review budget", Priority: model.PriorityHigh, State: model.StateDoing, OwnerID: "u2", AssignedUsers: []string{}, CreatedAt: t0, UpdatedAt: t0},
		},
	}
}

func newBoard(st *store.State, b Backend, actor *model.UserProfile) *Coordinator {
	c := New(st, Options{Backend: b, Now: ticker(), NewID: seqIDs()})
	if actor != nil {
		c.SetActor(actor)
	}
	return c
}

// gate holds acknowledgements for the selected kinds until released.
type gate struct {
	kinds   map[OpKind]bool
	entered chan Op
	release chan struct{}
	err     error
}

func newGate(kinds ...OpKind) *gate {
	g := &gate{kinds: map[OpKind]bool{}, entered: make(chan Op, 8), release: make(chan struct{})}
	for _, k := range kinds {
		g.kinds[k] = true
	}
	return g
}

func (g *gate) Acknowledge(_ context.Context, op Op) error {
	if !g.kinds[op.Kind] {
		return nil
	}
	g.entered <- op
	<-g.release
	return g.err
}

// requireUnchanged fails unless the board still holds exactly before.
func requireUnchanged(t *testing.T, c *Coordinator, before []model.Task) {
	t.Helper()
	if after := c.Tasks(); !reflect.DeepEqual(before, after) {
		t.Fatalf("expected store unchanged:\nbefore %+v\nafter  %+v", before, after)
	}
}

type recorder struct {
	mu  sync.Mutex
	evs []Event
}

func record(c *Coordinator) *recorder {
	r := &recorder{}
	c.Subscribe(func(ev Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.evs = append(r.evs, ev)
	})
	return r
}

func (r *recorder) of(typ EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.evs {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestCreate_StoresOnlyAfterAcknowledge(t *testing.T) {
	g := newGate(OpCreate)
	c := newBoard(nil, g, u1)
	rec := record(c)

	p, err := c.BeginCreate(model.Draft{Title: "Write plan", Priority: model.PriorityMedium, State: model.StateTodo})
	if err != nil {
		t.Fatalf("begin create: %v", err)
	}
	if !c.Loading(LoadingCreate, "") {
		t.Fatalf("expected create loading while in flight")
	}
	if p.Phase() != PhaseLoading {
		t.Fatalf("expected loading phase; got %s", p.Phase())
	}
	if len(c.Tasks()) != 0 {
		t.Fatalf("expected nothing stored before acknowledge")
	}

	done := make(chan Result, 1)
	go func() {
		res, err := p.Wait(context.Background())
		if err != nil {
			t.Errorf("wait: %v", err)
		}
		done <- res
	}()
	<-g.entered
	close(g.release)
	res := <-done

	if res.Task.ID != "t1" || res.Task.OwnerID != "u1" || !res.Changed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Task.AssignedUsers == nil || len(res.Task.AssignedUsers) != 0 {
		t.Fatalf("expected empty assignees; got %#v", res.Task.AssignedUsers)
	}
	if !res.Task.CreatedAt.Equal(res.Task.UpdatedAt) {
		t.Fatalf("expected createdAt == updatedAt on create")
	}
	if c.Loading(LoadingCreate, "") {
		t.Fatalf("expected create loading cleared")
	}
	if p.Phase() != PhaseCommitted {
		t.Fatalf("expected committed; got %s", p.Phase())
	}
	ok := rec.of(EventSuccess)
	if len(ok) != 1 || ok[0].Message != "Task created successfully" {
		t.Fatalf("expected one success toast; got %+v", ok)
	}
}

func TestCreate_Rejections(t *testing.T) {
	c := newBoard(nil, Immediate(), nil)
	rec := record(c)

	if _, err := c.CreateTask(context.Background(), model.Draft{Title: "Write plan", Priority: model.PriorityLow, State: model.StateTodo}); !errors.Is(err, mutate.ErrAuthorizationRequired) {
		t.Fatalf("expected ErrAuthorizationRequired; got %v", err)
	}

	c.SetActor(u1)
	_, err := c.CreateTask(context.Background(), model.Draft{Title: "ab", Priority: model.PriorityLow, State: model.StateTodo})
	var ve model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "title" {
		t.Fatalf("expected title ValidationError; got %v", err)
	}
	if len(c.Tasks()) != 0 || c.Loading(LoadingCreate, "") {
		t.Fatalf("expected no state change on rejection")
	}
	if got := len(rec.of(EventFailure)); got != 2 {
		t.Fatalf("expected 2 failure events; got %d", got)
	}
	if got := len(rec.of(EventLoading)); got != 0 {
		t.Fatalf("expected no loading events; got %d", got)
	}
}

func TestCreate_SecondCreateIsBusy(t *testing.T) {
	g := newGate(OpCreate)
	c := newBoard(nil, g, u1)
	d := model.Draft{Title: "Write plan", Priority: model.PriorityLow, State: model.StateTodo}

	p, err := c.BeginCreate(d)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := c.BeginCreate(d); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy; got %v", err)
	}
	close(g.release)
	if _, err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if len(c.Tasks()) != 1 {
		t.Fatalf("expected exactly one task; got %d", len(c.Tasks()))
	}
}

func TestUpdate_OwnerEditsAndOthersAreDenied(t *testing.T) {
	c := newBoard(seeded(), Immediate(), u2)
	title := "Rewritten"
	before := c.Tasks()

	_, err := c.UpdateTask(context.Background(), "t-1", model.Patch{Title: &title})
	var pd mutate.PermissionDeniedError
	if !errors.As(err, &pd) || pd.ActorID != "u2" || pd.TaskID != "t-1" {
		t.Fatalf("expected PermissionDeniedError; got %v", err)
	}
	requireUnchanged(t, c, before)

	c.SetActor(u1)
	res, err := c.UpdateTask(context.Background(), "t-1", model.Patch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Task.Title != title || !res.Task.UpdatedAt.After(t0) || res.Task.OwnerID != "u1" || !res.Task.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected update result: %+v", res.Task)
	}
	if c.Loading(LoadingUpdate, "t-1") {
		t.Fatalf("expected update flag cleared")
	}
}

func TestUpdate_AssigneeCannotEdit(t *testing.T) {
	c := newBoard(seeded(), Immediate(), &model.UserProfile{ID: "u3"})
	before := c.Tasks()
	desc := "x"
	var pd mutate.PermissionDeniedError
	if _, err := c.UpdateTask(context.Background(), "t-1", model.Patch{Description: &desc}); !errors.As(err, &pd) {
		t.Fatalf("expected assignee edit to be denied; got %v", err)
	}
	requireUnchanged(t, c, before)
}

func TestUpdate_NotFound(t *testing.T) {
	c := newBoard(seeded(), Immediate(), admin)
	title := "Nope"
	_, err := c.UpdateTask(context.Background(), "missing", model.Patch{Title: &title})
	var nf mutate.NotFoundError
	if !errors.As(err, &nf) || nf.ID != "missing" {
		t.Fatalf("expected NotFoundError; got %v", err)
	}
}

func TestUpdate_FailureLeavesTaskUntouched(t *testing.T) {
	c := newBoard(seeded(), SimulatedBackend{Fail: FailKinds(OpUpdate)}, u1)
	rec := record(c)
	title := "Rewritten"

	_, err := c.UpdateTask(context.Background(), "t-1", model.Patch{Title: &title})
	var of OperationFailedError
	if !errors.As(err, &of) || of.Op != OpUpdate {
		t.Fatalf("expected OperationFailedError; got %v", err)
	}
	if got, _ := c.Task("t-1"); got.Title != "Write report" || !got.UpdatedAt.Equal(t0) {
		t.Fatalf("expected task untouched; got %+v", got)
	}
	if c.Loading(LoadingUpdate, "t-1") {
		t.Fatalf("expected update flag cleared after failure")
	}
	fails := rec.of(EventFailure)
	if len(fails) != 1 || fails[0].Message != "Operation failed. Please try again." {
		t.Fatalf("unexpected failure events: %+v", fails)
	}
}

func TestUpdate_UnchangedPatchSettlesImmediately(t *testing.T) {
	c := newBoard(seeded(), BackendFunc(func(context.Context, Op) error {
		t.Fatalf("backend must not be called for a no-op patch")
		return nil
	}), u1)
	same := "Write report"
	p, err := c.BeginUpdate("t-1", model.Patch{Title: &same})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	res, err := p.Wait(context.Background())
	if err != nil || res.Changed {
		t.Fatalf("expected unchanged no-op; got %+v, %v", res, err)
	}
	if p.Phase() != PhaseIdle {
		t.Fatalf("expected idle phase; got %s", p.Phase())
	}
}

func TestMove_OptimisticThenCommit(t *testing.T) {
	g := newGate(OpMove)
	c := newBoard(seeded(), g, &model.UserProfile{ID: "u3"})
	rec := record(c)

	p, err := c.BeginMove("t-1", model.StateDoing)
	if err != nil {
		t.Fatalf("begin move: %v", err)
	}
	got, _ := c.Task("t-1")
	if got.State != model.StateDoing {
		t.Fatalf("expected optimistic state doing; got %s", got.State)
	}
	if !c.Loading(LoadingUpdate, "t-1") || !c.Busy("t-1") {
		t.Fatalf("expected update flag while moving")
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.Wait(context.Background())
		done <- err
	}()
	<-g.entered
	close(g.release)
	if err := <-done; err != nil {
		t.Fatalf("wait: %v", err)
	}

	got, _ = c.Task("t-1")
	if got.State != model.StateDoing || !got.UpdatedAt.After(t0) {
		t.Fatalf("unexpected committed task: %+v", got)
	}
	if c.Busy("t-1") {
		t.Fatalf("expected flags cleared")
	}
	ok := rec.of(EventSuccess)
	if len(ok) != 1 || ok[0].Message != "Task status updated" {
		t.Fatalf("unexpected success events: %+v", ok)
	}
}

func TestMove_RollbackRestoresSnapshot(t *testing.T) {
	g := newGate(OpMove)
	g.err = errors.New("boom")
	c := newBoard(seeded(), g, u1)

	p, err := c.BeginMove("t-1", model.StateDone)
	if err != nil {
		t.Fatalf("begin move: %v", err)
	}
	done := make(chan error, 1)
	go func() {
		_, err := p.Wait(context.Background())
		done <- err
	}()
	<-g.entered
	close(g.release)
	err = <-done

	var of OperationFailedError
	if !errors.As(err, &of) || of.TaskID != "t-1" {
		t.Fatalf("expected OperationFailedError; got %v", err)
	}
	got, _ := c.Task("t-1")
	if got.State != model.StateTodo || !got.UpdatedAt.Equal(t0) {
		t.Fatalf("expected rollback to todo@t0; got %s@%v", got.State, got.UpdatedAt)
	}
	if p.Phase() != PhaseRolledBack {
		t.Fatalf("expected rolled-back; got %s", p.Phase())
	}
	if c.Busy("t-1") {
		t.Fatalf("expected flags cleared after rollback")
	}
}

func TestMove_SameStateIsNoop(t *testing.T) {
	c := newBoard(seeded(), newGate(OpMove), u1)
	rec := record(c)

	res, err := c.MoveTask(context.Background(), "t-1", model.StateTodo)
	if err != nil || res.Changed {
		t.Fatalf("expected no-op; got %+v, %v", res, err)
	}
	if got := len(rec.of(EventLoading)); got != 0 {
		t.Fatalf("expected no loading events; got %d", got)
	}
}

func TestMove_StrangerDeniedAndInvalidState(t *testing.T) {
	c := newBoard(seeded(), Immediate(), u2)
	before := c.Tasks()
	var pd mutate.PermissionDeniedError
	if _, err := c.MoveTask(context.Background(), "t-1", model.StateDone); !errors.As(err, &pd) {
		t.Fatalf("expected stranger move to be denied; got %v", err)
	}
	requireUnchanged(t, c, before)
	if c.Loading(LoadingUpdate, "t-1") {
		t.Fatalf("expected no update flag after denial")
	}
	c.SetActor(u1)
	var ve model.ValidationError
	if _, err := c.MoveTask(context.Background(), "t-1", model.State("blocked")); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError; got %v", err)
	}
	if got, _ := c.Task("t-1"); got.State != model.StateTodo {
		t.Fatalf("expected state unchanged; got %s", got.State)
	}
}

func TestMove_BusyWhileUpdateInFlight(t *testing.T) {
	g := newGate(OpMove)
	c := newBoard(seeded(), g, u1)

	p, err := c.BeginMove("t-1", model.StateDoing)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	title := "Edited meanwhile"
	if _, err := c.BeginUpdate("t-1", model.Patch{Title: &title}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for update during move; got %v", err)
	}
	if _, err := c.BeginMove("t-1", model.StateDone); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for second move; got %v", err)
	}
	close(g.release)
	if _, err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestMove_TaskDeletedMidFlight(t *testing.T) {
	g := newGate(OpMove)
	c := newBoard(seeded(), g, u1)

	p, err := c.BeginMove("t-1", model.StateDoing)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := c.DeleteTask(context.Background(), "t-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	done := make(chan error, 1)
	var res Result
	go func() {
		var err error
		res, err = p.Wait(context.Background())
		done <- err
	}()
	<-g.entered
	close(g.release)
	if err := <-done; err != nil {
		t.Fatalf("expected nil error for vanished task; got %v", err)
	}
	if res.Changed {
		t.Fatalf("expected unchanged result")
	}
	if _, ok := c.Task("t-1"); ok {
		t.Fatalf("expected task to stay deleted")
	}
	ls := c.LoadingState()
	if len(ls.Update) != 0 || len(ls.Delete) != 0 {
		t.Fatalf("expected no flags left; got %+v", ls)
	}
}

func TestDelete_RemovesAndPurgesFlags(t *testing.T) {
	g := newGate(OpDelete)
	c := newBoard(seeded(), g, admin)
	rec := record(c)

	p, err := c.BeginDelete("t-2")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if !c.Loading(LoadingDelete, "t-2") {
		t.Fatalf("expected delete flag")
	}
	if _, ok := c.Task("t-2"); !ok {
		t.Fatalf("expected task still present while deleting")
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.Wait(context.Background())
		done <- err
	}()
	<-g.entered
	close(g.release)
	if err := <-done; err != nil {
		t.Fatalf("wait: %v", err)
	}

	if _, ok := c.Task("t-2"); ok {
		t.Fatalf("expected task removed")
	}
	ls := c.LoadingState()
	if _, ok := ls.Delete["t-2"]; ok {
		t.Fatalf("expected delete flag purged; got %+v", ls.Delete)
	}
	ok := rec.of(EventSuccess)
	if len(ok) != 1 || ok[0].Message != "Task deleted successfully" {
		t.Fatalf("unexpected success events: %+v", ok)
	}
}

func TestDelete_FailureKeepsTask(t *testing.T) {
	c := newBoard(seeded(), SimulatedBackend{Fail: FailKinds(OpDelete)}, u1)
	if _, err := c.DeleteTask(context.Background(), "t-1"); err == nil {
		t.Fatalf("expected failure")
	}
	if _, ok := c.Task("t-1"); !ok {
		t.Fatalf("expected task kept after failed delete")
	}
	if c.Loading(LoadingDelete, "t-1") {
		t.Fatalf("expected delete flag cleared")
	}
}

func TestDelete_AssigneeDenied(t *testing.T) {
	c := newBoard(seeded(), Immediate(), &model.UserProfile{ID: "u3"})
	before := c.Tasks()
	var pd mutate.PermissionDeniedError
	if _, err := c.DeleteTask(context.Background(), "t-1"); !errors.As(err, &pd) {
		t.Fatalf("expected PermissionDeniedError; got %v", err)
	}
	requireUnchanged(t, c, before)
	if c.Loading(LoadingDelete, "t-1") {
		t.Fatalf("expected no delete flag after denial")
	}
}

func TestDelete_PurgesUpdateFlagOfInFlightMove(t *testing.T) {
	g := newGate(OpMove)
	c := newBoard(seeded(), g, u1)

	p, err := c.BeginMove("t-1", model.StateDoing)
	if err != nil {
		t.Fatalf("begin move: %v", err)
	}
	if !c.Loading(LoadingUpdate, "t-1") {
		t.Fatalf("expected update flag while the move is in flight")
	}

	if _, err := c.DeleteTask(context.Background(), "t-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// The move has not settled yet; only the delete can have cleared its flag.
	if c.Loading(LoadingUpdate, "t-1") || c.Loading(LoadingDelete, "t-1") {
		t.Fatalf("expected both flags gone right after delete")
	}
	ls := c.LoadingState()
	if _, ok := ls.Update["t-1"]; ok {
		t.Fatalf("expected update key purged; got %+v", ls.Update)
	}
	if _, ok := ls.Delete["t-1"]; ok {
		t.Fatalf("expected delete key purged; got %+v", ls.Delete)
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.Wait(context.Background())
		done <- err
	}()
	<-g.entered
	close(g.release)
	if err := <-done; err != nil {
		t.Fatalf("move wait: %v", err)
	}
	if ls := c.LoadingState(); len(ls.Update) != 0 || len(ls.Delete) != 0 {
		t.Fatalf("expected no flags after the move settles; got %+v", ls)
	}
}

func TestWait_IgnoresCancellationAndIsIdempotent(t *testing.T) {
	c := newBoard(seeded(), SimulatedBackend{Delay: 10 * time.Millisecond}, u1)
	p, err := c.BeginMove("t-1", model.StateDone)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.Wait(ctx)
	if err != nil {
		t.Fatalf("expected commit despite canceled context; got %v", err)
	}
	again, err2 := p.Wait(context.Background())
	if err2 != nil || again.Task.State != res.Task.State {
		t.Fatalf("expected repeated Wait to return first outcome")
	}
	if got, _ := c.Task("t-1"); got.State != model.StateDone {
		t.Fatalf("expected done; got %s", got.State)
	}
}

func TestScenario_OwnerMovesStrangerCannotDelete(t *testing.T) {
	ctx := context.Background()
	g := newGate(OpMove)
	c := newBoard(nil, g, u1)

	res, err := c.CreateTask(ctx, model.Draft{Title: "Write spec", Description: "", Priority: model.PriorityHigh, State: model.StateTodo})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := res.Task.ID
	if res.Task.OwnerID != "u1" || res.Task.State != model.StateTodo {
		t.Fatalf("unexpected created task: %+v", res.Task)
	}

	p, err := c.BeginMove(id, model.StateDoing)
	if err != nil {
		t.Fatalf("begin move: %v", err)
	}
	if got, _ := c.Task(id); got.State != model.StateDoing {
		t.Fatalf("expected doing before the move resolves; got %s", got.State)
	}
	close(g.release)
	if _, err := p.Wait(ctx); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got, _ := c.Task(id); got.State != model.StateDoing {
		t.Fatalf("expected doing after the move resolves; got %s", got.State)
	}

	c.SetActor(u2)
	before := c.Tasks()
	_, err = c.DeleteTask(ctx, id)
	if !errors.As(err, &mutate.PermissionDeniedError{}) {
		t.Fatalf("expected PermissionDeniedError; got %v", err)
	}
	requireUnchanged(t, c, before)
	if got, ok := c.Task(id); !ok || got.State != model.StateDoing {
		t.Fatalf("expected task still present in doing; got %+v ok=%v", got, ok)
	}
}

func TestScenario_OwnerAdminAndStranger(t *testing.T) {
	ctx := context.Background()
	c := newBoard(nil, Immediate(), u1)

	res, err := c.CreateTask(ctx, model.Draft{Title: "Quarterly report", Priority: model.PriorityHigh, State: model.StateTodo})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := res.Task.ID

	c.SetActor(u2)
	before := c.Tasks()
	var pd mutate.PermissionDeniedError
	if _, err := c.MoveTask(ctx, id, model.StateDoing); !errors.As(err, &pd) {
		t.Fatalf("expected u2 move denied; got %v", err)
	}
	if _, err := c.DeleteTask(ctx, id); !errors.As(err, &pd) {
		t.Fatalf("expected u2 delete denied; got %v", err)
	}
	requireUnchanged(t, c, before)

	c.SetActor(u1)
	users := []string{"u2"}
	if _, err := c.UpdateTask(ctx, id, model.Patch{AssignedUsers: &users}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	c.SetActor(u2)
	if _, err := c.MoveTask(ctx, id, model.StateDoing); err != nil {
		t.Fatalf("expected assignee move allowed: %v", err)
	}

	c.SetActor(admin)
	if _, err := c.DeleteTask(ctx, id); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(c.Tasks()) != 0 {
		t.Fatalf("expected empty board")
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	c := newBoard(nil, Immediate(), nil)
	n := 0
	unsub := c.Subscribe(func(Event) { n++ })
	c.SetActor(u1)
	unsub()
	c.SetActor(u2)
	if n != 1 {
		t.Fatalf("expected 1 event before unsubscribe; got %d", n)
	}
}

func TestParseOpKinds(t *testing.T) {
	got, err := ParseOpKinds(" move, delete ")
	if err != nil || len(got) != 2 || got[0] != OpMove || got[1] != OpDelete {
		t.Fatalf("unexpected: %v, %v", got, err)
	}
	all, err := ParseOpKinds("all")
	if err != nil || len(all) != 4 {
		t.Fatalf("expected all kinds; got %v, %v", all, err)
	}
	if _, err := ParseOpKinds("archive"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
