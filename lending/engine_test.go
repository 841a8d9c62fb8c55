package lending

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = Session{UserID: "u-alice", Email: "alice@example.edu", FirstName: "Alice", LastName: "Ng", QuizPassed: true}
	bob   = Session{UserID: "u-bob", Email: "bob@example.edu", FirstName: "Bob", LastName: "Tran", QuizPassed: true}
	carol = Session{UserID: "u-carol", Email: "carol@example.edu", FirstName: "Carol", LastName: "Diaz"} // quiz not passed
)

// memItems is an in-memory ItemStore with the same field-level semantics as
// the real one: each Update is atomic, RemoveField deletes the key, and there
// is no status guard, so concurrent writers race last-write-wins.
type memItems struct {
	mu      sync.Mutex
	rows    map[string]map[string]any
	failIDs map[string]bool
	updates int
}

func newMemItems() *memItems {
	return &memItems{rows: map[string]map[string]any{}, failIDs: map[string]bool{}}
}

func (m *memItems) add(id, code, name, status string) {
	m.rows[id] = map[string]any{"code": code, "name": name, FieldStatus: status}
}

func (m *memItems) addCheckedOut(id, code, name, by string) {
	m.add(id, code, name, StatusCheckedOut)
	m.rows[id][FieldCheckedOutBy] = by
}

func (m *memItems) List(ctx context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []Item
	for id, row := range m.rows {
		it := Item{ID: id}
		it.Code, _ = row["code"].(string)
		it.Name, _ = row["name"].(string)
		it.Status, _ = row[FieldStatus].(string)
		it.CheckedOutBy, _ = row[FieldCheckedOutBy].(string)
		items = append(items, it)
	}
	return items, nil
}

func (m *memItems) Update(ctx context.Context, id string, changes Changes) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIDs[id] {
		return errors.New("store unavailable")
	}
	row, ok := m.rows[id]
	if !ok {
		return errors.New("not found")
	}
	for k, v := range changes {
		if v == RemoveField {
			delete(row, k)
			continue
		}
		row[k] = v
	}
	m.updates++
	return nil
}

func (m *memItems) field(id, k string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[id][k]
	return v, ok
}

type memLogs struct {
	mu      sync.Mutex
	entries []Entry
}

func (l *memLogs) Append(ctx context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return nil
}

func (l *memLogs) byAction(action string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func newEngine(items *memItems, logs *memLogs) *Engine {
	e := NewEngine(items, logs)
	e.Now = func() time.Time { return time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC) }
	return e
}

func TestCheckout_SetsAttributionAndLogs(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "AMP01", "Fender Champ", StatusAvailable)
	logs := &memLogs{}
	eng := newEngine(items, logs)

	err := eng.Checkout(context.Background(), alice, CheckoutRequest{
		ItemIDs: []string{"i1"}, Purpose: "band practice",
	})
	require.NoError(t, err)

	status, _ := items.field("i1", FieldStatus)
	assert.Equal(t, StatusCheckedOut, status)
	by, _ := items.field("i1", FieldCheckedOutBy)
	assert.Equal(t, alice.Email, by)
	name, _ := items.field("i1", FieldLastCheckedOutByName)
	assert.Equal(t, "Alice Ng", name)
	desc, _ := items.field("i1", FieldCheckoutDescription)
	assert.Equal(t, "band practice", desc)
	_, hasTs := items.field("i1", FieldLastCheckedOut)
	assert.True(t, hasTs)

	entries := logs.byAction(ActionCheckout)
	require.Len(t, entries, 1)
	assert.Equal(t, "i1", entries[0].EquipmentID)
	assert.Equal(t, "Fender Champ", entries[0].EquipmentName)
	assert.Equal(t, alice.Email, entries[0].UserEmail)
	assert.Equal(t, "band practice", entries[0].Description)
}

func TestCheckout_NameFallsBackToEmail(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "MIC01", "SM58", StatusAvailable)
	eng := newEngine(items, &memLogs{})

	noLast := Session{Email: "solo@example.edu", FirstName: "Solo", QuizPassed: true}
	require.NoError(t, eng.Checkout(context.Background(), noLast, CheckoutRequest{
		ItemIDs: []string{"i1"}, Purpose: "vocals",
	}))

	name, _ := items.field("i1", FieldLastCheckedOutByName)
	assert.Equal(t, "solo@example.edu", name)
}

func TestCheckout_RejectsWithoutQuiz(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "AMP01", "Fender Champ", StatusAvailable)
	logs := &memLogs{}
	eng := newEngine(items, logs)

	err := eng.Checkout(context.Background(), carol, CheckoutRequest{
		ItemIDs: []string{"i1"}, Purpose: "jam",
	})
	assert.ErrorIs(t, err, ErrQuizRequired)
	assert.Zero(t, items.updates)
	assert.Empty(t, logs.entries)
}

func TestCheckout_RejectsUnauthenticated(t *testing.T) {
	t.Parallel()
	eng := newEngine(newMemItems(), &memLogs{})
	err := eng.Checkout(context.Background(), Session{}, CheckoutRequest{ItemIDs: []string{"i1"}, Purpose: "x"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCheckout_RejectsEmptyPurpose(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "AMP01", "Fender Champ", StatusAvailable)
	eng := newEngine(items, &memLogs{})

	err := eng.Checkout(context.Background(), alice, CheckoutRequest{
		ItemIDs: []string{"i1"}, Purpose: "   ",
	})
	assert.ErrorIs(t, err, ErrPurposeRequired)
	assert.Zero(t, items.updates)
}

func TestCheckout_RequiresDueDateOnLongTermPath(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "KEY01", "Nord Stage", StatusAvailable)
	eng := newEngine(items, &memLogs{})

	err := eng.Checkout(context.Background(), alice, CheckoutRequest{
		ItemIDs: []string{"i1"}, Purpose: "semester project", RequireDueDate: true,
	})
	assert.ErrorIs(t, err, ErrDueDateRequired)

	require.NoError(t, eng.Checkout(context.Background(), alice, CheckoutRequest{
		ItemIDs: []string{"i1"}, Purpose: "semester project", RequireDueDate: true, DueDate: "2025-05-01",
	}))
	due, _ := items.field("i1", FieldExpectedReturn)
	assert.Equal(t, "2025-05-01", due)
}

func TestCheckout_RejectsBatchWithUnavailableItem(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "AMP01", "Fender Champ", StatusAvailable)
	items.addCheckedOut("i2", "AMP02", "Vox AC30", bob.Email)
	logs := &memLogs{}
	eng := newEngine(items, logs)

	err := eng.Checkout(context.Background(), alice, CheckoutRequest{
		ItemIDs: []string{"i1", "i2"}, Purpose: "gig",
	})
	assert.ErrorIs(t, err, ErrUnavailableSelected)
	// whole batch rejected: no writes at all, i1 untouched
	assert.Zero(t, items.updates)
	assert.Empty(t, logs.entries)
	status, _ := items.field("i1", FieldStatus)
	assert.Equal(t, StatusAvailable, status)
}

func TestCheckout_RejectsUnknownItem(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "AMP01", "Fender Champ", StatusAvailable)
	eng := newEngine(items, &memLogs{})

	err := eng.Checkout(context.Background(), alice, CheckoutRequest{
		ItemIDs: []string{"i1", "ghost"}, Purpose: "gig",
	})
	assert.ErrorIs(t, err, ErrUnavailableSelected)
	assert.Zero(t, items.updates)
}

func TestCheckout_PartialFailureKeepsSucceededSiblings(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "AMP01", "Fender Champ", StatusAvailable)
	items.add("i2", "AMP02", "Vox AC30", StatusAvailable)
	items.failIDs["i2"] = true
	eng := newEngine(items, &memLogs{})

	err := eng.Checkout(context.Background(), alice, CheckoutRequest{
		ItemIDs: []string{"i1", "i2"}, Purpose: "gig",
	})
	assert.ErrorIs(t, err, ErrWriteFailed)

	// no rollback: i1 stays transitioned, i2 stays available
	s1, _ := items.field("i1", FieldStatus)
	assert.Equal(t, StatusCheckedOut, s1)
	s2, _ := items.field("i2", FieldStatus)
	assert.Equal(t, StatusAvailable, s2)
}

func TestReturn_ClearsCheckoutFieldsAndLogs(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.addCheckedOut("i1", "AMP01", "Fender Champ", alice.Email)
	items.rows["i1"][FieldLastCheckedOut] = time.Now()
	items.rows["i1"][FieldCheckoutDescription] = "band practice"
	logs := &memLogs{}
	eng := newEngine(items, logs)

	err := eng.Return(context.Background(), alice, ReturnRequest{
		ItemIDs: []string{"i1"}, Issues: "buzzing input jack",
	})
	require.NoError(t, err)

	status, _ := items.field("i1", FieldStatus)
	assert.Equal(t, StatusAvailable, status)
	// checkout-attached fields must be absent, not blanked
	_, has := items.field("i1", FieldCheckedOutBy)
	assert.False(t, has)
	_, has = items.field("i1", FieldLastCheckedOut)
	assert.False(t, has)
	_, has = items.field("i1", FieldCheckoutDescription)
	assert.False(t, has)
	// return history populated
	issues, _ := items.field("i1", FieldLastReturnedIssues)
	assert.Equal(t, "buzzing input jack", issues)
	retBy, _ := items.field("i1", FieldLastReturnedBy)
	assert.Equal(t, alice.Email, retBy)

	entries := logs.byAction(ActionReturn)
	require.Len(t, entries, 1)
	assert.Equal(t, "i1", entries[0].EquipmentID)
	assert.Equal(t, "buzzing input jack", entries[0].Issues)
}

func TestReturn_RejectsForeignBorrower(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.addCheckedOut("i1", "AMP01", "Fender Champ", alice.Email)
	items.addCheckedOut("i2", "AMP02", "Vox AC30", bob.Email)
	logs := &memLogs{}
	eng := newEngine(items, logs)

	err := eng.Return(context.Background(), alice, ReturnRequest{
		ItemIDs: []string{"i1", "i2"},
	})
	assert.ErrorIs(t, err, ErrNotYourCheckout)
	// zero writes, even for alice's own item in the batch
	assert.Zero(t, items.updates)
	assert.Empty(t, logs.entries)
	by, _ := items.field("i1", FieldCheckedOutBy)
	assert.Equal(t, alice.Email, by)
}

func TestReturn_RejectsWhenNothingHeld(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "AMP01", "Fender Champ", StatusAvailable)
	eng := newEngine(items, &memLogs{})

	err := eng.Return(context.Background(), alice, ReturnRequest{ItemIDs: []string{"i1"}})
	assert.ErrorIs(t, err, ErrNothingToReturn)
}

func TestReturn_SkipsIdleItemsInSelection(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.addCheckedOut("i1", "AMP01", "Fender Champ", alice.Email)
	items.add("i2", "AMP02", "Vox AC30", StatusAvailable)
	logs := &memLogs{}
	eng := newEngine(items, logs)

	require.NoError(t, eng.Return(context.Background(), alice, ReturnRequest{
		ItemIDs: []string{"i1", "i2"},
	}))
	assert.Equal(t, 1, items.updates)
	assert.Len(t, logs.byAction(ActionReturn), 1)
}

func TestCheckoutReturnRoundTrip(t *testing.T) {
	t.Parallel()
	items := newMemItems()
	items.add("i1", "DRM01", "Snare", StatusAvailable)
	logs := &memLogs{}
	eng := newEngine(items, logs)
	ctx := context.Background()

	require.NoError(t, eng.Checkout(ctx, alice, CheckoutRequest{ItemIDs: []string{"i1"}, Purpose: "recording"}))
	require.NoError(t, eng.Return(ctx, alice, ReturnRequest{ItemIDs: []string{"i1"}}))

	status, _ := items.field("i1", FieldStatus)
	assert.Equal(t, StatusAvailable, status)
	_, has := items.field("i1", FieldCheckedOutBy)
	assert.False(t, has)
	_, has = items.field("i1", FieldLastReturned)
	assert.True(t, has)
	issues, _ := items.field("i1", FieldLastReturnedIssues)
	assert.Equal(t, "", issues) // "no issues" — set, and set to empty

	assert.Len(t, logs.byAction(ActionCheckout), 1)
	assert.Len(t, logs.byAction(ActionReturn), 1)
}

// staleItems serves a frozen snapshot from List while writing through to the
// live store, reproducing two clients that both observed an item Available
// before either write landed.
type staleItems struct {
	snapshot []Item
	backing  *memItems
}

func (s staleItems) List(ctx context.Context) ([]Item, error) { return s.snapshot, nil }
func (s staleItems) Update(ctx context.Context, id string, ch Changes) error {
	return s.backing.Update(ctx, id, ch)
}

// Known, deliberately preserved behavior: without compare-and-swap, racing
// checkouts both succeed and the last write wins. The assertion is that
// exactly one internally consistent attribution persists, not which caller
// wins.
func TestConcurrentCheckout_ExactlyOneAttributionPersists(t *testing.T) {
	t.Parallel()
	backing := newMemItems()
	backing.add("i1", "AMP01", "Fender Champ", StatusAvailable)
	logs := &memLogs{}

	snap, err := backing.List(context.Background())
	require.NoError(t, err)
	stale := staleItems{snapshot: snap, backing: backing}

	engA := NewEngine(stale, logs)
	engB := NewEngine(stale, logs)

	var wg sync.WaitGroup
	for _, pair := range []struct {
		eng  *Engine
		sess Session
	}{{engA, alice}, {engB, bob}} {
		wg.Add(1)
		go func(eng *Engine, sess Session) {
			defer wg.Done()
			err := eng.Checkout(context.Background(), sess, CheckoutRequest{
				ItemIDs: []string{"i1"}, Purpose: "practice",
			})
			assert.NoError(t, err) // both callers observed Available, both succeed
		}(pair.eng, pair.sess)
	}
	wg.Wait()

	status, _ := backing.field("i1", FieldStatus)
	require.Equal(t, StatusCheckedOut, status)

	by, _ := backing.field("i1", FieldCheckedOutBy)
	email, _ := backing.field("i1", FieldLastCheckedOutByEmail)
	name, _ := backing.field("i1", FieldLastCheckedOutByName)

	winner, ok := by.(string)
	require.True(t, ok)
	assert.Contains(t, []string{alice.Email, bob.Email}, winner)
	// the persisted attribution is whole: every field belongs to the winner
	assert.Equal(t, winner, email)
	switch winner {
	case alice.Email:
		assert.Equal(t, alice.DisplayName(), name)
	case bob.Email:
		assert.Equal(t, bob.DisplayName(), name)
	}

	// both callers produced an audit entry
	assert.Len(t, logs.byAction(ActionCheckout), 2)
}

func TestSessionDisplayName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		sess Session
		want string
	}{
		{"both parts", Session{Email: "a@x.edu", FirstName: "Ana", LastName: "Lee"}, "Ana Lee"},
		{"missing last", Session{Email: "a@x.edu", FirstName: "Ana"}, "a@x.edu"},
		{"missing first", Session{Email: "a@x.edu", LastName: "Lee"}, "a@x.edu"},
		{"neither", Session{Email: "a@x.edu"}, "a@x.edu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.DisplayName())
		})
	}
}
