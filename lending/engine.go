package lending

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Item status lifecycle.
const (
	StatusAvailable  = "Available"
	StatusCheckedOut = "Checked Out"
	StatusMissing    = "Missing"
)

// Log actions.
const (
	ActionCheckout = "checkout"
	ActionReturn   = "return"
)

// Column keys used in Changes maps. The backing store maps these straight to
// its own field names.
const (
	FieldStatus                = "status"
	FieldCheckedOutBy          = "checked_out_by"
	FieldLastCheckedOutByName  = "last_checked_out_by_name"
	FieldLastCheckedOutByEmail = "last_checked_out_by_email"
	FieldLastCheckedOut        = "last_checked_out"
	FieldCheckoutDescription   = "checkout_description"
	FieldExpectedReturn        = "expected_return"
	FieldLastReturned          = "last_returned"
	FieldLastReturnedBy        = "last_returned_by"
	FieldLastReturnedByName    = "last_returned_by_name"
	FieldLastReturnedByEmail   = "last_returned_by_email"
	FieldLastReturnedIssues    = "last_returned_issues"
)

var (
	ErrNotAuthenticated = errors.New("sign in to continue")
	ErrQuizRequired     = errors.New("you must pass the membership quiz first")
	ErrNoItems          = errors.New("no items selected")
	ErrPurposeRequired  = errors.New("a checkout purpose is required")
	ErrDueDateRequired  = errors.New("an expected return date is required")
	// ErrUnavailableSelected rejects the whole batch: deselect anything that
	// is not currently available and try again.
	ErrUnavailableSelected = errors.New("one or more selected items are not available; deselect them and try again")
	ErrNotYourCheckout     = errors.New("an item in the selection was checked out by someone else; sign in as that account to return it")
	ErrNothingToReturn     = errors.New("none of the selected items are checked out by you")
	ErrWriteFailed         = errors.New("the update failed, please try again")
)

// Session is the caller's resolved identity, passed explicitly into every
// engine operation. The engine never reads ambient auth state.
type Session struct {
	UserID        string
	Email         string
	FirstName     string
	LastName      string
	IsAdmin       bool
	QuizPassed    bool
	EmailVerified bool
}

// DisplayName is "First Last", falling back to the email when either part is
// missing.
func (s Session) DisplayName() string {
	if s.FirstName == "" || s.LastName == "" {
		return s.Email
	}
	return s.FirstName + " " + s.LastName
}

// Item is the engine's view of one piece of equipment.
type Item struct {
	ID           string
	Code         string
	Name         string
	Status       string
	CheckedOutBy string // empty when the field is absent
}

// Changes is a partial update. A value of RemoveField deletes the field
// (store NULL), which is distinct from setting it to "".
type Changes map[string]any

type removeField struct{}

// RemoveField is the remove-field sentinel for Changes.
var RemoveField = removeField{}

type ItemStore interface {
	List(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, id string, changes Changes) error
}

type LogStore interface {
	Append(ctx context.Context, e Entry) error
}

// Entry is one append-only audit record. The item name is denormalized at
// time of action on purpose: the log must stay readable after renames.
type Entry struct {
	EquipmentID   string
	EquipmentName string
	Action        string
	UserID        string
	UserName      string
	UserEmail     string
	Description   string
	Issues        string
	Timestamp     time.Time
}

// Engine applies checkout and return transitions. Preconditions are evaluated
// against the caller's current view of the item list; writes are independent
// per item with no cross-item transaction and no compare-and-swap, so
// concurrent callers race last-write-wins (see the concurrency tests).
type Engine struct {
	Items ItemStore
	Logs  LogStore
	Now   func() time.Time // defaults to time.Now().UTC
}

func NewEngine(items ItemStore, logs LogStore) *Engine {
	return &Engine{Items: items, Logs: logs}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

type CheckoutRequest struct {
	ItemIDs []string
	Purpose string
	// DueDate is the expected return date. Required only when RequireDueDate
	// is set (the long-term checkout path).
	DueDate        string
	RequireDueDate bool
}

type ReturnRequest struct {
	ItemIDs []string
	Issues  string // free text, may be empty ("no issues")
}

// Checkout transitions every selected item to Checked Out attributed to the
// session. The batch is all-or-nothing at precondition time: if any selected
// item is not available, nothing is written.
func (e *Engine) Checkout(ctx context.Context, sess Session, req CheckoutRequest) error {
	if err := e.gate(sess); err != nil {
		return err
	}
	if len(req.ItemIDs) == 0 {
		return ErrNoItems
	}
	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return ErrPurposeRequired
	}
	due := strings.TrimSpace(req.DueDate)
	if req.RequireDueDate && due == "" {
		return ErrDueDateRequired
	}

	view, err := e.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	targets := make([]Item, 0, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		it, ok := view[id]
		if !ok || it.Status != StatusAvailable {
			return ErrUnavailableSelected
		}
		targets = append(targets, it)
	}

	now := e.now()
	changes := Changes{
		FieldStatus:                StatusCheckedOut,
		FieldCheckedOutBy:          sess.Email,
		FieldLastCheckedOutByName:  sess.DisplayName(),
		FieldLastCheckedOutByEmail: sess.Email,
		FieldLastCheckedOut:        now,
		FieldCheckoutDescription:   purpose,
	}
	if due != "" {
		changes[FieldExpectedReturn] = due
	}

	return e.apply(ctx, targets, changes, func(it Item) Entry {
		return Entry{
			EquipmentID:   it.ID,
			EquipmentName: it.Name,
			Action:        ActionCheckout,
			UserID:        sess.UserID,
			UserName:      sess.DisplayName(),
			UserEmail:     sess.Email,
			Description:   purpose,
			Timestamp:     now,
		}
	})
}

// Return transitions the caller's items back to Available. Items in the
// selection held by a different account reject the whole batch; items that
// are not checked out at all are skipped, but at least one selected item must
// actually be held by the caller.
func (e *Engine) Return(ctx context.Context, sess Session, req ReturnRequest) error {
	if err := e.gate(sess); err != nil {
		return err
	}
	if len(req.ItemIDs) == 0 {
		return ErrNoItems
	}

	view, err := e.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	var targets []Item
	for _, id := range req.ItemIDs {
		it, ok := view[id]
		if !ok {
			continue
		}
		if it.CheckedOutBy != "" && it.CheckedOutBy != sess.Email {
			return ErrNotYourCheckout
		}
		if it.CheckedOutBy == sess.Email && it.Status == StatusCheckedOut {
			targets = append(targets, it)
		}
	}
	if len(targets) == 0 {
		return ErrNothingToReturn
	}

	now := e.now()
	issues := strings.TrimSpace(req.Issues)
	changes := Changes{
		FieldStatus:              StatusAvailable,
		FieldLastReturned:        now,
		FieldLastReturnedBy:      sess.Email,
		FieldLastReturnedByName:  sess.DisplayName(),
		FieldLastReturnedByEmail: sess.Email,
		FieldLastReturnedIssues:  issues,
		FieldCheckedOutBy:        RemoveField,
		FieldLastCheckedOut:      RemoveField,
		FieldCheckoutDescription: RemoveField,
		FieldExpectedReturn:      RemoveField,
	}

	return e.apply(ctx, targets, changes, func(it Item) Entry {
		return Entry{
			EquipmentID:   it.ID,
			EquipmentName: it.Name,
			Action:        ActionReturn,
			UserID:        sess.UserID,
			UserName:      sess.DisplayName(),
			UserEmail:     sess.Email,
			Issues:        issues,
			Timestamp:     now,
		}
	})
}

func (e *Engine) gate(sess Session) error {
	if sess.Email == "" {
		return ErrNotAuthenticated
	}
	if !sess.QuizPassed {
		return ErrQuizRequired
	}
	return nil
}

func (e *Engine) snapshot(ctx context.Context) (map[string]Item, error) {
	items, err := e.Items.List(ctx)
	if err != nil {
		return nil, err
	}
	view := make(map[string]Item, len(items))
	for _, it := range items {
		view[it.ID] = it
	}
	return view, nil
}

// apply fires one independent update per item. A failed sibling does not roll
// back the ones that succeeded; log appends are fire-and-forget.
func (e *Engine) apply(ctx context.Context, targets []Item, changes Changes, entry func(Item) Entry) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failed   int
		firstErr error
	)
	for _, it := range targets {
		wg.Add(1)
		go func(it Item) {
			defer wg.Done()
			if err := e.Items.Update(ctx, it.ID, changes); err != nil {
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			if err := e.Logs.Append(ctx, entry(it)); err != nil {
				log.Printf("equipment log append for %s: %v", it.ID, err)
			}
		}(it)
	}
	wg.Wait()
	if failed > 0 {
		return fmt.Errorf("%d of %d item updates failed (%v): %w", failed, len(targets), firstErr, ErrWriteFailed)
	}
	return nil
}
