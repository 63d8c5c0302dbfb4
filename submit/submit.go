// Package submit runs the admin page's submission workflow. A Desk is the
// server side state of one admin page session: the field values of the four
// forms and the busy gate that disables their submit buttons while a
// request to the content endpoint is in flight
package submit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.senan.xyz/musicarchive/content"
)

var (
	ErrBusy          = errors.New("a submission is already in progress")
	ErrUnknownScope  = errors.New("unknown lock scope")
	ErrUnknownPolicy = errors.New("unknown reject policy")
)

// Creator is satisfied by *contentapi.Client
type Creator interface {
	Create(ctx context.Context, rec content.Record) (content.Result, error)
}

// LockScope decides which forms share a busy gate
type LockScope string

const (
	// LockShared is one gate for all four forms. While any submission is in
	// flight no form can be submitted
	LockShared LockScope = "shared"
	// LockPerForm gives each form its own gate
	LockPerForm LockScope = "form"
)

func ParseLockScope(in string) (LockScope, error) {
	switch s := LockScope(in); s {
	case LockShared, LockPerForm:
		return s, nil
	default:
		return "", fmt.Errorf("%q: %w", in, ErrUnknownScope)
	}
}

// RejectPolicy decides what a reply with a falsy `success` does. Neither
// policy resets the form
type RejectPolicy string

const (
	// RejectNotify treats a rejection like a failed request and shows the
	// generic failure notification
	RejectNotify RejectPolicy = "notify"
	// RejectSilent shows nothing at all
	RejectSilent RejectPolicy = "silent"
)

func ParseRejectPolicy(in string) (RejectPolicy, error) {
	switch p := RejectPolicy(in); p {
	case RejectNotify, RejectSilent:
		return p, nil
	default:
		return "", fmt.Errorf("%q: %w", in, ErrUnknownPolicy)
	}
}

type Options struct {
	Scope  LockScope
	Reject RejectPolicy
	// Timeout bounds each attempt. Zero means the attempt lasts as long as
	// the caller's context
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{Scope: LockShared, Reject: RejectNotify}
}

type Variant string

const (
	VariantNormal      Variant = "normal"
	VariantDestructive Variant = "destructive"
)

type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

type Outcome int

const (
	OutcomeCreated  Outcome = iota // success was truthy
	OutcomeFailed                  // the request or its decoding failed
	OutcomeRejected                // success was falsy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeFailed:
		return "failed"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Report is what happened to one attempt. Notification is nil when the
// user is shown nothing
type Report struct {
	Kind         content.Kind
	Outcome      Outcome
	ID           content.ID
	Notification *Notification
	Err          error
}

type gate struct{ held atomic.Bool }

func (g *gate) tryAcquire() bool { return g.held.CompareAndSwap(false, true) }
func (g *gate) release()         { g.held.Store(false) }

type Desk struct {
	creator Creator
	opts    Options
	gates   map[content.Kind]*gate

	mu       sync.Mutex
	forms    map[content.Kind]*Form
	lastSeen time.Time
}

func NewDesk(creator Creator, opts Options) *Desk {
	d := &Desk{
		creator: creator,
		opts:    opts,
		gates:   map[content.Kind]*gate{},
		forms:   map[content.Kind]*Form{},
	}
	shared := &gate{}
	for _, kind := range content.Kinds {
		d.forms[kind], _ = NewForm(kind)
		if opts.Scope == LockPerForm {
			d.gates[kind] = &gate{}
			continue
		}
		d.gates[kind] = shared
	}
	return d
}

// Busy reports whether the kind's submit action is currently disabled
func (d *Desk) Busy(kind content.Kind) bool {
	g, ok := d.gates[kind]
	return ok && g.held.Load()
}

// Values returns a copy of the kind's current field values
func (d *Desk) Values(kind content.Kind) map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	form, ok := d.forms[kind]
	if !ok {
		return nil
	}
	return form.Values()
}

// Submit copies values into the kind's form and sends it to the endpoint
// once. The busy gate is always released before returning. ErrBusy means no
// request was made
func (d *Desk) Submit(ctx context.Context, kind content.Kind, values url.Values) (Report, error) {
	rec, err := d.edit(kind, values)
	if err != nil {
		return Report{}, err
	}

	g := d.gates[kind]
	if !g.tryAcquire() {
		return Report{}, fmt.Errorf("%s: %w", kind, ErrBusy)
	}
	defer g.release()

	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	report := Report{Kind: kind}
	res, err := d.creator.Create(ctx, rec)
	switch {
	case err != nil:
		log.Printf("error adding %s: %v", kind, err)
		report.Outcome = OutcomeFailed
		report.Err = err
		report.Notification = failedNotification(kind)
	case !res.OK():
		report.Outcome = OutcomeRejected
		if d.opts.Reject != RejectSilent {
			report.Notification = failedNotification(kind)
		}
	default:
		report.Outcome = OutcomeCreated
		report.ID = res.ID
		report.Notification = &Notification{
			Title:       fmt.Sprintf("%s added", kind),
			Description: fmt.Sprintf("ID: %s", res.ID),
			Variant:     VariantNormal,
		}
		d.reset(kind)
	}
	return report, nil
}

func (d *Desk) edit(kind content.Kind, values url.Values) (content.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastSeen = time.Now()
	form, ok := d.forms[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, content.ErrUnknownKind)
	}
	if err := form.Set(values); err != nil {
		return nil, err
	}
	return form.Record(), nil
}

func (d *Desk) reset(kind content.Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.forms[kind].Reset()
}

func (d *Desk) touch(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastSeen = now
}

func (d *Desk) idleSince() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSeen
}

func (d *Desk) anyBusy() bool {
	for _, g := range d.gates {
		if g.held.Load() {
			return true
		}
	}
	return false
}

func failedNotification(kind content.Kind) *Notification {
	return &Notification{
		Title:       "error",
		Description: fmt.Sprintf("failed to add %s", kind),
		Variant:     VariantDestructive,
	}
}
