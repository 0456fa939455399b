// Package flow drives the story, transfer and mining pages.
//
// The controller is an explicit state machine over stage × page × login. It
// owns no storage of its own: the session store and the ledger are injected.
// Every mutating operation holds the controller busy for its settle delay;
// anything invoked during that window fails with ErrBusy.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/codec"
	"github.com/rcliao/baby-bitcoin/internal/model"
	"github.com/rcliao/baby-bitcoin/internal/session"
)

var (
	ErrBusy            = errors.New("another action is still settling")
	ErrNotSelecting    = errors.New("story is not accepting selections")
	ErrUnknownItem     = errors.New("unknown item")
	ErrConfirmDisabled = errors.New("story keys are not ready")
	ErrLoginRequired   = errors.New("login required")
	ErrUnknownPage     = errors.New("unknown page")
)

// SessionStore persists the logged-in story.
type SessionStore interface {
	Save(ctx context.Context, sess model.Session) error
	Load(ctx context.Context) (*model.Session, error)
	Clear(ctx context.Context) error
}

// Ledger records banana transfers.
type Ledger interface {
	Append(ctx context.Context, from, to model.Address, amount float64) (model.Transaction, error)
	Recent() []model.Transaction
	Len() int
}

// Config wires a Controller.
type Config struct {
	Sessions   SessionStore
	Ledger     Ledger
	Catalogs   catalog.Set
	Delayer    Delayer
	Delays     Delays
	BalanceCap float64
	Logger     *slog.Logger
}

// Controller is the page/stage state machine.
type Controller struct {
	sessions SessionStore
	ledger   Ledger
	catalogs catalog.Set
	delayer  Delayer
	delays   Delays
	cap      float64
	log      *slog.Logger

	mu sync.Mutex
	st State
}

// New creates a controller in the initial logged-out state. Call Start to
// attempt a session restore.
func New(cfg Config) *Controller {
	c := &Controller{
		sessions: cfg.Sessions,
		ledger:   cfg.Ledger,
		catalogs: cfg.Catalogs,
		delayer:  cfg.Delayer,
		delays:   cfg.Delays,
		cap:      cfg.BalanceCap,
		log:      cfg.Logger,
	}
	if c.delayer == nil {
		c.delayer = Sleep{}
	}
	if c.cap <= 0 {
		c.cap = BalanceCap
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Start restores a saved session if there is one. On success the controller
// lands on the transfer page logged in; otherwise it starts a fresh story.
// Restore failures are never fatal.
func (c *Controller) Start(ctx context.Context) {
	sess, err := c.sessions.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st = State{}

	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			c.log.Error("restore session", "error", err)
		}
		c.log.Debug("starting fresh story")
		return
	}

	secret := sess.Secret
	addr := sess.Address
	c.st = State{
		Stage:    StoryComplete,
		Page:     TransferPage,
		LoggedIn: true,
		Animal:   &sess.Animal,
		Place:    &sess.Place,
		Object:   &sess.Object,
		Secret:   &secret,
		Address:  &addr,
	}
	c.log.Info("session restored", "address", addr.Names())
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.clone()
}

// BalanceCap returns the fixed balance transfers are checked against.
func (c *Controller) BalanceCap() float64 { return c.cap }

// Catalogs returns the catalogs the controller selects from.
func (c *Controller) Catalogs() catalog.Set { return c.catalogs }

// Transactions returns the ledger most recent first.
func (c *Controller) Transactions() []model.Transaction {
	return c.ledger.Recent()
}

// Select picks an item for the current stage and advances after the stage
// settle delay. If the delay is cancelled the selection is rolled back.
func (c *Controller) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.st.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	row, ok := transitions[c.st.Stage]
	if !ok || c.st.Page != StoryPage || c.st.LoggedIn {
		stage := c.st.Stage
		c.mu.Unlock()
		return fmt.Errorf("%w: stage %s", ErrNotSelecting, stage)
	}
	cat := row.pick(c.catalogs)
	item, ok := cat.FindByID(id)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q is not one of the %s", ErrUnknownItem, id, cat.Name())
	}
	prev := c.st
	row.set(&c.st, item)
	c.st.Busy = true
	c.mu.Unlock()

	err := c.delayer.Delay(ctx, c.delays.Stage)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.st = prev
		return fmt.Errorf("select %s: %w", id, err)
	}
	c.st.Busy = false
	c.st.Stage = row.next
	c.log.Debug("stage advanced", "item", item.ID, "stage", c.st.Stage)

	if c.st.Stage == StoryComplete && c.st.Secret == nil {
		c.deriveKeysLocked()
	}
	return nil
}

// deriveKeysLocked computes the secret and address from the selections.
// On failure keys stay unset and confirm remains disabled.
func (c *Controller) deriveKeysLocked() {
	if c.st.Animal == nil || c.st.Place == nil || c.st.Object == nil {
		return
	}
	a := c.catalogs.Animals.IndexOf(c.st.Animal.ID)
	p := c.catalogs.Places.IndexOf(c.st.Place.ID)
	o := c.catalogs.Objects.IndexOf(c.st.Object.ID)
	if a < 0 || p < 0 || o < 0 {
		c.log.Warn("cannot derive keys: selection not in catalog", "animal", a, "place", p, "object", o)
		return
	}

	secret := codec.DeriveSecret(a, p, o)
	addr, err := codec.DeriveAddress(c.catalogs.Fruits, secret)
	if err != nil {
		c.log.Error("could not derive fruits for public key", "secret", secret, "error", err)
		return
	}
	c.st.Secret = &secret
	c.st.Address = &addr
	c.log.Debug("keys derived", "secret", secret, "address", addr.Names())
}

// ConfirmAndLogin saves the session and logs in once the login delay has
// elapsed. It lands on the transfer page.
func (c *Controller) ConfirmAndLogin(ctx context.Context) error {
	c.mu.Lock()
	if c.st.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if !c.st.CanConfirm() || c.st.Animal == nil || c.st.Place == nil || c.st.Object == nil {
		c.mu.Unlock()
		return ErrConfirmDisabled
	}
	sess := model.Session{
		Animal:  *c.st.Animal,
		Place:   *c.st.Place,
		Object:  *c.st.Object,
		Secret:  *c.st.Secret,
		Address: *c.st.Address,
	}
	c.st.Busy = true
	c.mu.Unlock()

	err := c.delayer.Delay(ctx, c.delays.Login)
	if err == nil {
		err = c.sessions.Save(ctx, sess)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Busy = false
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.st.LoggedIn = true
	c.st.Page = TransferPage
	c.log.Info("logged in", "address", sess.Address.Names())
	return nil
}

// Logout clears the session and returns to a fresh story. The ledger is
// left untouched.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	if c.st.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.st.Busy = true
	c.mu.Unlock()

	err := c.delayer.Delay(ctx, c.delays.Logout)
	if err == nil {
		err = c.sessions.Clear(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Busy = false
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.resetLocked()
	c.st.LoggedIn = false
	c.st.Page = StoryPage
	c.log.Info("logged out")
	return nil
}

// resetLocked clears selections and derived keys. It never touches the
// ledger.
func (c *Controller) resetLocked() {
	c.st.Animal = nil
	c.st.Place = nil
	c.st.Object = nil
	c.st.Secret = nil
	c.st.Address = nil
	c.st.Stage = SelectingAnimal
}

// Navigate switches pages. The story page redirects to the transfer page
// while logged in; the other pages may be shown logged out but render the
// login-required placeholder.
func (c *Controller) Navigate(page Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Busy {
		return ErrBusy
	}
	switch page {
	case StoryPage:
		if c.st.LoggedIn {
			c.log.Debug("redirecting logged-in user to wallet")
			page = TransferPage
		}
	case TransferPage, MiningPage:
		if !c.st.LoggedIn {
			c.log.Warn("page requires login", "page", page)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPage, int(page))
	}
	c.st.Page = page
	return nil
}

// Send validates a transfer and appends it to the ledger after the transfer
// delay. Validation failures return a *TransferError.
func (c *Controller) Send(ctx context.Context, req TransferRequest) (model.Transaction, error) {
	c.mu.Lock()
	if c.st.Busy {
		c.mu.Unlock()
		return model.Transaction{}, ErrBusy
	}
	if !c.st.LoggedIn || c.st.Address == nil {
		c.mu.Unlock()
		return model.Transaction{}, ErrLoginRequired
	}
	to, amount, err := ValidateTransfer(c.catalogs.Fruits, c.cap, req)
	if err != nil {
		c.mu.Unlock()
		return model.Transaction{}, err
	}
	from := *c.st.Address
	c.st.Busy = true
	c.mu.Unlock()

	var tx model.Transaction
	err = c.delayer.Delay(ctx, c.delays.Transfer)
	if err == nil {
		tx, err = c.ledger.Append(ctx, from, to, amount)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Busy = false
	if err != nil {
		return model.Transaction{}, fmt.Errorf("send: %w", err)
	}
	c.log.Info("transfer recorded", "id", tx.ID, "to", to.Names(), "amount", amount)
	return tx, nil
}
