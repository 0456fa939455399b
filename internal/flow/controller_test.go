package flow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/ledger"
	"github.com/rcliao/baby-bitcoin/internal/model"
	"github.com/rcliao/baby-bitcoin/internal/session"
	"github.com/rcliao/baby-bitcoin/internal/store"
)

type harness struct {
	records  *store.SQLiteStore
	sessions *session.Store
	ledger   *ledger.Ledger
	catalogs catalog.Set
	delayer  Delayer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	records, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "flow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { records.Close() })
	h := &harness{records: records, catalogs: catalog.Default(), delayer: NoDelay{}}
	h.reload(t)
	return h
}

// reload reopens the stores, as a fresh process would.
func (h *harness) reload(t *testing.T) {
	t.Helper()
	h.sessions = session.NewStore(h.records, h.catalogs, 0, nil)
	l, err := ledger.Open(context.Background(), h.records)
	require.NoError(t, err)
	h.ledger = l
}

func (h *harness) controller() *Controller {
	c := New(Config{
		Sessions: h.sessions,
		Ledger:   h.ledger,
		Catalogs: h.catalogs,
		Delayer:  h.delayer,
		Delays:   DefaultDelays(),
	})
	c.Start(context.Background())
	return c
}

func completeStory(t *testing.T, c *Controller, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, c.Select(context.Background(), id))
	}
}

func login(t *testing.T, c *Controller) {
	t.Helper()
	completeStory(t, c, "rabbit", "desert", "gift")
	require.NoError(t, c.ConfirmAndLogin(context.Background()))
}

func TestFreshStart(t *testing.T) {
	c := newHarness(t).controller()
	st := c.Snapshot()
	assert.Equal(t, SelectingAnimal, st.Stage)
	assert.Equal(t, StoryPage, st.Page)
	assert.False(t, st.LoggedIn)
	assert.False(t, st.CanConfirm())
}

func TestStoryFlowDerivesKeys(t *testing.T) {
	c := newHarness(t).controller()
	ctx := context.Background()

	require.NoError(t, c.Select(ctx, "rabbit"))
	assert.Equal(t, SelectingPlace, c.Snapshot().Stage)
	require.NoError(t, c.Select(ctx, "desert"))
	assert.Equal(t, SelectingObject, c.Snapshot().Stage)
	require.NoError(t, c.Select(ctx, "gift"))

	st := c.Snapshot()
	assert.Equal(t, StoryComplete, st.Stage)
	require.NotNil(t, st.Secret)
	assert.Equal(t, 601, *st.Secret)
	require.NotNil(t, st.Address)
	assert.Equal(t, [3]string{"cherry", "orange", "strawberry"}, st.Address.IDs())
	assert.True(t, st.CanConfirm())
	assert.False(t, st.LoggedIn)

	err := c.Select(ctx, "cat")
	assert.ErrorIs(t, err, ErrNotSelecting)
}

func TestSelectRejectsItemFromOtherCatalog(t *testing.T) {
	c := newHarness(t).controller()
	err := c.Select(context.Background(), "castle")
	assert.ErrorIs(t, err, ErrUnknownItem)
	st := c.Snapshot()
	assert.Equal(t, SelectingAnimal, st.Stage)
	assert.Nil(t, st.Animal)
}

func TestConfirmDisabledUntilComplete(t *testing.T) {
	c := newHarness(t).controller()
	completeStory(t, c, "cat", "forest")
	assert.ErrorIs(t, c.ConfirmAndLogin(context.Background()), ErrConfirmDisabled)
	assert.False(t, c.Snapshot().LoggedIn)
}

func TestConfirmLogsInAndPersists(t *testing.T) {
	h := newHarness(t)
	c := h.controller()
	login(t, c)

	st := c.Snapshot()
	assert.True(t, st.LoggedIn)
	assert.Equal(t, TransferPage, st.Page)

	h.reload(t)
	restored := h.controller().Snapshot()
	assert.True(t, restored.LoggedIn)
	assert.Equal(t, StoryComplete, restored.Stage)
	assert.Equal(t, TransferPage, restored.Page)
	assert.Equal(t, "rabbit", restored.Animal.ID)
	assert.Equal(t, "desert", restored.Place.ID)
	assert.Equal(t, "gift", restored.Object.ID)
	assert.Equal(t, 601, *restored.Secret)
	assert.Equal(t, *st.Address, *restored.Address)
}

func TestDerivationFailureKeepsConfirmDisabled(t *testing.T) {
	h := newHarness(t)
	h.catalogs.Fruits = catalog.New("fruits", catalog.Fruits.Items()[:8])
	h.reload(t)
	c := h.controller()

	completeStory(t, c, "rabbit", "desert", "gift")
	st := c.Snapshot()
	assert.Equal(t, StoryComplete, st.Stage)
	assert.Nil(t, st.Secret)
	assert.Nil(t, st.Address)
	assert.False(t, st.CanConfirm())
	assert.ErrorIs(t, c.ConfirmAndLogin(context.Background()), ErrConfirmDisabled)
}

func TestLogoutKeepsLedger(t *testing.T) {
	h := newHarness(t)
	c := h.controller()
	ctx := context.Background()
	login(t, c)

	for _, amt := range []string{"0.5", "1"} {
		_, err := c.Send(ctx, TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: amt})
		require.NoError(t, err)
	}
	require.NoError(t, c.Logout(ctx))

	st := c.Snapshot()
	assert.False(t, st.LoggedIn)
	assert.Equal(t, StoryPage, st.Page)
	assert.Equal(t, SelectingAnimal, st.Stage)
	assert.Nil(t, st.Animal)
	assert.Nil(t, st.Secret)
	assert.Equal(t, 2, h.ledger.Len())

	h.reload(t)
	fresh := h.controller()
	assert.False(t, fresh.Snapshot().LoggedIn)
	assert.Equal(t, 2, h.ledger.Len())
	_, err := h.sessions.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestTransactionsListedNewestFirst(t *testing.T) {
	h := newHarness(t)
	c := h.controller()
	ctx := context.Background()
	login(t, c)

	first, err := c.Send(ctx, TransferRequest{To: [3]string{"apple", "apple", "apple"}, Amount: "0.1"})
	require.NoError(t, err)
	second, err := c.Send(ctx, TransferRequest{To: [3]string{"melon", "melon", "melon"}, Amount: "0.2"})
	require.NoError(t, err)

	txs := c.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, second.ID, txs[0].ID)
	assert.Equal(t, first.ID, txs[1].ID)
	assert.Equal(t, first.ID, h.ledger.All()[0].ID)
	assert.Equal(t, [3]string{"cherry", "orange", "strawberry"}, txs[0].FromAddress.IDs())
}

func TestSendValidation(t *testing.T) {
	cases := []struct {
		name   string
		req    TransferRequest
		reason TransferReason
	}{
		{"missing fruit", TransferRequest{To: [3]string{"apple", "", "kiwi"}, Amount: "0.5"}, ReasonDestination},
		{"unknown fruit", TransferRequest{To: [3]string{"apple", "durian", "kiwi"}, Amount: "0.5"}, ReasonDestination},
		{"empty amount", TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: ""}, ReasonAmount},
		{"not a number", TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: "lots"}, ReasonAmount},
		{"zero", TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: "0"}, ReasonAmount},
		{"negative", TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: "-0.5"}, ReasonAmount},
		{"nan", TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: "NaN"}, ReasonAmount},
		{"over cap", TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: "1.01"}, ReasonBalance},
		{"infinite", TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: "Inf"}, ReasonBalance},
	}

	h := newHarness(t)
	c := h.controller()
	login(t, c)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Send(context.Background(), tc.req)
			var terr *TransferError
			require.True(t, errors.As(err, &terr), "got %v", err)
			assert.Equal(t, tc.reason, terr.Reason)
			assert.NotEmpty(t, terr.Message)
			assert.Equal(t, 0, h.ledger.Len())
		})
	}
}

func TestBalanceMessage(t *testing.T) {
	_, _, err := ValidateTransfer(catalog.Fruits, BalanceCap,
		TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: "2"})
	require.Error(t, err)
	assert.Equal(t, "Amount exceeds your balance of 1 🍌.", err.Error())
}

func TestSendRequiresLogin(t *testing.T) {
	h := newHarness(t)
	c := h.controller()
	_, err := c.Send(context.Background(), TransferRequest{To: [3]string{"apple", "banana", "kiwi"}, Amount: "0.5"})
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 0, h.ledger.Len())
}

func TestNavigate(t *testing.T) {
	c := newHarness(t).controller()

	require.NoError(t, c.Navigate(MiningPage))
	st := c.Snapshot()
	assert.Equal(t, MiningPage, st.Page)
	assert.True(t, st.NeedsLogin())

	require.NoError(t, c.Navigate(StoryPage))
	assert.False(t, c.Snapshot().NeedsLogin())

	login(t, c)
	require.NoError(t, c.Navigate(MiningPage))
	assert.False(t, c.Snapshot().NeedsLogin())

	require.NoError(t, c.Navigate(StoryPage))
	assert.Equal(t, TransferPage, c.Snapshot().Page)

	assert.ErrorIs(t, c.Navigate(Page(42)), ErrUnknownPage)
}

func TestSelectOnlyOnStoryPage(t *testing.T) {
	c := newHarness(t).controller()
	require.NoError(t, c.Navigate(TransferPage))
	assert.ErrorIs(t, c.Select(context.Background(), "cat"), ErrNotSelecting)
}

func TestStaleSessionStartsFresh(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.records.Set(ctx, session.Key,
		`{"selectedAnimalId":"dragon","selectedPlaceId":"desert","selectedObjectId":"gift","privateKey":"601","publicKeyFruitIds":["cherry","orange","strawberry"]}`,
		time.Hour))

	st := h.controller().Snapshot()
	assert.False(t, st.LoggedIn)
	assert.Equal(t, SelectingAnimal, st.Stage)
	assert.Equal(t, StoryPage, st.Page)

	_, err := h.records.Get(ctx, session.Key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// gate blocks every delay until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gate) Delay(ctx context.Context, _ time.Duration) error {
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestBusyRejectsReentry(t *testing.T) {
	h := newHarness(t)
	g := newGate()
	h.delayer = g
	c := h.controller()
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() { errc <- c.Select(ctx, "cat") }()
	<-g.entered

	st := c.Snapshot()
	assert.True(t, st.Busy)
	require.NotNil(t, st.Animal)
	assert.Equal(t, "cat", st.Animal.ID)
	assert.Equal(t, SelectingAnimal, st.Stage, "stage must not advance before the delay elapses")

	assert.ErrorIs(t, c.Select(ctx, "dog"), ErrBusy)
	assert.ErrorIs(t, c.Logout(ctx), ErrBusy)
	assert.ErrorIs(t, c.Navigate(MiningPage), ErrBusy)

	close(g.release)
	require.NoError(t, <-errc)
	st = c.Snapshot()
	assert.False(t, st.Busy)
	assert.Equal(t, SelectingPlace, st.Stage)
	assert.Equal(t, "cat", st.Animal.ID)
}

func TestCancelledDelayRollsBack(t *testing.T) {
	h := newHarness(t)
	g := newGate()
	h.delayer = g
	c := h.controller()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Select(ctx, "fox") }()
	<-g.entered
	cancel()

	err := <-errc
	assert.ErrorIs(t, err, context.Canceled)
	st := c.Snapshot()
	assert.Nil(t, st.Animal)
	assert.False(t, st.Busy)
	assert.Equal(t, SelectingAnimal, st.Stage)
}

func TestCancelledLoginSavesNothing(t *testing.T) {
	h := newHarness(t)
	c := h.controller()
	completeStory(t, c, "rabbit", "desert", "gift")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.ConfirmAndLogin(ctx), context.Canceled)
	assert.False(t, c.Snapshot().LoggedIn)

	_, err := h.sessions.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := newHarness(t).controller()
	login(t, c)

	st := c.Snapshot()
	st.Address[0] = model.Item{ID: "mutated"}
	*st.Secret = 0
	again := c.Snapshot()
	assert.Equal(t, "cherry", again.Address[0].ID)
	assert.Equal(t, 601, *again.Secret)
}

func TestSleepDelay(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep{}.Delay(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep{}.Delay(ctx, time.Hour), context.Canceled)
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage("wallet")
	require.NoError(t, err)
	assert.Equal(t, TransferPage, p)

	_, err = ParsePage("casino")
	assert.ErrorIs(t, err, ErrUnknownPage)
}
