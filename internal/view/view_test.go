package view

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/codec"
	"github.com/rcliao/baby-bitcoin/internal/flow"
	"github.com/rcliao/baby-bitcoin/internal/model"
)

var fixedNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func opts() Options {
	return Options{
		Catalogs:   catalog.Default(),
		BalanceCap: flow.BalanceCap,
		Now:        func() time.Time { return fixedNow },
	}
}

func item(t *testing.T, c catalog.Catalog, id string) *model.Item {
	t.Helper()
	it, ok := c.FindByID(id)
	require.True(t, ok, id)
	return &it
}

func completeState(t *testing.T) flow.State {
	t.Helper()
	secret := codec.DeriveSecret(2, 5, 9)
	addr, err := codec.DeriveAddress(catalog.Fruits, secret)
	require.NoError(t, err)
	return flow.State{
		Stage:   flow.StoryComplete,
		Page:    flow.StoryPage,
		Animal:  item(t, catalog.Animals, "rabbit"),
		Place:   item(t, catalog.Places, "desert"),
		Object:  item(t, catalog.Objects, "gift"),
		Secret:  &secret,
		Address: &addr,
	}
}

func transactions(t *testing.T, from model.Address) []model.Transaction {
	t.Helper()
	to, err := codec.ReconstructAddress(catalog.Fruits, [3]string{"apple", "banana", "kiwi"})
	require.NoError(t, err)
	return []model.Transaction{
		{ID: "b", FromAddress: from, ToAddress: to, Amount: 0.5, Timestamp: fixedNow.Add(-3 * time.Minute).Format(model.TimestampLayout)},
		{ID: "a", FromAddress: from, ToAddress: to, Amount: 1, Timestamp: fixedNow.Add(-2 * time.Hour).Format(model.TimestampLayout)},
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderGolden(t *testing.T) {
	complete := completeState(t)

	loggedIn := completeState(t)
	loggedIn.LoggedIn = true
	loggedIn.Page = flow.TransferPage

	mining := loggedIn
	mining.Page = flow.MiningPage

	guarded := flow.State{Page: flow.MiningPage}

	cases := []struct {
		name string
		st   flow.State
		txs  []model.Transaction
	}{
		{"story_fresh", flow.State{}, nil},
		{"story_place", flow.State{Stage: flow.SelectingPlace, Animal: item(t, catalog.Animals, "rabbit")}, nil},
		{"story_complete", complete, nil},
		{"transfer", loggedIn, nil},
		{"mining", mining, transactions(t, *loggedIn.Address)},
		{"mining_empty", mining, nil},
		{"login_required", guarded, transactions(t, *loggedIn.Address)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			Render(&buf, tc.st, tc.txs, opts())
			newGoldie(t).Assert(t, tc.name, buf.Bytes())
		})
	}
}

func TestStoryTextProgression(t *testing.T) {
	st := flow.State{}
	assert.Equal(t, "Once upon a time...", StoryText(st))

	st.Animal = item(t, catalog.Animals, "panda")
	assert.Equal(t, "Once upon a time, there was a panda 🐼.", StoryText(st))

	st.Place = item(t, catalog.Places, "moon")
	st.Object = item(t, catalog.Objects, "teddy")
	assert.Equal(t,
		"Once upon a time, there was a panda 🐼. It lived in a moon 🌙. Its favorite thing was a teddy bear 🧸.",
		StoryText(st))
}

func TestStoryDerivationFailure(t *testing.T) {
	st := completeState(t)
	st.Secret = nil
	st.Address = nil

	var buf bytes.Buffer
	Story(&buf, st, opts())
	assert.Contains(t, buf.String(), "Your story keys could not be created.")
	assert.Contains(t, buf.String(), "Confirm & Enter StoryVerse: unavailable")
}

func TestBusyStoryHidesChoices(t *testing.T) {
	st := flow.State{Busy: true, Animal: item(t, catalog.Animals, "cat")}
	var buf bytes.Buffer
	Story(&buf, st, opts())
	assert.NotContains(t, buf.String(), "Choose")
	assert.Contains(t, buf.String(), "there was a cat")
}

func TestJSON(t *testing.T) {
	st := completeState(t)
	st.LoggedIn = true
	st.Page = flow.MiningPage
	txs := transactions(t, *st.Address)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, st, txs))

	var got struct {
		State struct {
			Stage    string `json:"stage"`
			Page     string `json:"page"`
			LoggedIn bool   `json:"logged_in"`
			Secret   int    `json:"secret"`
		} `json:"state"`
		CanConfirm   bool                `json:"can_confirm"`
		Transactions []model.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "story_complete", got.State.Stage)
	assert.Equal(t, "mining", got.State.Page)
	assert.True(t, got.State.LoggedIn)
	assert.Equal(t, 601, got.State.Secret)
	assert.True(t, got.CanConfirm)
	assert.Len(t, got.Transactions, 2)
}

func TestSent(t *testing.T) {
	to, err := codec.ReconstructAddress(catalog.Fruits, [3]string{"apple", "banana", "kiwi"})
	require.NoError(t, err)
	var buf bytes.Buffer
	Sent(&buf, model.Transaction{ToAddress: to, Amount: 0.25})
	assert.Equal(t, "Successfully sent 0.25 🍌 to 🍎🍌🥝!\n", buf.String())
}

func TestCatalogTitle(t *testing.T) {
	var buf bytes.Buffer
	Catalog(&buf, catalog.Places)
	assert.Contains(t, buf.String(), "Places:\n")
	assert.Contains(t, buf.String(), "   0  🏰 Castle (castle)\n")
}
