// Package view renders controller state as plain text or JSON.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/codec"
	"github.com/rcliao/baby-bitcoin/internal/flow"
	"github.com/rcliao/baby-bitcoin/internal/model"
)

// Options controls rendering.
type Options struct {
	Catalogs   catalog.Set
	BalanceCap float64
	Now        func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

var (
	lower = cases.Lower(language.English)
	title = cases.Title(language.English)
)

var prompts = map[flow.Stage]string{
	flow.SelectingAnimal: "Choose an Animal",
	flow.SelectingPlace:  "Choose a Home",
	flow.SelectingObject: "Choose a Favorite Thing",
}

// Render writes the page the state is on.
func Render(w io.Writer, st flow.State, txs []model.Transaction, opts Options) {
	if st.NeedsLogin() {
		LoginRequired(w)
		return
	}
	switch st.Page {
	case flow.TransferPage:
		Transfer(w, st, opts)
	case flow.MiningPage:
		Mining(w, st, txs, opts)
	default:
		Story(w, st, opts)
	}
}

// StoryText builds the story sentence for the selections made so far.
func StoryText(st flow.State) string {
	if st.Animal == nil {
		return "Once upon a time..."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Once upon a time, there was a %s %s.", lower.String(st.Animal.Name), st.Animal.Glyph)
	if st.Place != nil {
		fmt.Fprintf(&b, " It lived in a %s %s.", lower.String(st.Place.Name), st.Place.Glyph)
	}
	if st.Object != nil {
		fmt.Fprintf(&b, " Its favorite thing was a %s %s.", lower.String(st.Object.Name), st.Object.Glyph)
	}
	return b.String()
}

// Story renders the story-building page.
func Story(w io.Writer, st flow.State, opts Options) {
	fmt.Fprintln(w, "Create Your Secret Story")
	fmt.Fprintln(w)
	fmt.Fprintln(w, StoryText(st))

	if st.Busy {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "...")
		return
	}

	if cat, ok := flow.Choices(opts.Catalogs, st.Stage); ok {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", prompts[st.Stage])
		Items(w, cat)
		return
	}

	fmt.Fprintln(w)
	if st.Secret != nil && st.Address != nil {
		fmt.Fprintf(w, "Your Secret Value: %s\n", codec.FormatSecret(*st.Secret))
		fmt.Fprintf(w, "Your Public Story Code: %s\n", addressLabel(*st.Address))
		fmt.Fprintln(w, "Your Secret Value is like a private password. Keep it safe! Your Public Code is your shareable story identity.")
	} else {
		fmt.Fprintln(w, "Your story keys could not be created.")
	}
	if st.CanConfirm() {
		fmt.Fprintln(w, "Confirm & Enter StoryVerse: ready")
	} else {
		fmt.Fprintln(w, "Confirm & Enter StoryVerse: unavailable")
	}
}

// Items lists a catalog with positions and ids.
func Items(w io.Writer, cat catalog.Catalog) {
	for i, it := range cat.Items() {
		fmt.Fprintf(w, "  %2d  %s %s (%s)\n", i, it.Glyph, it.Name, it.ID)
	}
}

// Catalog renders a titled catalog listing.
func Catalog(w io.Writer, cat catalog.Catalog) {
	fmt.Fprintf(w, "%s:\n", title.String(cat.Name()))
	Items(w, cat)
}

// Transfer renders the wallet page.
func Transfer(w io.Writer, st flow.State, opts Options) {
	header(w, "Banana Wallet 🍌", st)
	fmt.Fprintf(w, "Balance: %s 🍌\n", flow.FormatAmount(opts.BalanceCap))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Send bananas to an address of three fruits:")
	Items(w, opts.Catalogs.Fruits)
}

// Mining renders the ledger page, most recent first.
func Mining(w io.Writer, st flow.State, txs []model.Transaction, opts Options) {
	header(w, "Mining Page ⛏️", st)
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions yet.")
		return
	}
	fmt.Fprintf(w, "Transactions (%d, newest first):\n", len(txs))
	now := opts.now()
	for _, tx := range txs {
		fmt.Fprintf(w, "  %s -> %s  %s 🍌  %s\n",
			tx.FromAddress.Glyphs(), tx.ToAddress.Glyphs(), flow.FormatAmount(tx.Amount), when(tx.Timestamp, now))
	}
}

// LoginRequired renders the placeholder shown on guarded pages.
func LoginRequired(w io.Writer) {
	fmt.Fprintln(w, "Login required")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create your secret story to enter the StoryVerse.")
}

// Sent renders the confirmation for a recorded transfer.
func Sent(w io.Writer, tx model.Transaction) {
	fmt.Fprintf(w, "Successfully sent %s 🍌 to %s!\n", flow.FormatAmount(tx.Amount), tx.ToAddress.Glyphs())
}

func header(w io.Writer, name string, st flow.State) {
	fmt.Fprintln(w, name)
	if st.Address != nil {
		fmt.Fprintf(w, "Logged in as: %s\n", addressLabel(*st.Address))
	}
	fmt.Fprintln(w)
}

func addressLabel(a model.Address) string {
	return fmt.Sprintf("%s (%s)", a.Glyphs(), a.Names())
}

func when(ts string, now time.Time) string {
	t, err := time.Parse(model.TimestampLayout, ts)
	if err != nil {
		return ts
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// PageJSON is the machine-readable form of a rendered page.
type PageJSON struct {
	State        flow.State          `json:"state"`
	CanConfirm   bool                `json:"can_confirm"`
	NeedsLogin   bool                `json:"needs_login"`
	Story        string              `json:"story"`
	Transactions []model.Transaction `json:"transactions,omitempty"`
}

// JSON writes the state as indented JSON. Transactions are only included on
// the mining page when logged in.
func JSON(w io.Writer, st flow.State, txs []model.Transaction) error {
	p := PageJSON{
		State:      st,
		CanConfirm: st.CanConfirm(),
		NeedsLogin: st.NeedsLogin(),
		Story:      StoryText(st),
	}
	if st.Page == flow.MiningPage && st.LoggedIn {
		p.Transactions = txs
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
