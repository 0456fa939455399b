// Package model defines the core story and ledger data types.
package model

import "strings"

// Item is a selectable catalog entry.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Glyph string `json:"emoji"`
}

// Address is a public address: three fruits, most significant digit first.
type Address [3]Item

// IDs returns the fruit ids of the address in order.
func (a Address) IDs() [3]string {
	return [3]string{a[0].ID, a[1].ID, a[2].ID}
}

// Glyphs joins the fruit glyphs, e.g. "🍎🍌🍒".
func (a Address) Glyphs() string {
	return a[0].Glyph + a[1].Glyph + a[2].Glyph
}

// Names joins the fruit names with spaces.
func (a Address) Names() string {
	return strings.Join([]string{a[0].Name, a[1].Name, a[2].Name}, " ")
}

// Session ties a completed story to its derived keys.
type Session struct {
	Animal  Item    `json:"animal"`
	Place   Item    `json:"place"`
	Object  Item    `json:"object"`
	Secret  int     `json:"secret"`
	Address Address `json:"address"`
}

// Transaction is one simulated banana transfer.
type Transaction struct {
	ID          string  `json:"id"`
	FromAddress Address `json:"fromAddress"`
	ToAddress   Address `json:"toAddress"`
	Amount      float64 `json:"amount"`
	Timestamp   string  `json:"timestamp"`
}

// TimestampLayout matches the ISO-8601 form with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"
