// Package codec maps story selections to a secret and a secret to a fruit
// address using a fixed radix-16 positional encoding.
//
// Each catalog slot is one nibble, so only the first 16 entries of a catalog
// are addressable. The address lists the secret's base-16 digits most
// significant first: position 1 holds the 16^2 digit, position 3 the 16^0
// digit. Changing either rule breaks previously issued secrets.
package codec

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/model"
)

const (
	// Radix is the positional base; one digit per catalog.
	Radix = 16
	// MaxSecret is the exclusive upper bound of a valid secret.
	MaxSecret = Radix * Radix * Radix
)

var (
	ErrFruitCatalogTooSmall = errors.New("fruit catalog has fewer than 16 entries")
	ErrDigitOutOfRange      = errors.New("address digit has no fruit")
	ErrUnknownFruit         = errors.New("unknown fruit")
	ErrInvalidSecret        = errors.New("invalid secret")
)

// DeriveSecret packs three catalog indices into a secret. Callers must only
// pass indices that were found in their catalogs.
func DeriveSecret(animalIdx, placeIdx, objectIdx int) int {
	return animalIdx*Radix*Radix + placeIdx*Radix + objectIdx
}

// Digits splits a secret into its base-16 digits, most significant first.
func Digits(secret int) (i3, i2, i1 int) {
	i1 = secret % Radix
	i2 = (secret / Radix) % Radix
	i3 = (secret / (Radix * Radix)) % Radix
	return i3, i2, i1
}

// Compose is the inverse of Digits for secrets in [0, MaxSecret).
func Compose(i3, i2, i1 int) int {
	return i3*Radix*Radix + i2*Radix + i1
}

// DeriveAddress maps a secret to its fruit address.
func DeriveAddress(fruits catalog.Catalog, secret int) (model.Address, error) {
	if fruits.Len() < Radix {
		return model.Address{}, fmt.Errorf("%w: have %d", ErrFruitCatalogTooSmall, fruits.Len())
	}
	i3, i2, i1 := Digits(secret)
	var addr model.Address
	for pos, idx := range []int{i3, i2, i1} {
		f, ok := fruits.At(idx)
		if !ok {
			return model.Address{}, fmt.Errorf("%w: secret %d position %d index %d", ErrDigitOutOfRange, secret, pos+1, idx)
		}
		addr[pos] = f
	}
	return addr, nil
}

// ReconstructAddress resolves three stored fruit ids. All three must exist.
func ReconstructAddress(fruits catalog.Catalog, ids [3]string) (model.Address, error) {
	var addr model.Address
	for i, id := range ids {
		f, ok := fruits.FindByID(id)
		if !ok {
			return model.Address{}, fmt.Errorf("%w: %q", ErrUnknownFruit, id)
		}
		addr[i] = f
	}
	return addr, nil
}

// FormatSecret renders a secret the way it is persisted.
func FormatSecret(secret int) string {
	return strconv.Itoa(secret)
}

// ParseSecret parses a persisted secret.
func ParseSecret(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSecret, s)
	}
	return n, nil
}
