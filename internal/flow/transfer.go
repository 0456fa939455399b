package flow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/model"
)

// BalanceCap is the fixed banana balance every wallet may send from.
const BalanceCap = 1.0

// TransferRequest is the raw transfer form input.
type TransferRequest struct {
	To     [3]string // destination fruit ids
	Amount string
}

// TransferReason classifies a rejected transfer.
type TransferReason string

const (
	ReasonDestination TransferReason = "destination"
	ReasonAmount      TransferReason = "amount"
	ReasonBalance     TransferReason = "balance"
)

// TransferError is a user-facing rejection. The ledger is never touched.
type TransferError struct {
	Reason  TransferReason
	Message string
}

func (e *TransferError) Error() string { return e.Message }

// ValidateTransfer checks the form and resolves the destination address.
func ValidateTransfer(fruits catalog.Catalog, balanceCap float64, req TransferRequest) (model.Address, float64, error) {
	var to model.Address
	for i, id := range req.To {
		f, ok := fruits.FindByID(strings.TrimSpace(id))
		if !ok {
			return model.Address{}, 0, &TransferError{
				Reason:  ReasonDestination,
				Message: "Please select three fruits for the destination address.",
			}
		}
		to[i] = f
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(req.Amount), 64)
	if err != nil || math.IsNaN(amount) || amount <= 0 {
		return model.Address{}, 0, &TransferError{
			Reason:  ReasonAmount,
			Message: "Please enter a valid amount greater than zero.",
		}
	}

	if amount > balanceCap {
		return model.Address{}, 0, &TransferError{
			Reason:  ReasonBalance,
			Message: fmt.Sprintf("Amount exceeds your balance of %s 🍌.", FormatAmount(balanceCap)),
		}
	}

	return to, amount, nil
}

// FormatAmount renders an amount without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
