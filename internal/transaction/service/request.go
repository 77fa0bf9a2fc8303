package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/arot/internal/calculation"
	"github.com/smallbiznis/arot/internal/transaction/domain"
)

const (
	defaultFishCategory = "Standard"
	ponaCategory        = "Pona"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseDate accepts a calendar date or a full timestamp and keeps only the
// calendar date, in UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, domain.ErrInvalidDate
}

func normalizeType(t calculation.TransactionType) (calculation.TransactionType, error) {
	if t == "" {
		return calculation.TransactionTypeFish, nil
	}
	if !t.Valid() {
		return "", domain.ErrInvalidTransactionType
	}
	return t, nil
}

// maxInputAmount caps every quantity, rate, weight and paid amount a request
// may carry. It keeps line totals well inside calculation.MaxMoney.
var maxInputAmount = decimal.New(1, 12)

// validateAmounts rejects the inputs that would make a stored record
// meaningless. Shared by preview, create and update.
func validateAmounts(req domain.TransactionRequest) error {
	paid := []calculation.Number{req.PaidAmount, req.FarmerPaidAmount}
	for _, n := range paid {
		if n.Decimal().IsNegative() {
			return domain.ErrNegativePaidAmount
		}
	}
	if exceedsMax(paid...) {
		return domain.ErrAmountTooLarge
	}

	for _, it := range req.Items {
		if it.Rate.Decimal().IsNegative() || it.RatePerMon.Decimal().IsNegative() {
			return domain.ErrNegativeRate
		}
		if it.KachaWeight.Decimal().IsNegative() || it.PakaWeight.Decimal().IsNegative() {
			return domain.ErrNegativeWeight
		}
		if it.Quantity.Decimal().IsNegative() {
			return domain.ErrNegativeQuantity
		}
		if exceedsMax(it.Rate, it.RatePerMon, it.KachaWeight, it.PakaWeight, it.Quantity) {
			return domain.ErrAmountTooLarge
		}
	}
	return nil
}

func exceedsMax(values ...calculation.Number) bool {
	for _, n := range values {
		if n.Decimal().Abs().GreaterThan(maxInputAmount) {
			return true
		}
	}
	return false
}

type validated struct {
	date       time.Time
	farmerName string
	buyerName  string
}

func validateRecord(req domain.TransactionRequest) (validated, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return validated{}, err
	}
	farmer := strings.TrimSpace(req.FarmerName)
	if farmer == "" {
		return validated{}, domain.ErrInvalidFarmerName
	}
	buyer := strings.TrimSpace(req.BuyerName)
	if buyer == "" {
		return validated{}, domain.ErrInvalidBuyerName
	}
	if len(req.Items) == 0 {
		return validated{}, domain.ErrEmptyItems
	}
	for _, it := range req.Items {
		if strings.TrimSpace(it.FishType) == "" {
			return validated{}, domain.ErrInvalidFishType
		}
	}
	return validated{date: date, farmerName: farmer, buyerName: buyer}, nil
}

// toInput maps a request onto the engine input. A fish line with a raw weight
// but no net weight gets the net weight derived from the species deduction.
func toInput(txType calculation.TransactionType, req domain.TransactionRequest, settings calculation.Settings) calculation.Input {
	items := make([]calculation.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		it.FishType = strings.TrimSpace(it.FishType)
		it.FishCategory = strings.TrimSpace(it.FishCategory)

		if txType == calculation.TransactionTypePona {
			if it.FishCategory == "" {
				it.FishCategory = ponaCategory
			}
		} else {
			if it.FishCategory == "" {
				it.FishCategory = defaultFishCategory
			}
			if !it.PakaWeight.IsSet() && it.KachaWeight.Decimal().IsPositive() {
				it.PakaWeight = calculation.NumberFromDecimal(
					calculation.DerivePakaWeight(it.FishType, it.KachaWeight.Decimal(), settings),
				)
			}
		}
		items = append(items, it)
	}

	return calculation.Input{
		TransactionType:  txType,
		Items:            items,
		PaidAmount:       req.PaidAmount,
		FarmerPaidAmount: req.FarmerPaidAmount,
	}
}
