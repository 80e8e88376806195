// backend/src/processors/inventory_processor.go
package processors

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/username/pricedash/backend/src/models"
)

const (
	FieldFaceValue       = "face_value"
	FieldCurrentPrice    = "current_price"
	FieldDaysInInventory = "days_in_inventory"

	FieldOptimizedPrice     = "optimized_price"
	FieldPriceChange        = "price_change"
	FieldDiscountPercentage = "discount_percentage"
	FieldConfidence         = "confidence"

	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"

	// priceChangeUndefined is emitted when current_price is zero.
	priceChangeUndefined = "NaN"
)

var (
	baseDiscount  = decimal.RequireFromString("0.15")
	agedStep      = decimal.RequireFromString("0.05")
	freshStep     = decimal.RequireFromString("0.03")
	highValueStep = decimal.RequireFromString("0.02")
	minDiscount   = decimal.RequireFromString("0.05")
	maxDiscount   = decimal.RequireFromString("0.25")
)

const (
	agedAfterDays   = 30
	freshBeforeDays = 7
	highValueAbove  = 100
)

type inventoryProcessorImpl struct{}

// NewInventoryProcessor returns the inventory price optimiser.
func NewInventoryProcessor() RecordProcessor {
	return &inventoryProcessorImpl{}
}

func (p *inventoryProcessorImpl) Process(records []*models.Record) ([]*models.DerivedRecord, []models.RecordWarning) {
	derived := make([]*models.DerivedRecord, 0, len(records))
	var warnings []models.RecordWarning
	for i, rec := range records {
		out, warn := OptimizePrice(rec)
		if warn != "" {
			warnings = append(warnings, models.RecordWarning{Row: i, Field: FieldPriceChange, Message: warn})
		}
		derived = append(derived, out)
	}
	return derived, warnings
}

// Discount returns the clamped discount rate for a card's face value and age.
func Discount(faceValue, daysInInventory float64) decimal.Decimal {
	discount := baseDiscount
	if daysInInventory > agedAfterDays {
		discount = discount.Add(agedStep)
	} else if daysInInventory < freshBeforeDays {
		discount = discount.Sub(freshStep)
	}
	if faceValue > highValueAbove {
		discount = discount.Add(highValueStep)
	}
	return decimal.Max(minDiscount, decimal.Min(maxDiscount, discount))
}

// Confidence grades a recommendation by inventory age. Ages between the
// Low and High bands fall through to Medium.
func Confidence(daysInInventory float64) string {
	if daysInInventory < 3 || daysInInventory > 60 {
		return ConfidenceLow
	} else if daysInInventory >= 7 && daysInInventory <= 30 {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// OptimizePrice derives the optimised price for one inventory record. The
// returned warning is non-empty when price_change could not be computed.
func OptimizePrice(rec *models.Record) (*models.DerivedRecord, string) {
	faceValue := rec.Float(FieldFaceValue)
	currentPrice := rec.Float(FieldCurrentPrice)
	days := rec.Float(FieldDaysInInventory)

	discount := Discount(faceValue, days)
	optimized := decFromFloat(faceValue).Mul(decOne.Sub(discount))

	out := rec.Clone()
	out.Set(FieldOptimizedPrice, money(optimized))

	var warning string
	if currentPrice == 0 {
		out.Set(FieldPriceChange, priceChangeUndefined)
		warning = fmt.Sprintf("%v: current_price is zero, price change is undefined", models.ErrCalculation)
	} else {
		current := decFromFloat(currentPrice)
		change := optimized.Sub(current).Div(current).Mul(decHundred)
		out.Set(FieldPriceChange, money(change))
	}

	out.Set(FieldDiscountPercentage, percent(discount))
	out.Set(FieldConfidence, Confidence(days))
	return out, warning
}
