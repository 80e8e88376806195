// backend/src/sampledata/generator.go
package sampledata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/pricedash/backend/src/models"
)

// Brands are the gift card brands the generator draws from.
var Brands = []string{
	"Amazon", "Walmart", "Target", "Best Buy", "Starbucks",
	"iTunes", "Google Play", "Nike", "Visa", "Mastercard",
}

// FaceValues are the card denominations the generator draws from.
var FaceValues = []int{25, 50, 100, 200, 500}

var brandDiscount = map[string]float64{
	"Amazon":      0.05,
	"Walmart":     0.08,
	"Target":      0.10,
	"Best Buy":    0.12,
	"Starbucks":   0.06,
	"iTunes":      0.15,
	"Google Play": 0.15,
	"Nike":        0.10,
	"Visa":        0.03,
	"Mastercard":  0.04,
}

// competitorDiscounts are the [min, max) discount ranges of each rival seller.
var competitorDiscounts = []struct {
	name     string
	min, max float64
}{
	{"CardCash", 0.03, 0.12},
	{"Raise", 0.05, 0.15},
	{"GiftCardGranny", 0.02, 0.10},
}

const historyWindowDays = 180

var (
	InventoryHeader  = []string{"gift_card_id", "gift_card_type", "face_value", "current_price", "acquisition_price", "days_in_inventory", "is_digital", "brand_popularity"}
	CompetitorHeader = []string{"gift_card_type", "face_value", "competitor_name", "competitor_price"}
	HistoricalHeader = []string{"gift_card_id", "product_type", "face_value", "sale_date", "price", "customer_rating", "days_to_expiry", "is_digital", "brand_popularity"}
)

// Generator produces reproducible sample uploads for each data type.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator seeds a generator. now anchors historical sale dates.
func NewGenerator(seed int64, now time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), now: now}
}

// Rows returns the header and n data rows for dataType.
func (g *Generator) Rows(dataType models.DataType, n int) ([]string, [][]string, error) {
	switch dataType {
	case models.DataTypeInventory:
		return InventoryHeader, g.inventory(n), nil
	case models.DataTypeCompetitor:
		return CompetitorHeader, g.competitor(n), nil
	case models.DataTypeHistorical:
		return HistoricalHeader, g.historical(n), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", models.ErrUnknownDataType, dataType)
	}
}

// WriteCSV writes a header plus n generated rows for dataType.
func (g *Generator) WriteCSV(w io.Writer, dataType models.DataType, n int) error {
	header, rows, err := g.Rows(dataType, n)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func (g *Generator) inventory(n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		brand := g.brand()
		face := g.faceValue()
		discount := brandDiscount[brand] + g.uniform(-0.02, 0.02)
		current := discountedPrice(face, discount)
		acquisition := current.Mul(decimal.RequireFromString("0.9")).Round(2)

		rows = append(rows, []string{
			fmt.Sprintf("GC-INV-%d", i+1),
			brand,
			strconv.Itoa(face),
			current.StringFixed(2),
			acquisition.StringFixed(2),
			strconv.Itoa(g.rng.Intn(61)),
			strconv.Itoa(g.rng.Intn(2)),
			strconv.Itoa(60 + g.rng.Intn(41)),
		})
	}
	return rows
}

func (g *Generator) competitor(n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		face := g.faceValue()
		rival := competitorDiscounts[g.rng.Intn(len(competitorDiscounts))]
		price := discountedPrice(face, g.uniform(rival.min, rival.max))
		rows = append(rows, []string{
			g.brand(),
			strconv.Itoa(face),
			rival.name,
			price.StringFixed(2),
		})
	}
	return rows
}

func (g *Generator) historical(n int) [][]string {
	start := g.now.AddDate(0, 0, -historyWindowDays)
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		brand := g.brand()
		face := g.faceValue()
		saleDate := start.AddDate(0, 0, g.rng.Intn(historyWindowDays+1))

		discount := brandDiscount[brand] + g.seasonalEffect(saleDate.Month())
		if wd := saleDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
			discount += g.uniform(0.01, 0.02)
		}
		discount = min(max(discount, 0.01), 0.25)

		rows = append(rows, []string{
			fmt.Sprintf("GC-%d", i+1),
			brand,
			strconv.Itoa(face),
			saleDate.Format("2006-01-02"),
			discountedPrice(face, discount).StringFixed(2),
			strconv.Itoa(3 + g.rng.Intn(3)),
			strconv.Itoa(90 + g.rng.Intn(641)),
			strconv.Itoa(g.rng.Intn(2)),
			strconv.Itoa(60 + g.rng.Intn(41)),
		})
	}
	return rows
}

// seasonalEffect raises discounts around the holidays and mid-year sales.
func (g *Generator) seasonalEffect(month time.Month) float64 {
	switch month {
	case time.November, time.December:
		return g.uniform(0.02, 0.05)
	case time.January, time.June, time.July:
		return g.uniform(0.01, 0.03)
	default:
		return g.uniform(-0.01, 0.01)
	}
}

func (g *Generator) brand() string {
	return Brands[g.rng.Intn(len(Brands))]
}

func (g *Generator) faceValue() int {
	return FaceValues[g.rng.Intn(len(FaceValues))]
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func discountedPrice(face int, discount float64) decimal.Decimal {
	return decimal.NewFromInt(int64(face)).Mul(decimal.NewFromFloat(1 - discount)).Round(2)
}
