package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLot(price int64, qty int64) PurchaseLot {
	return PurchaseLot{
		ID:        uuid.New(),
		Date:      time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		UnitPrice: decimal.NewFromInt(price),
		Quantity:  qty,
		Source:    "Amazon",
	}
}

func TestHolding_DerivedQuantitiesAndCost(t *testing.T) {
	h := Holding{
		ID:              uuid.New(),
		Name:            "Bundle Evolutions Prismatiques",
		Category:        CategoryBundle,
		CurrentEstimate: decimal.NewFromInt(240),
		Lots:            []PurchaseLot{testLot(100, 1), testLot(200, 1)},
	}

	assert.Equal(t, int64(2), h.TotalQuantity())
	assert.True(t, h.TotalCost().Equal(decimal.NewFromInt(300)))
	// averageCost = (100+200)/2 = 150
	assert.True(t, h.AverageCost().Equal(decimal.NewFromInt(150)))
	assert.Equal(t, int64(0), h.SoldQuantity())
	assert.Equal(t, int64(2), h.RemainingQuantity())
}

func TestHolding_AverageCostZeroQuantity(t *testing.T) {
	h := Holding{Name: "Empty", Lots: nil}

	// Defined as 0, never a division by zero
	assert.True(t, h.AverageCost().IsZero())
}

func TestHolding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
		wantErr error
	}{
		{
			name: "valid holding passes",
			holding: Holding{
				Name:            "ETB Phantasmal Flames",
				Category:        CategoryEliteTrainer,
				CurrentEstimate: decimal.NewFromInt(80),
				Lots:            []PurchaseLot{testLot(60, 2)},
			},
			wantErr: nil,
		},
		{
			name:    "empty name fails",
			holding: Holding{Lots: []PurchaseLot{testLot(60, 2)}},
			wantErr: ErrEmptyName,
		},
		{
			name:    "holding without lots fails",
			holding: Holding{Name: "ETB"},
			wantErr: ErrNoLots,
		},
		{
			name: "negative estimate fails",
			holding: Holding{
				Name:            "ETB",
				CurrentEstimate: decimal.NewFromInt(-1),
				Lots:            []PurchaseLot{testLot(60, 2)},
			},
			wantErr: ErrInvalidEstimate,
		},
		{
			name: "lot with zero quantity fails",
			holding: Holding{
				Name: "ETB",
				Lots: []PurchaseLot{testLot(60, 0)},
			},
			wantErr: ErrInvalidLot,
		},
		{
			name: "lot with zero price fails",
			holding: Holding{
				Name: "ETB",
				Lots: []PurchaseLot{testLot(0, 1)},
			},
			wantErr: ErrInvalidLot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.holding.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHolding_ValidateOversold(t *testing.T) {
	h := Holding{
		Name: "Bundle",
		Lots: []PurchaseLot{testLot(100, 1)},
		Sales: []SaleRecord{
			NewSaleRecord(time.Now(), decimal.NewFromInt(140), 2, PlatformDirect, decimal.Zero),
		},
	}

	err := h.Validate()
	require.Error(t, err)
	var oversell *OversellError
	assert.True(t, errors.As(err, &oversell))
}

func TestNewSaleRecord_FreezesAmounts(t *testing.T) {
	// gross = 140*1 = 140, fee = 140*0.13 = 18.2, net = 121.8
	sale := NewSaleRecord(time.Now(), decimal.NewFromInt(140), 1, PlatformEbay, decimal.NewFromFloat(0.13))

	assert.True(t, sale.Gross.Equal(decimal.NewFromInt(140)))
	assert.True(t, sale.Fee.Equal(decimal.NewFromFloat(18.2)))
	assert.True(t, sale.Net.Equal(decimal.NewFromFloat(121.8)))
}

func TestHolding_DeepCopyIsIndependent(t *testing.T) {
	target := decimal.NewFromInt(300)
	h := &Holding{
		ID:               uuid.New(),
		Name:             "UPC Charizard",
		Category:         CategoryUltraPremium,
		CurrentEstimate:  decimal.NewFromInt(250),
		Lots:             []PurchaseLot{testLot(120, 1)},
		TargetAlertPrice: &target,
	}

	cp := h.DeepCopy()
	cp.Lots = append(cp.Lots, testLot(130, 1))
	*cp.TargetAlertPrice = decimal.NewFromInt(999)

	assert.Len(t, h.Lots, 1)
	assert.True(t, h.TargetAlertPrice.Equal(decimal.NewFromInt(300)))
}
