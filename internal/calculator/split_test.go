package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetly/internal/models"
)

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name          string
		amount        float64
		beneficiaries []string
		want          []float64
		wantErr       error
	}{
		{name: "even", amount: 300, beneficiaries: []string{"A", "B"}, want: []float64{150, 150}},
		{name: "leftover cents go first", amount: 100, beneficiaries: []string{"A", "B", "C"}, want: []float64{33.34, 33.33, 33.33}},
		{name: "single beneficiary takes all", amount: 19.99, beneficiaries: []string{"B"}, want: []float64{19.99}},
		{name: "duplicates counted once", amount: 10, beneficiaries: []string{"A", "A", "B"}, want: []float64{5, 5}},
		{name: "no beneficiaries", amount: 10, beneficiaries: nil, wantErr: ErrNoBeneficiaries},
		{name: "negative amount", amount: -1, beneficiaries: []string{"A"}, wantErr: ErrNegativeAmount},
		{name: "largest amount", amount: MaxAmount, beneficiaries: []string{"A", "B"}, want: []float64{MaxAmount / 2, MaxAmount / 2}},
		{name: "above the cent range", amount: 1e17, beneficiaries: []string{"A", "B", "C"}, wantErr: ErrAmountOutOfRange},
		{name: "infinite amount", amount: math.Inf(1), beneficiaries: []string{"A"}, wantErr: ErrAmountOutOfRange},
		{name: "NaN amount", amount: math.NaN(), beneficiaries: []string{"A"}, wantErr: ErrAmountOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := SplitEqually(tt.amount, tt.beneficiaries)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, splits, len(tt.want))

			var total float64
			for i, s := range splits {
				assert.InDelta(t, tt.want[i], s.ShareAmount, 1e-9)
				total += s.ShareAmount
			}
			assert.InDelta(t, tt.amount, total, 1e-9)
		})
	}
}

func TestValidateSplits(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		splits  []models.GroupExpenseSplit
		wantErr error
	}{
		{name: "exact", amount: 100, splits: []models.GroupExpenseSplit{split("A", 60), split("B", 40)}},
		{name: "partial", amount: 100, splits: []models.GroupExpenseSplit{split("A", 60)}},
		{name: "no splits", amount: 100},
		{name: "exceeds", amount: 100, splits: []models.GroupExpenseSplit{split("A", 60), split("B", 41)}, wantErr: ErrSplitsExceedTotal},
		{name: "negative share", amount: 100, splits: []models.GroupExpenseSplit{split("A", -5)}, wantErr: ErrNegativeAmount},
		{name: "infinite share", amount: 100, splits: []models.GroupExpenseSplit{split("A", math.Inf(1))}, wantErr: ErrAmountOutOfRange},
		{name: "NaN share", amount: 100, splits: []models.GroupExpenseSplit{split("A", math.NaN())}, wantErr: ErrAmountOutOfRange},
		{name: "infinite amount", amount: math.Inf(1), splits: []models.GroupExpenseSplit{split("A", 1)}, wantErr: ErrAmountOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplits(tt.amount, tt.splits)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
