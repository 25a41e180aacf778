package fees

import (
	"testing"

	"go.uber.org/zap"

	"campusgo/internal/modules/rates"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name         string
		category     rates.Category
		total        string
		hasMerchant  bool
		wantDelivery string
		wantPlatform string
		wantMerchant string
	}{
		{
			name:     "mail split with merchant",
			category: rates.CategoryMail, total: "20", hasMerchant: true,
			wantDelivery: "16", wantPlatform: "2", wantMerchant: "2",
		},
		{
			// The absent merchant's 10% reverts to the platform; nothing
			// is dropped and the split still sums to the total.
			name:     "merchant share reverts to platform",
			category: rates.CategoryMail, total: "20", hasMerchant: false,
			wantDelivery: "16", wantPlatform: "4", wantMerchant: "0",
		},
		{
			name:     "shopping split",
			category: rates.CategoryShopping, total: "50", hasMerchant: true,
			wantDelivery: "35", wantPlatform: "5", wantMerchant: "10",
		},
		{
			// PURCHASE has no configured shares in the test table; the
			// 10/80/10 defaults apply.
			name:     "missing shares use defaults",
			category: rates.CategoryPurchase, total: "20", hasMerchant: true,
			wantDelivery: "16", wantPlatform: "2", wantMerchant: "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &pipeline{category: tt.category, cfg: testConfig(), logger: zap.NewNop()}
			got := p.distribute(dec(tt.total), tt.hasMerchant)

			if !got.DeliveryIncome.Amount.Equal(dec(tt.wantDelivery)) {
				t.Errorf("delivery income = %s, want %s", got.DeliveryIncome.Amount, tt.wantDelivery)
			}
			if !got.PlatformIncome.Amount.Equal(dec(tt.wantPlatform)) {
				t.Errorf("platform income = %s, want %s", got.PlatformIncome.Amount, tt.wantPlatform)
			}
			if !got.MerchantIncome.Amount.Equal(dec(tt.wantMerchant)) {
				t.Errorf("merchant income = %s, want %s", got.MerchantIncome.Amount, tt.wantMerchant)
			}
		})
	}
}

func TestDistributeConservation(t *testing.T) {
	// The split must reconcile to the total within a cent for every
	// category, merchant or not, including awkward totals.
	totals := []string{"20", "19.99", "0.01", "7.77", "123.45"}
	tolerance := dec("0.01")

	for _, cat := range rates.Categories() {
		for _, hasMerchant := range []bool{true, false} {
			for _, total := range totals {
				p := &pipeline{category: cat, cfg: testConfig(), logger: zap.NewNop()}
				got := p.distribute(dec(total), hasMerchant)

				sum := got.DeliveryIncome.Amount.
					Add(got.PlatformIncome.Amount).
					Add(got.MerchantIncome.Amount)
				diff := sum.Sub(dec(total)).Abs()
				if diff.GreaterThan(tolerance) {
					t.Errorf("%s merchant=%v total=%s: shares sum to %s (off by %s)",
						cat, hasMerchant, total, sum, diff)
				}
			}
		}
	}
}
