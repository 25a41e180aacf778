package fees

import (
	"testing"

	"go.uber.org/zap"

	"campusgo/internal/modules/rates"
)

func TestServiceFee(t *testing.T) {
	p := &pipeline{category: rates.CategoryMail, cfg: testConfig(), logger: zap.NewNop()}

	tests := []struct {
		name      string
		base      string
		insured   bool
		declared  string
		signature bool
		packaging bool
		want      string
	}{
		// 10.00 x 0.1 = 1.00.
		{name: "percentage of base only", base: "10", want: "1"},
		// + 0.005 x 200 = 1.00 insurance.
		{name: "with insurance", base: "10", insured: true, declared: "200", want: "2"},
		{name: "insurance ignored without flag", base: "10", declared: "200", want: "1"},
		{name: "signature fee", base: "10", signature: true, want: "3"},
		{name: "packaging fee", base: "10", packaging: true, want: "2"},
		{name: "all options", base: "10", insured: true, declared: "200", signature: true, packaging: true, want: "5"},
		// 3.33 x 0.1 = 0.333 -> 0.33.
		{name: "rounds the percentage", base: "3.33", want: "0.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &testOrder{
				category:  rates.CategoryMail,
				insured:   tt.insured,
				signature: tt.signature,
				packaging: tt.packaging,
			}
			if tt.declared != "" {
				o.declared = dec(tt.declared)
			}
			got, err := p.serviceFee(o, dec(tt.base))
			if err != nil {
				t.Fatalf("serviceFee() error = %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("serviceFee() = %s, want %s", got, tt.want)
			}
		})
	}
}
