package engine

import (
	"math"
	"testing"
)

func TestRecordValidate(t *testing.T) {
	ok := Record{SalesAmount: 0, BoxesShipped: 0}
	if err := ok.Validate(); err != nil {
		t.Errorf("zero measures should be valid: %v", err)
	}

	for name, r := range map[string]Record{
		"negative amount": {SalesAmount: -1, BoxesShipped: 1},
		"negative boxes":  {SalesAmount: 1, BoxesShipped: -1},
		"NaN amount":      {SalesAmount: math.NaN(), BoxesShipped: 1},
		"infinite amount": {SalesAmount: math.Inf(1), BoxesShipped: 1},
	} {
		if err := r.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
