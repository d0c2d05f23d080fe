package delivery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	s := Summary{MonthYear: "2025-08", TotalAmount: decimal.RequireFromString("150.5"), TripCount: 4}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"all placeholders", "{trip_count} trips in {month_year}: {total_amount}", "4 trips in 2025-08: 150.50"},
		{"repeated", "{month_year}/{month_year}", "2025-08/2025-08"},
		{"unknown left alone", "hello {name}", "hello {name}"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RenderTemplate(tt.tmpl, s))
		})
	}
}
