package units

import (
	"fmt"
	"testing"
)

func TestKelvinToCelsius(t *testing.T) {
	tests := []struct {
		kelvin float64
		want   string
	}{
		{273.15, "0.00"},
		{373.15, "100.00"},
		{283.15, "10.00"},
		{0, "-273.15"},
		{293.606, "20.46"},
	}
	for _, tt := range tests {
		got := fmt.Sprintf("%.2f", KelvinToCelsius(tt.kelvin))
		if got != tt.want {
			t.Errorf("KelvinToCelsius(%v) = %s, want %s", tt.kelvin, got, tt.want)
		}
	}
}

func TestKelvinToCelsius_FreezingIsExactlyZero(t *testing.T) {
	if got := KelvinToCelsius(273.15); got != 0 {
		t.Errorf("KelvinToCelsius(273.15) = %v, want 0", got)
	}
}
