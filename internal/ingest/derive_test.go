// backend-go/internal/ingest/derive_test.go
package ingest

import (
	"reflect"
	"testing"

	"github.com/bayidash/backend-go/internal/domain"
)

func TestGrowthPercent(t *testing.T) {
	cases := []struct {
		name        string
		curr, prior float64
		want        float64
	}{
		{"half again", 150, 100, 50},
		{"decline", 75, 100, -25},
		{"zero prior", 500, 0, 0},
		{"negative prior", 500, -10, 0},
		{"flat", 100, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GrowthPercent(tc.curr, tc.prior); got != tc.want {
				t.Errorf("GrowthPercent(%v, %v) = %v, want %v", tc.curr, tc.prior, got, tc.want)
			}
		})
	}
}

func TestDebtLabel(t *testing.T) {
	cases := []struct {
		balance float64
		want    string
	}{
		{0, domain.DebtNone},
		{-150.5, domain.DebtNone},
		{12345.64, "12,345.6 TL"},
		{999, "999.0 TL"},
		{1000, "1,000.0 TL"},
		{1234567.89, "1,234,567.9 TL"},
	}
	for _, tc := range cases {
		if got := DebtLabel(tc.balance); got != tc.want {
			t.Errorf("DebtLabel(%v) = %q, want %q", tc.balance, got, tc.want)
		}
	}
}

func TestChannelOf(t *testing.T) {
	cases := []struct {
		typeCode string
		want     string
	}{
		{"08ASKERI", domain.ChannelMilitary},
		{"09CEZA", domain.ChannelPrisonCanteen},
		{"10ZINCIR", domain.ChannelLocalChain},
		{"11AKARYAKIT", domain.ChannelFuelStation},
		{"01BAKKAL", domain.ChannelTraditional},
		{"02BUFE", domain.ChannelTraditional},
		{"03MARKET", domain.ChannelGeneral},
		{"07KURUYEMIS", domain.ChannelGeneral},
		{" 08ASK", domain.ChannelMilitary},
		{"99ZZZ", domain.ChannelUnclassified},
		{"", domain.ChannelUnclassified},
	}
	for _, tc := range cases {
		if got := ChannelOf(tc.typeCode); got != tc.want {
			t.Errorf("ChannelOf(%q) = %q, want %q", tc.typeCode, got, tc.want)
		}
	}
}

func TestChannelOfOrderMatters(t *testing.T) {
	// "10" must win over "01" even though both could prefix-match a
	// hypothetical "10..." code under a careless contains check.
	if got := ChannelOf("10X"); got != domain.ChannelLocalChain {
		t.Fatalf("ChannelOf(\"10X\") = %q, want %q", got, domain.ChannelLocalChain)
	}
}

func TestVisitDays(t *testing.T) {
	cases := []struct {
		name  string
		flags [7]float64
		want  []string
	}{
		{"mon thu", [7]float64{1, 0, 0, 1, 0, 0, 0}, []string{"Monday", "Thursday"}},
		{"none", [7]float64{}, []string{}},
		{"all", [7]float64{1, 1, 1, 1, 1, 1, 1},
			[]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}},
		{"only exact ones count", [7]float64{2, 0.5, 1, 0, 0, 0, 0}, []string{"Wednesday"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := VisitDays(tc.flags); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("VisitDays(%v) = %v, want %v", tc.flags, got, tc.want)
			}
		})
	}
}
