package main

import (
	"errors"
	"testing"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/config"
	"github.com/skinarb/skinarb/internal/profit"
)

func TestSplitCSVTrimsAndDropsEmpty(t *testing.T) {
	got := splitCSV(" waxpeer, skinport ,, bitskins")
	want := []string{"waxpeer", "skinport", "bitskins"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSplitCSVSingleGroupName(t *testing.T) {
	got := splitCSV("all")
	if len(got) != 1 || got[0] != "all" {
		t.Fatalf("expected a single-element [\"all\"], got %v", got)
	}
}

func TestFilterByPercentageZeroReturnsAll(t *testing.T) {
	opps := []profit.Opportunity{{ItemName: "a", ProfitPercentage: 0.05}, {ItemName: "b", ProfitPercentage: 0.40}}
	got := filterByPercentage(opps, 0)
	if len(got) != 2 {
		t.Fatalf("expected both opportunities retained, got %d", len(got))
	}
}

func TestFilterByPercentageNarrows(t *testing.T) {
	opps := []profit.Opportunity{{ItemName: "a", ProfitPercentage: 0.05}, {ItemName: "b", ProfitPercentage: 0.40}}
	got := filterByPercentage(opps, 0.10)
	if len(got) != 1 || got[0].ItemName != "b" {
		t.Fatalf("expected only the 40%% opportunity to survive, got %+v", got)
	}
}

func TestExitCodeForConfigErrorIsTwo(t *testing.T) {
	err := apperrors.New(apperrors.KindConfig, "", "bad selection", nil)
	if code := exitCodeFor(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestExitCodeForNetworkErrorIsFour(t *testing.T) {
	err := apperrors.New(apperrors.KindNetwork, "waxpeer", "timed out", nil)
	if code := exitCodeFor(err); code != 4 {
		t.Fatalf("expected exit code 4, got %d", code)
	}
}

func TestExitCodeForPlainErrorIsFour(t *testing.T) {
	if code := exitCodeFor(errors.New("boom")); code != 4 {
		t.Fatalf("expected exit code 4 for an unclassified error, got %d", code)
	}
}

func TestResolveFiltersPresetOverridesNumericThresholds(t *testing.T) {
	c := &core{filters: &config.SearchFiltersConfig{
		Presets: map[string]config.SearchFilterPreset{
			"high-value": {MinProfitPercentage: 0.25, MinPrice: 50},
		},
	}}
	opts := runOptions{preset: "high-value", minProfitPct: 0.10, minPrice: 1.0, mode: "complete"}

	f := resolveFilters(c, opts)

	if f.Preset == nil {
		t.Fatal("expected the preset to be resolved")
	}
	if f.Preset.MinProfitPercentage != 0.25 || f.Preset.MinPrice != 50 {
		t.Fatalf("unexpected preset values: %+v", f.Preset)
	}
	if f.MinProfitPercentage != 0.10 {
		t.Fatalf("expected the numeric threshold to survive alongside the preset, got %v", f.MinProfitPercentage)
	}
}

func TestResolveFiltersUnknownPresetFallsBackToNumeric(t *testing.T) {
	c := &core{filters: &config.SearchFiltersConfig{Presets: map[string]config.SearchFilterPreset{}}}
	opts := runOptions{preset: "missing", minProfitPct: 0.15, minPrice: 2.0, mode: "fast"}

	f := resolveFilters(c, opts)

	if f.Preset != nil {
		t.Fatalf("expected no preset to resolve, got %+v", f.Preset)
	}
	if f.MinProfitPercentage != 0.15 || f.MinPrice != 2.0 {
		t.Fatalf("unexpected numeric thresholds: %+v", f)
	}
}
