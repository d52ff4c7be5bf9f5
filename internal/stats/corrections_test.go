package stats

import (
	"math"
	"testing"
)

func TestApplyCorrection_BonferroniScalesByCount(t *testing.T) {
	pairs := []PostHocPair{
		{I: 0, J: 1, PValue: 0.01},
		{I: 0, J: 2, PValue: 0.02},
		{I: 1, J: 2, PValue: 0.20},
	}
	out := ApplyCorrection(pairs, Bonferroni, 0.05)

	if got := out[0].AdjustedP; got != 0.03 {
		t.Errorf("expected 0.01*3=0.03, got %v", got)
	}
	if got := out[2].AdjustedP; math.Abs(got-0.60) > 1e-12 {
		t.Errorf("expected 0.20*3=0.60, got %v", got)
	}
	if !out[0].Significant {
		t.Errorf("expected pair 0 significant at alpha=0.05 after correction")
	}
	if out[2].Significant {
		t.Errorf("expected pair 2 not significant at alpha=0.05 after correction")
	}
}

func TestApplyCorrection_HolmIsMonotonicAndNeverExceedsBonferroni(t *testing.T) {
	pairs := []PostHocPair{
		{PValue: 0.01},
		{PValue: 0.02},
		{PValue: 0.03},
	}
	holm := ApplyCorrection(pairs, Holm, 0.05)
	bonf := ApplyCorrection(pairs, Bonferroni, 0.05)

	for i := range holm {
		if holm[i].AdjustedP > bonf[i].AdjustedP+1e-9 {
			t.Errorf("pair %d: Holm-adjusted p (%v) exceeded Bonferroni (%v)", i, holm[i].AdjustedP, bonf[i].AdjustedP)
		}
	}
}

func TestApplyCorrection_BenjaminiHochbergCapsAtOne(t *testing.T) {
	pairs := []PostHocPair{
		{PValue: 0.9},
		{PValue: 0.95},
	}
	out := ApplyCorrection(pairs, BenjaminiHochberg, 0.05)
	for _, p := range out {
		if p.AdjustedP > 1 {
			t.Errorf("adjusted p exceeded 1: %v", p.AdjustedP)
		}
	}
}

func TestApplyCorrection_EmptyInputYieldsEmptySlice(t *testing.T) {
	out := ApplyCorrection(nil, Bonferroni, 0.05)
	if len(out) != 0 {
		t.Errorf("expected empty output for empty input, got %v", out)
	}
}

func TestApplyCorrection_DoesNotMutateInput(t *testing.T) {
	pairs := []PostHocPair{{PValue: 0.01}}
	_ = ApplyCorrection(pairs, Bonferroni, 0.05)
	if pairs[0].AdjustedP != 0 {
		t.Errorf("expected input slice left untouched, got %+v", pairs[0])
	}
}
