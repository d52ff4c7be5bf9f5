package report

import "testing"

func TestCriticalDifferenceDiagram_GroupsCloseRanksTogether(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}
	ranks := []float64{1.0, 1.2, 1.3, 3.0}
	cd := 0.5

	diag, err := CriticalDifferenceDiagram(keys, ranks, cd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diag.Cliques) != 1 {
		t.Fatalf("expected exactly one clique (a,b,c), got %d: %+v", len(diag.Cliques), diag.Cliques)
	}
	if len(diag.Cliques[0].SolverIndices) != 3 {
		t.Errorf("expected 3 solvers in the clique, got %d", len(diag.Cliques[0].SolverIndices))
	}
}

func TestCriticalDifferenceDiagram_NoCliqueWhenAllSeparated(t *testing.T) {
	keys := []string{"a", "b", "c"}
	ranks := []float64{1.0, 5.0, 9.0}
	cd := 0.5

	diag, err := CriticalDifferenceDiagram(keys, ranks, cd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diag.Cliques) != 0 {
		t.Errorf("expected no cliques when every solver is well separated, got %+v", diag.Cliques)
	}
}

func TestCriticalDifferenceDiagram_MismatchedLengthsIsAnError(t *testing.T) {
	_, err := CriticalDifferenceDiagram([]string{"a"}, []float64{1, 2}, 0.5)
	if err == nil {
		t.Error("expected an error for mismatched slice lengths")
	}
}

func TestCriticalDifferenceDiagram_EmptyInputYieldsNoCliques(t *testing.T) {
	diag, err := CriticalDifferenceDiagram(nil, nil, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diag.Cliques) != 0 {
		t.Errorf("expected no cliques for empty input, got %+v", diag.Cliques)
	}
}
