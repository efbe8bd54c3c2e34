package services

import (
	"context"
	"testing"

	"finance-backend/internal/classifier"
	"finance-backend/internal/models"
)

// pagedLister serves a fixed uncategorized set one page at a time and records
// the offsets it was asked for.
type pagedLister struct {
	txns    []models.Transaction
	offsets []int
}

func (l *pagedLister) List(_ context.Context, _ int64, filter *models.TransactionFilter) ([]models.Transaction, error) {
	l.offsets = append(l.offsets, filter.Offset)
	if filter.Offset >= len(l.txns) {
		return nil, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(l.txns) {
		end = len(l.txns)
	}
	return l.txns[filter.Offset:end], nil
}

func TestCollectUncategorizedPagesThroughAllCandidates(t *testing.T) {
	total := 2*candidatePageSize + 3
	lister := &pagedLister{txns: make([]models.Transaction, total)}
	for i := range lister.txns {
		lister.txns[i].ID = int64(i + 1)
	}

	got, err := collectUncategorized(context.Background(), lister, 1)
	if err != nil {
		t.Fatalf("collectUncategorized: %v", err)
	}
	if len(got) != total {
		t.Fatalf("collected %d transactions, want %d", len(got), total)
	}
	if got[total-1].ID != int64(total) {
		t.Errorf("last transaction ID = %d, want %d", got[total-1].ID, total)
	}
	wantOffsets := []int{0, candidatePageSize, 2 * candidatePageSize}
	if len(lister.offsets) != len(wantOffsets) {
		t.Fatalf("requested offsets %v, want %v", lister.offsets, wantOffsets)
	}
	for i, off := range wantOffsets {
		if lister.offsets[i] != off {
			t.Errorf("page %d requested offset %d, want %d", i, lister.offsets[i], off)
		}
	}
}

func TestCollectUncategorizedShortFirstPage(t *testing.T) {
	lister := &pagedLister{txns: make([]models.Transaction, 12)}
	got, err := collectUncategorized(context.Background(), lister, 1)
	if err != nil {
		t.Fatalf("collectUncategorized: %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("collected %d transactions, want 12", len(got))
	}
	if len(lister.offsets) != 1 {
		t.Errorf("a short first page must stop the scan, requested offsets %v", lister.offsets)
	}
}

func TestPlanAssignments(t *testing.T) {
	candidates := []models.Transaction{
		{ID: 1, Description: "AWS invoice"},
		{ID: 2, Description: "Client retainer"},
		{ID: 3, Description: "Office rent"},
	}
	categories := map[string]models.Category{
		"Software": {ID: 101, Name: "Software"},
		"Sales":    {ID: 102, Name: "Sales"},
	}
	suggestions := []classifier.Suggestion{
		{ID: 1, Category: "Software"},
		{ID: 2, Category: "Sales"},
		{ID: 3, Category: "Groceries"}, // not an allowed category
		{ID: 4, Category: "Software"},  // not a candidate
		{ID: 2, Category: ""},          // empty suggestion overwrites nothing
	}

	plan, named := PlanAssignments(candidates, suggestions, categories)

	if len(plan) != 2 {
		t.Fatalf("planned %d assignments, want 2", len(plan))
	}
	if plan[1] != 101 || plan[2] != 102 {
		t.Errorf("plan = %v, want {1:101 2:102}", plan)
	}
	if named[1] != "Software" || named[2] != "Sales" {
		t.Errorf("named = %v, want {1:Software 2:Sales}", named)
	}
	if _, ok := plan[3]; ok {
		t.Error("suggestion with unknown category must be dropped")
	}
	if _, ok := plan[4]; ok {
		t.Error("suggestion outside the candidate set must be dropped")
	}
}

func TestPlanAssignmentsDeterministic(t *testing.T) {
	candidates := []models.Transaction{{ID: 1}, {ID: 2}}
	categories := map[string]models.Category{"Rent": {ID: 5, Name: "Rent"}}
	suggestions := []classifier.Suggestion{
		{ID: 1, Category: "Rent"},
		{ID: 2, Category: "Rent"},
	}

	first, _ := PlanAssignments(candidates, suggestions, categories)
	second, _ := PlanAssignments(candidates, suggestions, categories)
	if len(first) != len(second) {
		t.Fatalf("plans differ in size: %d vs %d", len(first), len(second))
	}
	for id, cat := range first {
		if second[id] != cat {
			t.Errorf("plan for %d differs: %d vs %d", id, cat, second[id])
		}
	}
}

func TestPlanAssignmentsEmptyInputs(t *testing.T) {
	plan, named := PlanAssignments(nil, nil, nil)
	if len(plan) != 0 || len(named) != 0 {
		t.Errorf("expected empty plan, got %v / %v", plan, named)
	}
}
