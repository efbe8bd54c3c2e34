package services

import (
	"context"
	"log"

	"finance-backend/internal/cache"
	"finance-backend/internal/classifier"
	"finance-backend/internal/metrics"
	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
)

// CategorizationService runs idempotent batch classification of uncategorized
// ledger transactions against an external classifier.
type CategorizationService struct {
	TxnRepo      *repositories.TransactionRepository
	CategoryRepo *repositories.CategoryRepository
	Classifier   classifier.Classifier
}

func NewCategorizationService(txnRepo *repositories.TransactionRepository, categoryRepo *repositories.CategoryRepository, cls classifier.Classifier) *CategorizationService {
	return &CategorizationService{TxnRepo: txnRepo, CategoryRepo: categoryRepo, Classifier: cls}
}

// RunBatch classifies the requested transactions and persists the resulting
// assignments in a single all-or-nothing write. Already-categorized rows are
// skipped before the classifier is called, so re-running a batch after a
// partial failure never reassigns anything.
func (s *CategorizationService) RunBatch(ctx context.Context, orgID int64, req *models.CategorizeBatchRequest) (*models.CategorizeBatchResult, error) {
	if s.Classifier == nil {
		return nil, models.ErrClassifierUnavailable
	}

	candidates, err := s.candidates(ctx, orgID, req.TransactionIDs)
	if err != nil {
		return nil, err
	}
	result := &models.CategorizeBatchResult{
		Considered:  len(candidates),
		Assignments: map[int64]string{},
	}
	if len(candidates) == 0 {
		return result, nil
	}

	categories, err := s.allowedCategories(ctx, orgID, req.CategoryNames)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, models.NewValidationError("category_names", "no matching categories")
	}

	inputs := make([]classifier.TransactionInput, 0, len(candidates))
	for _, t := range candidates {
		inputs = append(inputs, classifier.TransactionInput{
			ID:          t.ID,
			Description: t.Description,
			Amount:      t.Amount,
			TxnType:     string(t.Type),
			TxnDate:     t.Date.Format("2006-01-02"),
		})
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}

	suggestions, err := s.Classifier.ClassifyBatch(ctx, inputs, names)
	if err != nil {
		metrics.ClassifierCalls.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ClassifierCalls.WithLabelValues("ok").Inc()

	plan, named := PlanAssignments(candidates, suggestions, categories)
	result.Assigned = len(plan)
	result.Skipped = result.Considered - result.Assigned
	result.Assignments = named

	if len(plan) == 0 {
		return result, nil
	}
	if err := s.TxnRepo.SetCategoriesBatch(ctx, orgID, plan); err != nil {
		return nil, err
	}
	cache.InvalidateOrg(ctx, orgID)
	log.Printf("[Categorization] org=%d assigned=%d skipped=%d", orgID, result.Assigned, result.Skipped)
	return result, nil
}

// candidates resolves the uncategorized working set. Explicit IDs narrow it;
// rows that already carry a category fall out here.
func (s *CategorizationService) candidates(ctx context.Context, orgID int64, ids []int64) ([]models.Transaction, error) {
	if len(ids) > 0 {
		txns, err := s.TxnRepo.ListByIDs(ctx, orgID, ids)
		if err != nil {
			return nil, err
		}
		uncategorized := txns[:0]
		for _, t := range txns {
			if t.CategoryID == nil {
				uncategorized = append(uncategorized, t)
			}
		}
		return uncategorized, nil
	}
	return collectUncategorized(ctx, s.TxnRepo, orgID)
}

const candidatePageSize = 500

// txnLister is the one repository method the uncategorized scan needs.
type txnLister interface {
	List(ctx context.Context, orgID int64, filter *models.TransactionFilter) ([]models.Transaction, error)
}

// collectUncategorized pages through the whole uncategorized set, so tenants
// with more rows than one page still get every candidate into the batch.
func collectUncategorized(ctx context.Context, repo txnLister, orgID int64) ([]models.Transaction, error) {
	var all []models.Transaction
	for offset := 0; ; offset += candidatePageSize {
		page, err := repo.List(ctx, orgID, &models.TransactionFilter{
			Uncategorized: true,
			Limit:         candidatePageSize,
			Offset:        offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < candidatePageSize {
			return all, nil
		}
	}
}

func (s *CategorizationService) allowedCategories(ctx context.Context, orgID int64, names []string) (map[string]models.Category, error) {
	if len(names) > 0 {
		return s.CategoryRepo.GetByNames(ctx, orgID, names)
	}
	all, err := s.CategoryRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]models.Category, len(all))
	for _, c := range all {
		byName[c.Name] = c
	}
	return byName, nil
}

// PlanAssignments maps classifier suggestions onto concrete category
// assignments. A suggestion is dropped when it names no allowed category,
// targets an id outside the candidate set, or is empty. Pure: given the same
// inputs it always plans the same writes.
func PlanAssignments(candidates []models.Transaction, suggestions []classifier.Suggestion, categories map[string]models.Category) (map[int64]int64, map[int64]string) {
	candidateSet := make(map[int64]bool, len(candidates))
	for _, t := range candidates {
		candidateSet[t.ID] = true
	}

	plan := make(map[int64]int64)
	named := make(map[int64]string)
	for _, sug := range suggestions {
		if sug.Category == "" || !candidateSet[sug.ID] {
			continue
		}
		cat, ok := categories[sug.Category]
		if !ok {
			continue
		}
		plan[sug.ID] = cat.ID
		named[sug.ID] = cat.Name
	}
	return plan, named
}
