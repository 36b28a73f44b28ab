package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/graderly/grader-api/internal/models"
	"github.com/graderly/grader-api/internal/repository"
)

func testLogger() zerolog.Logger { return zerolog.Nop() }

func newTestValidator() *validator.Validate { return validator.New() }

func intPtr(v int) *int       { return &v }
func uintPtr(v uint) *uint    { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

type fakePaperRepo struct {
	papers map[uint]models.Paper
	nextID uint
}

func newFakePaperRepo() *fakePaperRepo {
	return &fakePaperRepo{papers: map[uint]models.Paper{}}
}

func (f *fakePaperRepo) List(ctx context.Context, filter repository.PageFilter) ([]models.Paper, error) {
	ids := make([]int, 0, len(f.papers))
	for id := range f.papers {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	papers := make([]models.Paper, 0, len(ids))
	for _, id := range ids {
		papers = append(papers, f.papers[uint(id)])
	}
	return papers, nil
}

func (f *fakePaperRepo) GetByID(ctx context.Context, id uint) (models.Paper, error) {
	paper, ok := f.papers[id]
	if !ok {
		return models.Paper{}, gorm.ErrRecordNotFound
	}
	return paper, nil
}

func (f *fakePaperRepo) Create(ctx context.Context, paper *models.Paper) error {
	f.nextID++
	paper.ID = f.nextID
	f.papers[paper.ID] = *paper
	return nil
}

func (f *fakePaperRepo) Update(ctx context.Context, paper *models.Paper) error {
	f.papers[paper.ID] = *paper
	return nil
}

func (f *fakePaperRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.papers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.papers, id)
	return nil
}

type fakeRubricRepo struct {
	rubrics map[uint]models.Rubric
	nextID  uint
}

func newFakeRubricRepo() *fakeRubricRepo {
	return &fakeRubricRepo{rubrics: map[uint]models.Rubric{}}
}

func (f *fakeRubricRepo) List(ctx context.Context, filter repository.PageFilter) ([]models.Rubric, error) {
	ids := make([]int, 0, len(f.rubrics))
	for id := range f.rubrics {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	rubrics := make([]models.Rubric, 0, len(ids))
	for _, id := range ids {
		rubrics = append(rubrics, f.rubrics[uint(id)])
	}
	return rubrics, nil
}

func (f *fakeRubricRepo) GetByID(ctx context.Context, id uint) (models.Rubric, error) {
	rubric, ok := f.rubrics[id]
	if !ok {
		return models.Rubric{}, gorm.ErrRecordNotFound
	}
	return rubric, nil
}

func (f *fakeRubricRepo) Create(ctx context.Context, rubric *models.Rubric) error {
	f.nextID++
	rubric.ID = f.nextID
	for i := range rubric.Criteria {
		f.nextID++
		rubric.Criteria[i].ID = f.nextID
		rubric.Criteria[i].RubricID = rubric.ID
	}
	f.rubrics[rubric.ID] = *rubric
	return nil
}

func (f *fakeRubricRepo) Update(ctx context.Context, rubric *models.Rubric) error {
	stored, ok := f.rubrics[rubric.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	criteria := stored.Criteria
	stored = *rubric
	stored.Criteria = criteria
	f.rubrics[rubric.ID] = stored
	return nil
}

func (f *fakeRubricRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.rubrics[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rubrics, id)
	return nil
}

func (f *fakeRubricRepo) GetCriterion(ctx context.Context, rubricID, criterionID uint) (models.Criterion, error) {
	rubric, ok := f.rubrics[rubricID]
	if !ok {
		return models.Criterion{}, gorm.ErrRecordNotFound
	}
	for _, criterion := range rubric.Criteria {
		if criterion.ID == criterionID {
			return criterion, nil
		}
	}
	return models.Criterion{}, gorm.ErrRecordNotFound
}

func (f *fakeRubricRepo) UpdateCriterion(ctx context.Context, criterion *models.Criterion) error {
	rubric, ok := f.rubrics[criterion.RubricID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range rubric.Criteria {
		if rubric.Criteria[i].ID == criterion.ID {
			rubric.Criteria[i] = *criterion
			f.rubrics[rubric.ID] = rubric
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRubricRepo) DeleteCriterion(ctx context.Context, rubricID, criterionID uint) error {
	rubric, ok := f.rubrics[rubricID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range rubric.Criteria {
		if rubric.Criteria[i].ID == criterionID {
			rubric.Criteria = append(rubric.Criteria[:i], rubric.Criteria[i+1:]...)
			f.rubrics[rubricID] = rubric
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRubricRepo) CountCriteria(ctx context.Context, rubricID uint) (int64, error) {
	rubric, ok := f.rubrics[rubricID]
	if !ok {
		return 0, nil
	}
	return int64(len(rubric.Criteria)), nil
}

type fakePromptRepo struct {
	prompts map[uint]models.Prompt
	nextID  uint
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{prompts: map[uint]models.Prompt{}}
}

func (f *fakePromptRepo) List(ctx context.Context, filter repository.PageFilter) ([]models.Prompt, error) {
	ids := make([]int, 0, len(f.prompts))
	for id := range f.prompts {
		ids = append(ids, int(id))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	prompts := make([]models.Prompt, 0, len(ids))
	for _, id := range ids {
		prompts = append(prompts, f.prompts[uint(id)])
	}
	return prompts, nil
}

func (f *fakePromptRepo) GetByID(ctx context.Context, id uint) (models.Prompt, error) {
	prompt, ok := f.prompts[id]
	if !ok {
		return models.Prompt{}, gorm.ErrRecordNotFound
	}
	return prompt, nil
}

func (f *fakePromptRepo) Oldest(ctx context.Context) (models.Prompt, error) {
	var oldest models.Prompt
	found := false
	for _, prompt := range f.prompts {
		if !found || prompt.ID < oldest.ID {
			oldest = prompt
			found = true
		}
	}
	if !found {
		return models.Prompt{}, gorm.ErrRecordNotFound
	}
	return oldest, nil
}

func (f *fakePromptRepo) HighestVersion(ctx context.Context) (int, error) {
	highest := 0
	for _, prompt := range f.prompts {
		if prompt.Version > highest {
			highest = prompt.Version
		}
	}
	return highest, nil
}

func (f *fakePromptRepo) deactivateExcept(id uint) {
	for key, prompt := range f.prompts {
		if key != id && prompt.IsActive {
			prompt.IsActive = false
			f.prompts[key] = prompt
		}
	}
}

func (f *fakePromptRepo) Create(ctx context.Context, prompt *models.Prompt) error {
	f.nextID++
	prompt.ID = f.nextID
	if prompt.IsActive {
		f.deactivateExcept(prompt.ID)
	}
	f.prompts[prompt.ID] = *prompt
	return nil
}

func (f *fakePromptRepo) Update(ctx context.Context, prompt *models.Prompt) error {
	if _, ok := f.prompts[prompt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if prompt.IsActive {
		f.deactivateExcept(prompt.ID)
	}
	f.prompts[prompt.ID] = *prompt
	return nil
}

func (f *fakePromptRepo) Activate(ctx context.Context, id uint) (models.Prompt, error) {
	prompt, ok := f.prompts[id]
	if !ok {
		return models.Prompt{}, gorm.ErrRecordNotFound
	}
	f.deactivateExcept(id)
	prompt.IsActive = true
	f.prompts[id] = prompt
	return prompt, nil
}

type fakeEvaluationRepo struct {
	evaluations map[uint]models.Evaluation
	prompts     *fakePromptRepo
	nextID      uint
}

func newFakeEvaluationRepo(prompts *fakePromptRepo) *fakeEvaluationRepo {
	return &fakeEvaluationRepo{evaluations: map[uint]models.Evaluation{}, prompts: prompts}
}

func (f *fakeEvaluationRepo) List(ctx context.Context, filter repository.PageFilter) ([]models.Evaluation, error) {
	ids := make([]int, 0, len(f.evaluations))
	for id := range f.evaluations {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	evaluations := make([]models.Evaluation, 0, len(ids))
	for _, id := range ids {
		evaluations = append(evaluations, f.evaluations[uint(id)])
	}
	return evaluations, nil
}

func (f *fakeEvaluationRepo) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	evaluation, ok := f.evaluations[id]
	if !ok {
		return models.Evaluation{}, gorm.ErrRecordNotFound
	}
	return evaluation, nil
}

func (f *fakeEvaluationRepo) CreateWithPrompt(ctx context.Context, evaluation *models.Evaluation, defaultPrompt *models.Prompt) error {
	if defaultPrompt != nil {
		if err := f.prompts.Create(ctx, defaultPrompt); err != nil {
			return err
		}
		evaluation.PromptID = defaultPrompt.ID
	}

	f.nextID++
	evaluation.ID = f.nextID
	f.evaluations[evaluation.ID] = *evaluation

	prompt, ok := f.prompts.prompts[evaluation.PromptID]
	if ok {
		prompt.TotalEvaluations++
		f.prompts.prompts[prompt.ID] = prompt
	}
	return nil
}

func (f *fakeEvaluationRepo) SetCorrectness(ctx context.Context, id uint, isCorrect bool) error {
	evaluation, ok := f.evaluations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	evaluation.IsCorrect = &isCorrect
	f.evaluations[id] = evaluation
	return nil
}

func (f *fakeEvaluationRepo) Stats(ctx context.Context) (repository.EvaluationStats, error) {
	var stats repository.EvaluationStats
	for _, evaluation := range f.evaluations {
		stats.Total++
		if evaluation.IsCorrect != nil {
			stats.Reviewed++
			if *evaluation.IsCorrect {
				stats.Correct++
			}
		}
	}
	return stats, nil
}

type fakeFeedbackRepo struct {
	entries     map[uint]models.FeedbackEntry
	evaluations *fakeEvaluationRepo
	nextID      uint
}

func newFakeFeedbackRepo(evaluations *fakeEvaluationRepo) *fakeFeedbackRepo {
	return &fakeFeedbackRepo{entries: map[uint]models.FeedbackEntry{}, evaluations: evaluations}
}

func (f *fakeFeedbackRepo) ListByEvaluation(ctx context.Context, evaluationID uint) ([]models.FeedbackEntry, error) {
	ids := make([]int, 0, len(f.entries))
	for id, entry := range f.entries {
		if entry.EvaluationID == evaluationID {
			ids = append(ids, int(id))
		}
	}
	sort.Ints(ids)
	entries := make([]models.FeedbackEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, f.entries[uint(id)])
	}
	return entries, nil
}

func (f *fakeFeedbackRepo) Upsert(ctx context.Context, entry *models.FeedbackEntry) error {
	for id, existing := range f.entries {
		if existing.EvaluationID != entry.EvaluationID {
			continue
		}
		sameCriterion := existing.CriterionID == nil && entry.CriterionID == nil ||
			existing.CriterionID != nil && entry.CriterionID != nil && *existing.CriterionID == *entry.CriterionID
		if sameCriterion {
			existing.ModelScore = entry.ModelScore
			existing.UserCorrectedScore = entry.UserCorrectedScore
			existing.UserExplanation = entry.UserExplanation
			f.entries[id] = existing
			*entry = existing
			return f.evaluations.SetCorrectness(ctx, entry.EvaluationID, false)
		}
	}

	f.nextID++
	entry.ID = f.nextID
	f.entries[entry.ID] = *entry
	return f.evaluations.SetCorrectness(ctx, entry.EvaluationID, false)
}
