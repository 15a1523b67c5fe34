package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	commitmentRepo "brightpath/database/repository/commitment"
	recurrenceRepo "brightpath/database/repository/recurrence"
	"brightpath/models"
	"brightpath/utils"
)

// DefaultHorizonMonths is the rolling materialization window for weekly rules.
const DefaultHorizonMonths = 3

// RecurrenceEngine owns the lifecycle of recurring session series: creating
// rules, materializing occurrences over a rolling horizon, and propagating
// edits and cancellations to one occurrence or to all future ones. Every
// future/past cutoff is the caller-supplied today key; the engine never reads
// a clock.
type RecurrenceEngine interface {
	Create(ctx context.Context, in CreateRuleInput, todayKey string) (*models.RecurrenceRule, []models.Commitment, error)
	Materialize(ctx context.Context, ruleID, todayKey string) ([]models.Commitment, error)
	EditThisOccurrence(ctx context.Context, commitmentID string, patch OccurrencePatch) (*models.Commitment, error)
	EditAllFuture(ctx context.Context, ruleID string, patch OccurrencePatch, todayKey string) (int, error)
	DeleteThisOccurrence(ctx context.Context, commitmentID string) error
	DeleteAllFuture(ctx context.Context, ruleID, todayKey string) (int, error)
}

// DefaultRecurrenceEngine is the production implementation.
type DefaultRecurrenceEngine struct {
	Rules         recurrenceRepo.RuleRepository
	Commitments   commitmentRepo.CommitmentRepository
	HorizonMonths int // 0 means DefaultHorizonMonths
}

// CreateRuleInput describes a new weekly-repeating session.
type CreateRuleInput struct {
	LocationID      string       `json:"locationId"`
	DayOfWeek       time.Weekday `json:"dayOfWeek"`
	Time            int          `json:"time"`
	DurationMinutes int          `json:"durationMinutes"`
	StartDate       string       `json:"startDate"`
	StudentName     string       `json:"studentName,omitempty"`
	ServiceName     string       `json:"serviceName,omitempty"`
}

// OccurrencePatch carries the mutable fields of an edit. Nil fields are left
// untouched. Date applies only to single-occurrence edits; series edits keep
// each occurrence on its materialized date.
type OccurrencePatch struct {
	Date            *string `json:"date,omitempty"`
	Time            *int    `json:"time,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	StudentName     *string `json:"studentName,omitempty"`
	ServiceName     *string `json:"serviceName,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

func (p OccurrencePatch) applyToCommitment(c *models.Commitment) {
	if p.Date != nil {
		c.Date = *p.Date
	}
	if p.Time != nil {
		c.Time = *p.Time
	}
	if p.DurationMinutes != nil {
		c.DurationMinutes = *p.DurationMinutes
	}
	if p.StudentName != nil {
		c.StudentName = *p.StudentName
	}
	if p.ServiceName != nil {
		c.ServiceName = *p.ServiceName
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
}

func (p OccurrencePatch) applyToRule(r *models.RecurrenceRule) {
	if p.Time != nil {
		r.Time = *p.Time
	}
	if p.DurationMinutes != nil {
		r.DurationMinutes = *p.DurationMinutes
	}
	if p.StudentName != nil {
		r.StudentName = *p.StudentName
	}
	if p.ServiceName != nil {
		r.ServiceName = *p.ServiceName
	}
}

func (e *DefaultRecurrenceEngine) horizon() int {
	if e.HorizonMonths > 0 {
		return e.HorizonMonths
	}
	return DefaultHorizonMonths
}

func validateRuleInput(in CreateRuleInput) error {
	if in.LocationID == "" {
		return fmt.Errorf("locationId is required")
	}
	if in.DurationMinutes <= 0 {
		return fmt.Errorf("durationMinutes must be positive")
	}
	if in.Time < 0 || in.Time+in.DurationMinutes > 24*60 {
		return fmt.Errorf("session [%d, %d) must fall within one day", in.Time, in.Time+in.DurationMinutes)
	}
	if _, err := ParseDateKey(in.StartDate); err != nil {
		return err
	}
	return nil
}

// materializeDates lists every calendar date the rule should occupy within the
// horizon: the first date on/after startDate matching the rule's weekday, then
// +7 days each step. The +7 stepping is immune to variable month lengths.
// The horizon end rolls forward with todayKey, so sweeps long after startDate
// still keep horizonMonths of future occurrences on the books. Dates before
// todayKey are never produced; history is immutable even on
// re-materialization.
func materializeDates(rule *models.RecurrenceRule, todayKey string, horizonMonths int) []string {
	start, err := ParseDateKey(rule.StartDate)
	if err != nil {
		return nil
	}
	delta := (int(rule.DayOfWeek) - int(start.Weekday()) + 7) % 7
	first := start.AddDate(0, 0, delta)

	anchor := start
	if today, err := ParseDateKey(todayKey); err == nil && today.After(anchor) {
		anchor = today
	}
	end := anchor.AddDate(0, horizonMonths, 0)

	var dates []string
	for d := first; !d.After(end); d = d.AddDate(0, 0, 7) {
		key := DateKey(d)
		if key < todayKey {
			continue
		}
		dates = append(dates, key)
	}
	return dates
}

func occurrenceFromRule(rule *models.RecurrenceRule, dateKey string) models.Commitment {
	return models.Commitment{
		LocationID:       rule.LocationID,
		Date:             dateKey,
		Time:             rule.Time,
		DurationMinutes:  rule.DurationMinutes,
		Kind:             models.KindSession,
		RecurrenceRuleID: rule.ID,
		StudentName:      rule.StudentName,
		ServiceName:      rule.ServiceName,
	}
}

// Create persists a new active rule together with its first batch of
// materialized occurrences as one unit.
func (e *DefaultRecurrenceEngine) Create(ctx context.Context, in CreateRuleInput, todayKey string) (*models.RecurrenceRule, []models.Commitment, error) {
	if err := validateRuleInput(in); err != nil {
		return nil, nil, err
	}

	rule := &models.RecurrenceRule{
		ID:              uuid.New().String(),
		LocationID:      in.LocationID,
		DayOfWeek:       in.DayOfWeek,
		Time:            in.Time,
		DurationMinutes: in.DurationMinutes,
		StartDate:       in.StartDate,
		Status:          models.RuleActive,
		StudentName:     in.StudentName,
		ServiceName:     in.ServiceName,
	}

	occurrences := make([]models.Commitment, 0)
	for _, key := range materializeDates(rule, todayKey, e.horizon()) {
		occurrences = append(occurrences, occurrenceFromRule(rule, key))
	}

	if err := e.Rules.CreateWithOccurrences(ctx, rule, occurrences); err != nil {
		return nil, nil, fmt.Errorf("failed to create recurrence rule: %w", err)
	}

	utils.GetLogger().Info("recurrence rule created",
		zap.String("ruleID", rule.ID),
		zap.String("locationID", rule.LocationID),
		zap.Int("occurrences", len(occurrences)))

	return rule, occurrences, nil
}

// Materialize tops up the rule's occurrences over the rolling horizon. Dates
// that already carry a commitment with this rule's ID are skipped, so re-runs
// create no duplicates. Cancelled rules are rejected; they do not regenerate.
func (e *DefaultRecurrenceEngine) Materialize(ctx context.Context, ruleID, todayKey string) ([]models.Commitment, error) {
	rule, err := e.Rules.GetByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule %s: %w", ruleID, err)
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	if rule.IsCancelled() {
		return nil, ErrRuleCancelled
	}

	existing, err := e.Commitments.ListByRule(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrences for rule %s: %w", ruleID, err)
	}
	occupied := make(map[string]bool, len(existing))
	for _, c := range existing {
		occupied[c.Date] = true
	}

	var created []models.Commitment
	for _, key := range materializeDates(rule, todayKey, e.horizon()) {
		if occupied[key] {
			continue
		}
		created = append(created, occurrenceFromRule(rule, key))
	}
	if len(created) == 0 {
		return nil, nil
	}

	ids, err := e.Commitments.CreateMany(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize occurrences for rule %s: %w", ruleID, err)
	}
	for i := range created {
		if i < len(ids) {
			created[i].ID = ids[i]
		}
	}
	return created, nil
}

// EditThisOccurrence mutates exactly one commitment. The occurrence keeps its
// recurrenceRuleId for display and reporting, and the parent rule is not
// touched — later series edits will still sweep it up.
func (e *DefaultRecurrenceEngine) EditThisOccurrence(ctx context.Context, commitmentID string, patch OccurrencePatch) (*models.Commitment, error) {
	c, err := e.Commitments.GetByID(ctx, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load commitment %s: %w", commitmentID, err)
	}
	if c == nil {
		return nil, ErrCommitmentNotFound
	}

	patch.applyToCommitment(c)
	if c.DurationMinutes <= 0 || c.Time < 0 || c.End() > 24*60 {
		return nil, fmt.Errorf("occurrence [%d, %d) must fall within one day", c.Time, c.End())
	}
	if _, err := ParseDateKey(c.Date); err != nil {
		return nil, err
	}

	if err := e.Commitments.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update commitment %s: %w", commitmentID, err)
	}
	return c, nil
}

// EditAllFuture mutates the rule, then every commitment sharing its ID dated
// on/after todayKey. Past occurrences are untouched; editing a series never
// rewrites history. Write failures surface as a PartialBatchError listing the
// incomplete records.
func (e *DefaultRecurrenceEngine) EditAllFuture(ctx context.Context, ruleID string, patch OccurrencePatch, todayKey string) (int, error) {
	rule, err := e.Rules.GetByID(ctx, ruleID)
	if err != nil {
		return 0, fmt.Errorf("failed to load rule %s: %w", ruleID, err)
	}
	if rule == nil {
		return 0, ErrRuleNotFound
	}
	if rule.IsCancelled() {
		return 0, ErrRuleCancelled
	}

	patch.applyToRule(rule)
	if rule.DurationMinutes <= 0 || rule.Time < 0 || rule.Time+rule.DurationMinutes > 24*60 {
		return 0, fmt.Errorf("session [%d, %d) must fall within one day", rule.Time, rule.Time+rule.DurationMinutes)
	}
	if err := e.Rules.Update(ctx, rule); err != nil {
		return 0, fmt.Errorf("failed to update rule %s: %w", ruleID, err)
	}

	targets, err := e.Commitments.ListByRuleFromDate(ctx, ruleID, todayKey)
	if err != nil {
		return 0, fmt.Errorf("failed to list future occurrences for rule %s: %w", ruleID, err)
	}

	logger := utils.GetLogger()
	var failed []string
	updated := 0
	for i := range targets {
		c := targets[i]
		patch.applyToCommitment(&c)
		c.Date = targets[i].Date // series edits never move occurrence dates
		if err := e.Commitments.Update(ctx, &c); err != nil {
			logger.Error("series edit: occurrence update failed",
				zap.String("ruleID", ruleID),
				zap.String("commitmentID", c.ID),
				zap.Error(err))
			failed = append(failed, c.ID)
			continue
		}
		updated++
	}
	if len(failed) > 0 {
		return updated, &PartialBatchError{Op: "edit all future", FailedIDs: failed}
	}
	return updated, nil
}

// DeleteThisOccurrence removes exactly one commitment.
func (e *DefaultRecurrenceEngine) DeleteThisOccurrence(ctx context.Context, commitmentID string) error {
	c, err := e.Commitments.GetByID(ctx, commitmentID)
	if err != nil {
		return fmt.Errorf("failed to load commitment %s: %w", commitmentID, err)
	}
	if c == nil {
		return ErrCommitmentNotFound
	}
	if err := e.Commitments.Delete(ctx, commitmentID); err != nil {
		return fmt.Errorf("failed to delete commitment %s: %w", commitmentID, err)
	}
	return nil
}

// DeleteAllFuture cancels the rule, then deletes every commitment sharing its
// ID dated on/after todayKey. Past occurrences remain as a historical record.
// Safe to re-run against an already-cancelled rule to finish a partial batch.
func (e *DefaultRecurrenceEngine) DeleteAllFuture(ctx context.Context, ruleID, todayKey string) (int, error) {
	rule, err := e.Rules.GetByID(ctx, ruleID)
	if err != nil {
		return 0, fmt.Errorf("failed to load rule %s: %w", ruleID, err)
	}
	if rule == nil {
		return 0, ErrRuleNotFound
	}

	if !rule.IsCancelled() {
		if err := e.Rules.SetStatus(ctx, ruleID, models.RuleCancelled); err != nil {
			return 0, fmt.Errorf("failed to cancel rule %s: %w", ruleID, err)
		}
	}

	targets, err := e.Commitments.ListByRuleFromDate(ctx, ruleID, todayKey)
	if err != nil {
		return 0, fmt.Errorf("failed to list future occurrences for rule %s: %w", ruleID, err)
	}

	logger := utils.GetLogger()
	var failed []string
	deleted := 0
	for _, c := range targets {
		if err := e.Commitments.Delete(ctx, c.ID); err != nil {
			logger.Error("series delete: occurrence delete failed",
				zap.String("ruleID", ruleID),
				zap.String("commitmentID", c.ID),
				zap.Error(err))
			failed = append(failed, c.ID)
			continue
		}
		deleted++
	}
	if len(failed) > 0 {
		return deleted, &PartialBatchError{Op: "delete all future", FailedIDs: failed}
	}
	return deleted, nil
}
