package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightpath/models"
)

// In-memory doubles for the rule and commitment repositories.

type fakeCommitmentRepo struct {
	byID   map[string]models.Commitment
	failOn map[string]bool // commitment IDs whose writes fail
}

func newFakeCommitmentRepo() *fakeCommitmentRepo {
	return &fakeCommitmentRepo{
		byID:   make(map[string]models.Commitment),
		failOn: make(map[string]bool),
	}
}

func (f *fakeCommitmentRepo) Create(_ context.Context, c *models.Commitment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCommitmentRepo) CreateMany(_ context.Context, cs []models.Commitment) ([]string, error) {
	ids := make([]string, len(cs))
	for i := range cs {
		if cs[i].ID == "" {
			cs[i].ID = uuid.New().String()
		}
		f.byID[cs[i].ID] = cs[i]
		ids[i] = cs[i].ID
	}
	return ids, nil
}

func (f *fakeCommitmentRepo) GetByID(_ context.Context, id string) (*models.Commitment, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	out := c
	return &out, nil
}

func (f *fakeCommitmentRepo) Update(_ context.Context, c *models.Commitment) error {
	if f.failOn[c.ID] {
		return fmt.Errorf("simulated write failure for %s", c.ID)
	}
	if _, ok := f.byID[c.ID]; !ok {
		return fmt.Errorf("commitment %s missing", c.ID)
	}
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCommitmentRepo) Delete(_ context.Context, id string) error {
	if f.failOn[id] {
		return fmt.Errorf("simulated write failure for %s", id)
	}
	if _, ok := f.byID[id]; !ok {
		return fmt.Errorf("commitment %s missing", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCommitmentRepo) ListByLocationAndDate(_ context.Context, locationID, dateKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range f.byID {
		if c.LocationID == locationID && c.Date == dateKey {
			out = append(out, c)
		}
	}
	sortByDate(out)
	return out, nil
}

func (f *fakeCommitmentRepo) ListByLocationRange(_ context.Context, locationID, fromKey, toKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range f.byID {
		if c.LocationID == locationID && c.Date >= fromKey && c.Date <= toKey {
			out = append(out, c)
		}
	}
	sortByDate(out)
	return out, nil
}

func (f *fakeCommitmentRepo) ListByRule(_ context.Context, ruleID string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range f.byID {
		if c.RecurrenceRuleID == ruleID {
			out = append(out, c)
		}
	}
	sortByDate(out)
	return out, nil
}

func (f *fakeCommitmentRepo) ListByRuleFromDate(_ context.Context, ruleID, fromKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range f.byID {
		if c.RecurrenceRuleID == ruleID && c.Date >= fromKey {
			out = append(out, c)
		}
	}
	sortByDate(out)
	return out, nil
}

func sortByDate(cs []models.Commitment) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Date == cs[j].Date {
			return cs[i].Time < cs[j].Time
		}
		return cs[i].Date < cs[j].Date
	})
}

type fakeRuleRepo struct {
	byID        map[string]models.RecurrenceRule
	commitments *fakeCommitmentRepo
}

func newFakeRuleRepo(c *fakeCommitmentRepo) *fakeRuleRepo {
	return &fakeRuleRepo{byID: make(map[string]models.RecurrenceRule), commitments: c}
}

func (f *fakeRuleRepo) CreateWithOccurrences(ctx context.Context, rule *models.RecurrenceRule, occurrences []models.Commitment) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	f.byID[rule.ID] = *rule
	_, err := f.commitments.CreateMany(ctx, occurrences)
	return err
}

func (f *fakeRuleRepo) GetByID(_ context.Context, id string) (*models.RecurrenceRule, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	out := r
	return &out, nil
}

func (f *fakeRuleRepo) Update(_ context.Context, rule *models.RecurrenceRule) error {
	if _, ok := f.byID[rule.ID]; !ok {
		return fmt.Errorf("rule %s missing", rule.ID)
	}
	f.byID[rule.ID] = *rule
	return nil
}

func (f *fakeRuleRepo) SetStatus(_ context.Context, id string, status models.RuleStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("rule %s missing", id)
	}
	r.Status = status
	f.byID[id] = r
	return nil
}

func (f *fakeRuleRepo) ListActive(_ context.Context) ([]models.RecurrenceRule, error) {
	var out []models.RecurrenceRule
	for _, r := range f.byID {
		if r.Status == models.RuleActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestEngine() (*DefaultRecurrenceEngine, *fakeRuleRepo, *fakeCommitmentRepo) {
	commitments := newFakeCommitmentRepo()
	rules := newFakeRuleRepo(commitments)
	return &DefaultRecurrenceEngine{Rules: rules, Commitments: commitments}, rules, commitments
}

// mondayRuleInput starts Monday 2026-03-02 at 4:00 PM, 40 minutes.
func mondayRuleInput() CreateRuleInput {
	return CreateRuleInput{
		LocationID:      "loc-1",
		DayOfWeek:       time.Monday,
		Time:            960,
		DurationMinutes: 40,
		StartDate:       "2026-03-02",
		StudentName:     "Avery P.",
		ServiceName:     "Math Tutoring",
	}
}

func TestCreate_MaterializesWeeklyOccurrences(t *testing.T) {
	engine, _, commitments := newTestEngine()
	ctx := context.Background()

	rule, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, models.RuleActive, rule.Status)

	// Scenario C: every Monday from 2026-03-02 through 2026-06-02 (the
	// 3-month horizon) gets one occurrence — 14 Mondays.
	require.Len(t, occurrences, 14)
	assert.Equal(t, "2026-03-02", occurrences[0].Date)

	for _, occ := range occurrences {
		assert.Equal(t, rule.ID, occ.RecurrenceRuleID)
		assert.Equal(t, models.KindSession, occ.Kind)
		assert.Equal(t, 960, occ.Time)
		d, err := ParseDateKey(occ.Date)
		require.NoError(t, err)
		assert.Equal(t, time.Monday, d.Weekday())
	}

	stored, err := commitments.ListByRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 14)
}

func TestCreate_RejectsBadInput(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	in := mondayRuleInput()
	in.DurationMinutes = 0
	_, _, err := engine.Create(ctx, in, "2026-03-01")
	assert.Error(t, err)

	in = mondayRuleInput()
	in.StartDate = "next monday"
	_, _, err = engine.Create(ctx, in, "2026-03-01")
	assert.Error(t, err)

	in = mondayRuleInput()
	in.Time = 23*60 + 30 // 11:30 PM + 40min crosses midnight
	_, _, err = engine.Create(ctx, in, "2026-03-01")
	assert.Error(t, err)
}

func TestMaterialize_IsIdempotent(t *testing.T) {
	engine, _, commitments := newTestEngine()
	ctx := context.Background()

	rule, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)
	require.Len(t, occurrences, 14)

	created, err := engine.Materialize(ctx, rule.ID, "2026-03-01")
	require.NoError(t, err)
	assert.Empty(t, created, "re-running materialize must create no duplicates")

	stored, err := commitments.ListByRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 14)
}

func TestMaterialize_NotFound(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Materialize(ctx, "no-such-rule", "2026-03-01")
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestMaterialize_NeverCreatesPastOccurrences(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	// Created mid-series: only occurrences on/after today materialize, and
	// the horizon runs from today, not from the back-dated start.
	_, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-04-01")
	require.NoError(t, err)
	for _, occ := range occurrences {
		assert.GreaterOrEqual(t, occ.Date, "2026-04-01")
	}
	require.Len(t, occurrences, 13) // Apr 6..Jun 29
}

func TestMaterialize_RollsHorizonForward(t *testing.T) {
	engine, _, commitments := newTestEngine()
	ctx := context.Background()

	rule, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)
	require.Len(t, occurrences, 14) // Mar 2..Jun 1

	// A sweep months after the start date still keeps three months of
	// future Mondays on the books: Sep 7..Nov 30.
	created, err := engine.Materialize(ctx, rule.ID, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, created, 13)
	for _, occ := range created {
		assert.GreaterOrEqual(t, occ.Date, "2026-09-01")
	}

	stored, err := commitments.ListByRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 27)

	// The sweep stays idempotent within the same window.
	again, err := engine.Materialize(ctx, rule.ID, "2026-09-01")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestEditThisOccurrence_LeavesSiblingsAndRuleAlone(t *testing.T) {
	engine, rules, commitments := newTestEngine()
	ctx := context.Background()

	rule, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)

	target := occurrences[2]
	newTime := 1020 // 5:00 PM
	edited, err := engine.EditThisOccurrence(ctx, target.ID, OccurrencePatch{Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, 1020, edited.Time)
	assert.Equal(t, rule.ID, edited.RecurrenceRuleID, "detached occurrence keeps its rule reference")

	// Siblings and the rule are untouched.
	stored, err := commitments.ListByRule(ctx, rule.ID)
	require.NoError(t, err)
	for _, c := range stored {
		if c.ID == target.ID {
			continue
		}
		assert.Equal(t, 960, c.Time)
	}
	freshRule, err := rules.GetByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 960, freshRule.Time)
}

func TestEditThisOccurrence_NotFound(t *testing.T) {
	engine, _, _ := newTestEngine()
	newTime := 600
	_, err := engine.EditThisOccurrence(context.Background(), "missing", OccurrencePatch{Time: &newTime})
	assert.ErrorIs(t, err, ErrCommitmentNotFound)
}

func TestEditAllFuture_ScenarioD(t *testing.T) {
	engine, rules, commitments := newTestEngine()
	ctx := context.Background()

	rule, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)
	require.Len(t, occurrences, 14)

	// Five Mondays (Mar 2..Mar 30) have passed by Apr 6.
	today := "2026-04-06"
	newTime := 1020 // move 4:00 PM -> 5:00 PM
	updated, err := engine.EditAllFuture(ctx, rule.ID, OccurrencePatch{Time: &newTime}, today)
	require.NoError(t, err)
	assert.Equal(t, 9, updated)

	stored, err := commitments.ListByRule(ctx, rule.ID)
	require.NoError(t, err)
	for _, c := range stored {
		if c.Date < today {
			assert.Equal(t, 960, c.Time, "past occurrence %s must keep its time", c.Date)
		} else {
			assert.Equal(t, 1020, c.Time, "future occurrence %s must move", c.Date)
		}
	}

	freshRule, err := rules.GetByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 1020, freshRule.Time)
}

func TestEditAllFuture_SweepsDetachedOccurrences(t *testing.T) {
	engine, _, commitments := newTestEngine()
	ctx := context.Background()

	rule, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)

	// Detach one occurrence by editing it alone; it keeps its rule reference,
	// so a later series edit still sweeps it up.
	target := occurrences[5]
	soloTime := 600
	_, err = engine.EditThisOccurrence(ctx, target.ID, OccurrencePatch{Time: &soloTime})
	require.NoError(t, err)

	seriesTime := 1020
	_, err = engine.EditAllFuture(ctx, rule.ID, OccurrencePatch{Time: &seriesTime}, "2026-03-01")
	require.NoError(t, err)

	fresh, err := commitments.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 1020, fresh.Time)
}

func TestEditAllFuture_PartialBatchSurfaces(t *testing.T) {
	engine, _, commitments := newTestEngine()
	ctx := context.Background()

	rule, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)

	bad := occurrences[3].ID
	commitments.failOn[bad] = true

	newTime := 1020
	updated, err := engine.EditAllFuture(ctx, rule.ID, OccurrencePatch{Time: &newTime}, "2026-03-01")
	require.Error(t, err)

	var batchErr *PartialBatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, []string{bad}, batchErr.FailedIDs)
	assert.Equal(t, len(occurrences)-1, updated)
}

func TestEditAllFuture_NotFoundAndCancelled(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	newTime := 1020
	_, err := engine.EditAllFuture(ctx, "missing", OccurrencePatch{Time: &newTime}, "2026-03-01")
	assert.ErrorIs(t, err, ErrRuleNotFound)

	rule, _, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)
	_, err = engine.DeleteAllFuture(ctx, rule.ID, "2026-03-01")
	require.NoError(t, err)

	_, err = engine.EditAllFuture(ctx, rule.ID, OccurrencePatch{Time: &newTime}, "2026-03-01")
	assert.ErrorIs(t, err, ErrRuleCancelled)
}

func TestDeleteThisOccurrence(t *testing.T) {
	engine, _, commitments := newTestEngine()
	ctx := context.Background()

	rule, occurrences, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)

	require.NoError(t, engine.DeleteThisOccurrence(ctx, occurrences[0].ID))

	stored, err := commitments.ListByRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Len(t, stored, len(occurrences)-1)

	assert.ErrorIs(t, engine.DeleteThisOccurrence(ctx, "missing"), ErrCommitmentNotFound)
}

func TestDeleteAllFuture_ScenarioE(t *testing.T) {
	engine, rules, commitments := newTestEngine()
	ctx := context.Background()

	rule, _, err := engine.Create(ctx, mondayRuleInput(), "2026-03-01")
	require.NoError(t, err)

	today := "2026-04-06"
	deleted, err := engine.DeleteAllFuture(ctx, rule.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 9, deleted)

	// The five past occurrences remain as history.
	stored, err := commitments.ListByRule(ctx, rule.ID)
	require.NoError(t, err)
	require.Len(t, stored, 5)
	for _, c := range stored {
		assert.Less(t, c.Date, today)
	}

	freshRule, err := rules.GetByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RuleCancelled, freshRule.Status)

	// Cancelled rules do not regenerate.
	_, err = engine.Materialize(ctx, rule.ID, today)
	assert.ErrorIs(t, err, ErrRuleCancelled)

	_, err = engine.DeleteAllFuture(ctx, "missing", today)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRoundTrip_MaterializedOccurrenceBlocksExactlyItsSlot(t *testing.T) {
	engine, _, commitments := newTestEngine()
	ctx := context.Background()
	loc := weekdayLocation()

	// 9:55 AM sits on the 40+15 slot grid, so exactly one candidate collides.
	in := mondayRuleInput()
	in.Time = 595
	_, occurrences, err := engine.Create(ctx, in, "2026-03-01")
	require.NoError(t, err)
	occ := occurrences[0]

	existing, err := commitments.ListByLocationAndDate(ctx, loc.ID, occ.Date)
	require.NoError(t, err)

	withOccurrence := AvailableSlots(loc, occ.Date, 40, 15, existing)
	baseline := AvailableSlots(loc, occ.Date, 40, 15, nil)

	assert.NotContains(t, withOccurrence, occ.Time)
	assert.Len(t, withOccurrence, len(baseline)-1, "only the occurrence's own start is excluded")
}

func TestPartialBatchErrorMessage(t *testing.T) {
	err := &PartialBatchError{Op: "edit all future", FailedIDs: []string{"a", "b"}}
	assert.Contains(t, err.Error(), "2 record(s) incomplete")
	assert.False(t, errors.Is(err, ErrRuleNotFound))
}
