package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	core "workclock/internal/core/compliance"
	"workclock/internal/core/tracking"
	"workclock/internal/modkit/repokit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/services/compliance/domain"
	"workclock/internal/services/compliance/repo"
)

// fakeTx satisfies repokit.TxRunner; the fake storage ignores the queryer
type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	return nil, nil
}
func (fakeTx) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) repokit.Row        { return nil }
func (f fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	return fn(f)
}

type fakeStorage struct {
	rules    []core.Rule
	sessions []tracking.Session
	upserted []*core.Rule
	deleted  bool
}

func (f *fakeStorage) Upsert(_ context.Context, r *core.Rule) error {
	f.upserted = append(f.upserted, r)
	return nil
}

func (f *fakeStorage) ListByUser(context.Context, uuid.UUID) ([]core.Rule, error) {
	return f.rules, nil
}

func (f *fakeStorage) Delete(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return f.deleted, nil
}

func (f *fakeStorage) SessionsInRange(context.Context, uuid.UUID, time.Time, time.Time) ([]tracking.Session, error) {
	return f.sessions, nil
}

func newSvc(t *testing.T, st *fakeStorage) *Svc {
	t.Helper()
	binder := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return st })
	return New(fakeTx{}, binder)
}

func done(at time.Time) *time.Time { return &at }

func TestEvaluate_ReportsShortDay(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	st := &fakeStorage{
		rules: []core.Rule{{
			ID: uuid.New(), UserID: uid,
			Type:     core.RuleTypeMinimumSpan,
			ClockIn:  core.ClockInWorkStart,
			ClockOut: core.ClockOutWorkEnd,
			// nine hour minimum presence
			ThresholdHours: 9,
			Enabled:        true,
		}},
		sessions: []tracking.Session{{
			ID: uuid.New(), UserID: uid,
			State:     tracking.StateWorking,
			StartedAt: day.Add(8 * time.Hour),
			EndedAt:   done(day.Add(16*time.Hour + 30*time.Minute)),
		}},
	}
	svc := newSvc(t, st)

	out, err := svc.Evaluate(context.Background(), uid, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, out[0].Date.Equal(day))
	require.InDelta(t, 8.5, out[0].ActualHours, 0.001)
}

func TestEvaluate_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := newSvc(t, &fakeStorage{})
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	_, err := svc.Evaluate(context.Background(), uuid.New(), day, day)
	require.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestPutRule_AssignsID(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{}
	svc := newSvc(t, st)

	r, err := svc.PutRule(context.Background(), uuid.New(), domain.RuleInput{
		Type:           core.RuleTypeMinimumSpan,
		ClockIn:        string(core.ClockInCommuteEnd),
		ClockOut:       string(core.ClockOutCommuteStart),
		ThresholdHours: 9,
		Enabled:        true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, r.ID)
	require.Len(t, st.upserted, 1)
}

func TestDeleteRule_UnknownIsNotFound(t *testing.T) {
	t.Parallel()

	svc := newSvc(t, &fakeStorage{deleted: false})
	err := svc.DeleteRule(context.Background(), uuid.New(), uuid.New())
	require.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}
