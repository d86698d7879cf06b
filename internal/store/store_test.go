package store_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock/internal/model"
	"timeclock/internal/store"
	"timeclock/internal/testutil"
)

var ctx = context.Background()

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTimesheets_SaveAndLoad(t *testing.T) {
	st := testutil.NewTestStore(t)
	u := testutil.SeedUser(t, st)

	_, err := st.Timesheets.Load(ctx, u.ID, date("2024-03-04"))
	assert.True(t, errors.Is(err, store.ErrNotFound))

	ts := model.NewTimesheet(u.ID, date("2024-03-04").Add(15*time.Hour))
	ts.EntryTime = &model.TimeOfDay{Hour: 9}
	ts.LunchStart = &model.TimeOfDay{Hour: 12, Minute: 5, Second: 30}
	require.NoError(t, st.Timesheets.Save(ctx, ts))
	require.NotZero(t, ts.ID)

	got, err := st.Timesheets.Load(ctx, u.ID, date("2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, ts.ID, got.ID)
	assert.Equal(t, date("2024-03-04"), model.DateOf(got.Date))
	require.NotNil(t, got.EntryTime)
	assert.Equal(t, "09:00:00", got.EntryTime.String())
	assert.Equal(t, "12:05:30", got.LunchStart.String())
	assert.Nil(t, got.LunchEnd)
	assert.Nil(t, got.TotalHours)
	assert.Equal(t, model.StatusInProgress, got.Status)

	total := 8.5
	got.ExitTime = &model.TimeOfDay{Hour: 18}
	got.TotalHours = &total
	got.Status = model.StatusComplete
	require.NoError(t, st.Timesheets.Save(ctx, got))

	again, err := st.Timesheets.Load(ctx, u.ID, date("2024-03-04"))
	require.NoError(t, err)
	require.NotNil(t, again.TotalHours)
	assert.InDelta(t, 8.5, *again.TotalHours, 1e-9)
	assert.Equal(t, model.StatusComplete, again.Status)
}

func TestTimesheets_UniquePerUserAndDate(t *testing.T) {
	st := testutil.NewTestStore(t)
	u := testutil.SeedUser(t, st)

	require.NoError(t, st.Timesheets.Save(ctx, model.NewTimesheet(u.ID, date("2024-03-04"))))
	assert.Error(t, st.Timesheets.Save(ctx, model.NewTimesheet(u.ID, date("2024-03-04"))))
}

func TestTimesheets_Ranges(t *testing.T) {
	st := testutil.NewTestStore(t)
	a := testutil.SeedUser(t, st)
	b := testutil.SeedUser(t, st)

	for _, d := range []string{"2024-03-06", "2024-03-04", "2024-03-05", "2024-03-11"} {
		require.NoError(t, st.Timesheets.Save(ctx, model.NewTimesheet(a.ID, date(d))))
	}
	require.NoError(t, st.Timesheets.Save(ctx, model.NewTimesheet(b.ID, date("2024-03-05"))))

	list, err := st.Timesheets.LoadRange(ctx, a.ID, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, date("2024-03-04"), model.DateOf(list[0].Date))
	assert.Equal(t, date("2024-03-06"), model.DateOf(list[2].Date))

	day, err := st.Timesheets.LoadDay(ctx, date("2024-03-05"))
	require.NoError(t, err)
	assert.Len(t, day, 2)

	all, err := st.Timesheets.LoadAllRange(ctx, date("2024-03-01"), date("2024-03-31"))
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestTimesheets_Delete(t *testing.T) {
	st := testutil.NewTestStore(t)
	u := testutil.SeedUser(t, st)
	require.NoError(t, st.Timesheets.Save(ctx, model.NewTimesheet(u.ID, date("2024-03-04"))))

	require.NoError(t, st.Timesheets.Delete(ctx, u.ID, date("2024-03-04")))
	err := st.Timesheets.Delete(ctx, u.ID, date("2024-03-04"))
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestTimesheets_WithinTxRollsBack(t *testing.T) {
	st := testutil.NewTestStore(t)
	u := testutil.SeedUser(t, st)
	boom := errors.New("boom")

	err := st.Timesheets.WithinTx(ctx, func(tx store.Timesheets) error {
		if err := tx.Save(ctx, model.NewTimesheet(u.ID, date("2024-03-04"))); err != nil {
			return err
		}
		_, err := tx.Load(ctx, u.ID, date("2024-03-04"))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = st.Timesheets.Load(ctx, u.ID, date("2024-03-04"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers(t *testing.T) {
	st := testutil.NewTestStore(t)
	ana := testutil.SeedUser(t, st, testutil.WithName("Ana"), testutil.WithEmail("ana@x.io"))
	testutil.SeedUser(t, st, testutil.WithName("Bia"), testutil.WithCategory(model.CategoryIntern))
	testutil.SeedUser(t, st, testutil.WithName("Caio"), testutil.WithCategory(model.CategoryIntern), testutil.Inactive())

	got, err := st.Users.GetByEmail(ctx, "ana@x.io")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	_, err = st.Users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := st.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ana", all[0].Name)

	active, err := st.Users.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	interns, err := st.Users.ListByCategory(ctx, model.CategoryIntern)
	require.NoError(t, err)
	require.Len(t, interns, 1)
	assert.Equal(t, "Bia", interns[0].Name)

	require.NoError(t, st.Users.ToggleActive(ctx, got.ID))
	active, err = st.Users.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.ErrorIs(t, st.Users.ToggleActive(ctx, 999), store.ErrNotFound)

	require.NoError(t, st.Users.UpdateFields(ctx, got.ID, map[string]interface{}{"push_token": "dev-1"}))
	require.NoError(t, st.Users.UpdateFields(ctx, got.ID, map[string]interface{}{"push_token": "dev-1"}))
	got, err = st.Users.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "dev-1", got.PushToken)
	assert.False(t, got.Active, "column update must not touch active")
	assert.ErrorIs(t, st.Users.UpdateFields(ctx, 999, map[string]interface{}{"name": "x"}), store.ErrNotFound)

	assert.Error(t, st.Users.Create(ctx, testutil.NewUser(testutil.WithEmail("ana@x.io"))))
}

func TestNotifications_ForUser(t *testing.T) {
	st := testutil.NewTestStore(t)
	intern := testutil.SeedUser(t, st, testutil.WithCategory(model.CategoryIntern))
	worker := testutil.SeedUser(t, st)

	for _, n := range []*model.Notification{
		{Title: "all", Audience: model.AudienceGlobal},
		{Title: "interns", Audience: model.AudienceGroup, Target: string(model.CategoryIntern)},
		{Title: "workers", Audience: model.AudienceGroup, Target: string(model.CategoryWorker)},
		{Title: "just you", Audience: model.AudienceIndividual, Target: strconv.Itoa(intern.ID)},
	} {
		require.NoError(t, st.Notifications.Create(ctx, n))
	}

	titles := func(list []*model.Notification) []string {
		var out []string
		for _, n := range list {
			out = append(out, n.Title)
		}
		return out
	}

	got, err := st.Notifications.ForUser(ctx, intern, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"all", "interns", "just you"}, titles(got))

	got, err = st.Notifications.ForUser(ctx, worker, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"all", "workers"}, titles(got))

	recent, err := st.Notifications.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
