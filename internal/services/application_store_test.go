package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/services"
	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*services.ApplicationStore, storage.KV, *fakeClock) {
	t.Helper()
	kv := storage.NewMemoryKV()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := services.NewApplicationStore(kv)
	store.Now = clock.Now
	seq := 0
	store.NewID = func() string {
		seq++
		return fmt.Sprintf("app_%d", seq)
	}
	return store, kv, clock
}

func acmeJob(id string) models.JobSnapshot {
	return models.JobSnapshot{ID: id, Title: "Software Engineer", Company: "Acme", Location: "Remote", Description: "Build things"}
}

type brokenKV struct {
	getErr error
	setErr error
}

func (b *brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, b.getErr }
func (b *brokenKV) Set(context.Context, string, string) error { return b.setErr }
func (b *brokenKV) Delete(context.Context, string) error { return nil }

func TestCreateIsIdempotentPerJobID(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()

	first, created, err := store.Create(ctx, acmeJob("J1"))
	if err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}
	if first.Status != models.StatusApplied {
		t.Fatalf("expected status applied, got %s", first.Status)
	}
	if !first.AppliedAt.Equal(clock.now) || !first.LastUpdated.Equal(clock.now) {
		t.Fatalf("timestamps not stamped with now: %+v", first)
	}

	clock.Advance(time.Hour)
	again := acmeJob("J1")
	again.Title = "Changed Title"
	second, created, err := store.Create(ctx, again)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Fatalf("second create must not create a new record")
	}
	if second.ID != first.ID || second.Title != first.Title || !second.AppliedAt.Equal(first.AppliedAt) {
		t.Fatalf("expected the existing record unchanged, got %+v", second)
	}
	if n := len(store.List(ctx)); n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
}

func TestCreatePrependsNewestFirst(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"J1", "J2", "J3"} {
		if _, _, err := store.Create(ctx, acmeJob(id)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	// mutating an old record does not reorder the list
	apps := store.List(ctx)
	status := models.StatusInterviewing
	if _, err := store.Update(ctx, apps[2].ID, services.ApplicationPatch{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}

	apps = store.List(ctx)
	got := []string{apps[0].JobID, apps[1].JobID, apps[2].JobID}
	want := []string{"J3", "J2", "J1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestUpdateMergesMutableFieldsAndStampsLastUpdated(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()
	rec, _, _ := store.Create(ctx, acmeJob("J1"))

	notes := "called recruiter"
	name := "Jane"
	clock.Advance(2 * time.Hour)
	updated, err := store.Update(ctx, rec.ID, services.ApplicationPatch{Notes: &notes, ContactName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Notes == nil || *updated.Notes != notes || *updated.ContactName != name {
		t.Fatalf("fields not merged: %+v", updated)
	}
	if updated.Status != models.StatusApplied {
		t.Fatalf("status must be untouched, got %s", updated.Status)
	}
	if !updated.LastUpdated.Equal(clock.now) {
		t.Fatalf("expected lastUpdated=%v, got %v", clock.now, updated.LastUpdated)
	}
	if !updated.AppliedAt.Equal(rec.AppliedAt) {
		t.Fatalf("appliedAt must not change")
	}

	notes2 := "second call"
	clock.Advance(time.Minute)
	updated2, err := store.Update(ctx, rec.ID, services.ApplicationPatch{Notes: &notes2})
	if err != nil {
		t.Fatalf("update 2: %v", err)
	}
	if *updated2.Notes != notes2 || *updated2.ContactName != name {
		t.Fatalf("expected last notes and previous contact, got %+v", updated2)
	}

	stored, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *stored.Notes != notes2 {
		t.Fatalf("update was not persisted")
	}
}

func TestUpdateLastUpdatedNeverDecreases(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()
	rec, _, _ := store.Create(ctx, acmeJob("J1"))

	prev := rec.LastUpdated
	steps := []time.Duration{time.Minute, 0, -time.Hour, 3 * time.Second}
	for i, step := range steps {
		clock.Advance(step)
		status := models.AllStatuses[i%len(models.AllStatuses)]
		got, err := store.Update(ctx, rec.ID, services.ApplicationPatch{Status: &status})
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if got.LastUpdated.Before(prev) {
			t.Fatalf("lastUpdated went backwards at step %d: %v < %v", i, got.LastUpdated, prev)
		}
		prev = got.LastUpdated
	}
}

func TestUpdateUnknownID(t *testing.T) {
	store, _, _ := newTestStore(t)
	status := models.StatusOffer
	_, err := store.Update(context.Background(), "nope", services.ApplicationPatch{Status: &status})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	rec, _, _ := store.Create(ctx, acmeJob("J1"))
	_, _, _ = store.Create(ctx, acmeJob("J2"))

	removed, err := store.Delete(ctx, "missing")
	if err != nil || removed {
		t.Fatalf("delete missing: removed=%v err=%v", removed, err)
	}
	if n := len(store.List(ctx)); n != 2 {
		t.Fatalf("store changed on missing delete: %d", n)
	}

	removed, err = store.Delete(ctx, rec.ID)
	if err != nil || !removed {
		t.Fatalf("delete existing: removed=%v err=%v", removed, err)
	}
	if n := len(store.List(ctx)); n != 1 {
		t.Fatalf("expected 1 record left, got %d", n)
	}
	if store.HasApplied(ctx, "J1") {
		t.Fatalf("J1 should no longer be applied")
	}
	if !store.HasApplied(ctx, "J2") {
		t.Fatalf("J2 should still be applied")
	}
}

func TestListFailsSoft(t *testing.T) {
	ctx := context.Background()

	corrupt := storage.NewMemoryKV()
	_ = corrupt.Set(ctx, storage.KeyApplications, "{not json")
	if apps := services.NewApplicationStore(corrupt).List(ctx); len(apps) != 0 {
		t.Fatalf("expected empty list for corrupt data, got %d", len(apps))
	}

	broken := &brokenKV{getErr: errors.New("disk gone")}
	if apps := services.NewApplicationStore(broken).List(ctx); apps == nil || len(apps) != 0 {
		t.Fatalf("expected empty non-nil list for unreadable storage, got %v", apps)
	}
}

func TestCreateSurfacesWriteFailure(t *testing.T) {
	broken := &brokenKV{setErr: errors.New("read-only")}
	_, _, err := services.NewApplicationStore(broken).Create(context.Background(), acmeJob("J1"))
	if !errors.Is(err, services.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestMarkFollowUpSent(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()
	rec, _, _ := store.Create(ctx, acmeJob("J1"))

	clock.Advance(8 * 24 * time.Hour)
	got, err := store.MarkFollowUpSent(ctx, rec.ID)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if got.FollowUpSent == nil || !*got.FollowUpSent {
		t.Fatalf("followUpSent not set")
	}
	if got.FollowUpSentAt == nil || !got.FollowUpSentAt.Equal(clock.now) {
		t.Fatalf("followUpSentAt not stamped")
	}
	if got.Status != models.StatusFollowingUp {
		t.Fatalf("expected following_up, got %s", got.Status)
	}
}

func TestMarkFollowUpSentOnlyOnce(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()
	rec, _, _ := store.Create(ctx, acmeJob("J1"))

	first, err := store.MarkFollowUpSent(ctx, rec.ID)
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	firstAt := *first.FollowUpSentAt

	status := models.StatusInterviewing
	if _, err := store.Update(ctx, rec.ID, services.ApplicationPatch{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}

	clock.Advance(48 * time.Hour)
	second, err := store.MarkFollowUpSent(ctx, rec.ID)
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if second.FollowUpSentAt == nil || !second.FollowUpSentAt.Equal(firstAt) {
		t.Fatalf("followUpSentAt moved: first=%v second=%v", firstAt, second.FollowUpSentAt)
	}
	if second.Status != models.StatusInterviewing {
		t.Fatalf("status moved back to %s", second.Status)
	}

	stored, _ := store.Get(ctx, rec.ID)
	if !stored.FollowUpSentAt.Equal(firstAt) || stored.Status != models.StatusInterviewing {
		t.Fatalf("stored record changed: %+v", stored)
	}
}

func TestMarkFollowUpSentKeepsLaterStage(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	rec, _, _ := store.Create(ctx, acmeJob("J1"))

	status := models.StatusOffer
	_, _ = store.Update(ctx, rec.ID, services.ApplicationPatch{Status: &status})

	got, err := store.MarkFollowUpSent(ctx, rec.ID)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if got.Status != models.StatusOffer || got.FollowUpSent == nil || !*got.FollowUpSent {
		t.Fatalf("expected offer with follow-up flagged, got %+v", got)
	}
}

func TestMarkFollowUpSentUnknownID(t *testing.T) {
	store, _, _ := newTestStore(t)
	if _, err := store.MarkFollowUpSent(context.Background(), "nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyUpdateDeleteScenario(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	rec, _, _ := store.Create(ctx, acmeJob("J1"))
	if apps := store.List(ctx); len(apps) != 1 || apps[0].Status != models.StatusApplied {
		t.Fatalf("unexpected store after apply: %+v", apps)
	}

	again, _, _ := store.Create(ctx, acmeJob("J1"))
	if again.ID != rec.ID || len(store.List(ctx)) != 1 {
		t.Fatalf("re-apply must return the same record")
	}

	status := models.StatusInterviewing
	if _, err := store.Update(ctx, rec.ID, services.ApplicationPatch{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	stats := services.ComputeStats(store.List(ctx))
	if stats.Interviewing != 1 || stats.Applied != 0 {
		t.Fatalf("unexpected stats after status change: %+v", stats)
	}

	if ok, _ := store.Delete(ctx, rec.ID); !ok {
		t.Fatalf("delete failed")
	}
	if stats := services.ComputeStats(store.List(ctx)); stats != (services.ApplicationStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
