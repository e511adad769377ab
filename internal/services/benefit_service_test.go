package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/services"
	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

func completeAnswers() services.BenefitAnswers {
	return services.BenefitAnswers{
		FirstName:        "Alex",
		LastName:         "Doe",
		SSN:              "123-45-6789",
		Email:            "alex@example.com",
		Phone:            "612-555-0100",
		EmployerName:     "Acme",
		JobTitle:         "Line Cook",
		StartDate:        "2022-01-10",
		EndDate:          "2025-02-28",
		SeparationReason: "Laid off when the location closed.",
	}
}

func newBenefitService() (*services.BenefitService, *services.MemoryBenefitRepository, *fakeClock) {
	repo := services.NewMemoryBenefitRepository()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := services.NewBenefitService(repo, 10*time.Minute)
	svc.Now = clock.Now
	svc.NewID = func() string { return "ben_1" }
	return svc, repo, clock
}

func TestBenefitSubmitStoresMaskedAnswers(t *testing.T) {
	svc, repo, clock := newBenefitService()
	kv := storage.Scoped(storage.NewMemoryKV(), "c1")
	ctx := context.Background()

	id, err := svc.Submit(ctx, kv, "123", completeAnswers())
	if err != nil || id != "ben_1" {
		t.Fatalf("submit: id=%q err=%v", id, err)
	}

	apps := repo.All()
	if len(apps) != 1 {
		t.Fatalf("expected one stored application, got %d", len(apps))
	}
	if !apps[0].OptIn || apps[0].UserID != "123" {
		t.Fatalf("unexpected stored application: %+v", apps[0])
	}
	var stored services.BenefitAnswers
	if err := json.Unmarshal(apps[0].Answers, &stored); err != nil {
		t.Fatalf("decode answers: %v", err)
	}
	if stored.SSN != "***-**-6789" {
		t.Fatalf("ssn not masked: %q", stored.SSN)
	}

	raw, ok, _ := kv.Get(ctx, storage.KeyLastApplicationAt)
	if !ok || raw != strconv.FormatInt(clock.now.UnixMilli(), 10) {
		t.Fatalf("cooldown key not recorded, got %q", raw)
	}
}

func TestBenefitSubmitCooldown(t *testing.T) {
	svc, repo, clock := newBenefitService()
	kv := storage.Scoped(storage.NewMemoryKV(), "c1")
	ctx := context.Background()

	if _, err := svc.Submit(ctx, kv, "123", completeAnswers()); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	clock.Advance(5 * time.Minute)
	if _, err := svc.Submit(ctx, kv, "123", completeAnswers()); !errors.Is(err, services.ErrCooldown) {
		t.Fatalf("expected ErrCooldown, got %v", err)
	}

	// another client namespace is not affected
	if _, err := svc.Submit(ctx, storage.Scoped(storage.NewMemoryKV(), "c2"), "456", completeAnswers()); err != nil {
		t.Fatalf("other client: %v", err)
	}

	clock.Advance(6 * time.Minute)
	if _, err := svc.Submit(ctx, kv, "123", completeAnswers()); err != nil {
		t.Fatalf("after cooldown: %v", err)
	}
	if n := len(repo.All()); n != 3 {
		t.Fatalf("expected 3 stored applications, got %d", n)
	}
}

func TestBenefitSubmitHoneypotIsSilent(t *testing.T) {
	svc, repo, _ := newBenefitService()
	kv := storage.Scoped(storage.NewMemoryKV(), "c1")

	answers := completeAnswers()
	answers.Website = "http://spam.example"
	id, err := svc.Submit(context.Background(), kv, "123", answers)
	if err != nil || id != "" {
		t.Fatalf("honeypot must look like success: id=%q err=%v", id, err)
	}
	if len(repo.All()) != 0 {
		t.Fatalf("honeypot submission must not be stored")
	}
	if _, ok, _ := kv.Get(context.Background(), storage.KeyLastApplicationAt); ok {
		t.Fatalf("honeypot submission must not start a cooldown")
	}
}

func TestBenefitSubmitValidation(t *testing.T) {
	svc, _, _ := newBenefitService()
	answers := completeAnswers()
	answers.SSN = ""
	answers.SeparationReason = "  "

	_, err := svc.Submit(context.Background(), storage.NewMemoryKV(), "123", answers)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

type failingBenefitRepo struct{}

func (failingBenefitRepo) Save(context.Context, *models.BenefitApplication) error {
	return errors.New("db down")
}

func TestBenefitSubmitStorageFailure(t *testing.T) {
	svc := services.NewBenefitService(failingBenefitRepo{}, time.Minute)
	kv := storage.NewMemoryKV()
	_, err := svc.Submit(context.Background(), kv, "123", completeAnswers())
	if !errors.Is(err, services.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if _, ok, _ := kv.Get(context.Background(), storage.KeyLastApplicationAt); ok {
		t.Fatalf("failed submission must not start a cooldown")
	}
}

func TestMaskSSN(t *testing.T) {
	cases := map[string]string{
		"123-45-6789": "***-**-6789",
		"123456789":   "***-**-6789",
		"12":          "***-**-12",
	}
	for in, want := range cases {
		if got := services.MaskSSN(in); got != want {
			t.Errorf("MaskSSN(%q) = %q, want %q", in, got, want)
		}
	}
}
