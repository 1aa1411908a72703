package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	meds map[uuid.UUID]*AuthorizedMedicine
}

func newMockRepo() *mockRepo {
	return &mockRepo{meds: make(map[uuid.UUID]*AuthorizedMedicine)}
}

func (r *mockRepo) Create(ctx context.Context, m *AuthorizedMedicine) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()
	cp := *m
	r.meds[m.ID] = &cp
	return nil
}

func (r *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*AuthorizedMedicine, error) {
	m, ok := r.meds[id]
	if !ok {
		return nil, ErrMedicineNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *mockRepo) Update(ctx context.Context, m *AuthorizedMedicine) error {
	if _, ok := r.meds[m.ID]; !ok {
		return ErrMedicineNotFound
	}
	cp := *m
	r.meds[m.ID] = &cp
	return nil
}

func (r *mockRepo) List(ctx context.Context, limit, offset int) ([]*AuthorizedMedicine, int, error) {
	var all []*AuthorizedMedicine
	for _, m := range r.meds {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func strPtr(s string) *string { return &s }

func TestCreateMedicine(t *testing.T) {
	svc := NewService(newMockRepo())

	m := &AuthorizedMedicine{
		Name:                 "Amoxicillin",
		Dosage:               "10ml twice daily",
		Route:                strPtr("IM"),
		WithdrawalPeriodDays: 7,
	}
	if err := svc.CreateMedicine(context.Background(), m); err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Errorf("id not assigned")
	}
	if m.DurationDays != 1 {
		t.Errorf("expected duration default 1, got %d", m.DurationDays)
	}
}

func TestCreateMedicineValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name string
		m    AuthorizedMedicine
	}{
		{"missing name", AuthorizedMedicine{Dosage: "10ml"}},
		{"missing dosage", AuthorizedMedicine{Name: "Amoxicillin"}},
		{"bad route", AuthorizedMedicine{Name: "Amoxicillin", Dosage: "10ml", Route: strPtr("inhaled")}},
		{"negative withdrawal", AuthorizedMedicine{Name: "Amoxicillin", Dosage: "10ml", WithdrawalPeriodDays: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.m
			if err := svc.CreateMedicine(context.Background(), &m); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestCreateMedicineZeroWithdrawalAllowed(t *testing.T) {
	svc := NewService(newMockRepo())

	m := &AuthorizedMedicine{Name: "Vitamin B", Dosage: "5ml", WithdrawalPeriodDays: 0}
	if err := svc.CreateMedicine(context.Background(), m); err != nil {
		t.Errorf("zero withdrawal period should be valid: %v", err)
	}
}

func TestLookup(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	m := &AuthorizedMedicine{Name: "Amoxicillin", Dosage: "10ml", WithdrawalPeriodDays: 7}
	if err := svc.CreateMedicine(context.Background(), m); err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}

	got, err := svc.Lookup(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Name != "Amoxicillin" {
		t.Errorf("wrong medicine: %s", got.Name)
	}

	if _, err := svc.Lookup(context.Background(), uuid.New()); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("expected ErrMedicineNotFound, got %v", err)
	}
}

func TestUpdateMedicine(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	m := &AuthorizedMedicine{Name: "Amoxicillin", Dosage: "10ml", WithdrawalPeriodDays: 7}
	if err := svc.CreateMedicine(context.Background(), m); err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}

	m.WithdrawalPeriodDays = 10
	if err := svc.UpdateMedicine(context.Background(), m); err != nil {
		t.Fatalf("UpdateMedicine: %v", err)
	}
	got, _ := svc.Lookup(context.Background(), m.ID)
	if got.WithdrawalPeriodDays != 10 {
		t.Errorf("update not applied: %d", got.WithdrawalPeriodDays)
	}

	unknown := &AuthorizedMedicine{ID: uuid.New(), Name: "X", Dosage: "1ml"}
	if err := svc.UpdateMedicine(context.Background(), unknown); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("expected ErrMedicineNotFound, got %v", err)
	}
}

func TestListMedicinesPagination(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	for _, name := range []string{"A", "B", "C"} {
		m := &AuthorizedMedicine{Name: name, Dosage: "1ml"}
		if err := svc.CreateMedicine(context.Background(), m); err != nil {
			t.Fatalf("CreateMedicine: %v", err)
		}
	}

	items, total, err := svc.ListMedicines(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Errorf("expected total 3 page 2, got total %d page %d", total, len(items))
	}
}
