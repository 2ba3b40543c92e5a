package factor

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeFactorRepo struct {
	rows     map[string]float64
	getErr   error
	seeded   map[string]float64
	upserted map[string]float64
}

func newFakeFactorRepo() *fakeFactorRepo {
	return &fakeFactorRepo{
		rows:     map[string]float64{},
		upserted: map[string]float64{},
	}
}

func (f *fakeFactorRepo) GetByType(ctx context.Context, activityType string) (*EmissionFactor, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if v, ok := f.rows[activityType]; ok {
		return &EmissionFactor{ActivityType: activityType, Factor: v, UpdatedAt: time.Now()}, nil
	}
	return nil, nil
}

func (f *fakeFactorRepo) List(ctx context.Context) ([]EmissionFactor, error) {
	out := make([]EmissionFactor, 0, len(f.rows))
	for k, v := range f.rows {
		out = append(out, EmissionFactor{ActivityType: k, Factor: v})
	}
	return out, nil
}

func (f *fakeFactorRepo) Upsert(ctx context.Context, activityType string, value float64) error {
	f.rows[activityType] = value
	f.upserted[activityType] = value
	return nil
}

func (f *fakeFactorRepo) SeedMissing(ctx context.Context, defaults map[string]float64) error {
	f.seeded = defaults
	for k, v := range defaults {
		if _, ok := f.rows[k]; !ok {
			f.rows[k] = v
		}
	}
	return nil
}

func TestFactorForPrefersDatabase(t *testing.T) {
	repo := newFakeFactorRepo()
	repo.rows["Car (Petrol) Travel"] = 0.19 // admin override

	svc := NewService(repo, nil)

	got := svc.FactorFor(context.Background(), "Car (Petrol) Travel")
	if got != 0.19 {
		t.Errorf("expected database factor 0.19, got %v", got)
	}
}

func TestFactorForFallsBackToDefaults(t *testing.T) {
	svc := NewService(newFakeFactorRepo(), nil)

	got := svc.FactorFor(context.Background(), "Car (Petrol) Travel")
	if got != 0.21 {
		t.Errorf("expected built-in factor 0.21, got %v", got)
	}
}

func TestFactorForUnknownType(t *testing.T) {
	svc := NewService(newFakeFactorRepo(), nil)

	got := svc.FactorFor(context.Background(), "Underwater Basket Weaving")
	if got != DefaultFactor {
		t.Errorf("expected default factor %v, got %v", DefaultFactor, got)
	}
}

func TestFactorForDatabaseErrorDegrades(t *testing.T) {
	repo := newFakeFactorRepo()
	repo.getErr = errors.New("connection refused")

	svc := NewService(repo, nil)

	got := svc.FactorFor(context.Background(), "Train Travel")
	if got != 0.04 {
		t.Errorf("expected built-in factor 0.04 despite db error, got %v", got)
	}
}

func TestFactorForNegativeFactor(t *testing.T) {
	svc := NewService(newFakeFactorRepo(), nil)

	got := svc.FactorFor(context.Background(), "Tree Planting")
	if got >= 0 {
		t.Errorf("expected negative factor for Tree Planting, got %v", got)
	}
}

func TestUpsertStoresFactor(t *testing.T) {
	repo := newFakeFactorRepo()
	svc := NewService(repo, nil)

	if err := svc.Upsert(context.Background(), "Electricity Usage", 0.75); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.upserted["Electricity Usage"] != 0.75 {
		t.Errorf("expected upserted factor 0.75, got %v", repo.upserted["Electricity Usage"])
	}
	if got := svc.FactorFor(context.Background(), "Electricity Usage"); got != 0.75 {
		t.Errorf("expected lookup to return 0.75 after upsert, got %v", got)
	}
}

func TestSeedKeepsExistingRows(t *testing.T) {
	repo := newFakeFactorRepo()
	repo.rows["Electricity Usage"] = 0.75 // pre-existing admin value

	svc := NewService(repo, nil)
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.seeded) == 0 {
		t.Fatal("expected seed to pass defaults to repository")
	}
	if repo.rows["Electricity Usage"] != 0.75 {
		t.Errorf("expected existing row untouched, got %v", repo.rows["Electricity Usage"])
	}
	if repo.rows["Train Travel"] != 0.04 {
		t.Errorf("expected missing row seeded with 0.04, got %v", repo.rows["Train Travel"])
	}
}
