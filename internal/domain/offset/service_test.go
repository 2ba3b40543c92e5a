package offset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeOffsetRepo struct {
	programs map[uuid.UUID]*Program
	credits  float64
	txns     []Transaction
}

func newFakeOffsetRepo(credits float64) *fakeOffsetRepo {
	return &fakeOffsetRepo{programs: map[uuid.UUID]*Program{}, credits: credits}
}

func (f *fakeOffsetRepo) addProgram(name string, rate float64) *Program {
	p := &Program{ID: uuid.New(), Name: name, RatePerKg: rate, CreatedAt: time.Now()}
	f.programs[p.ID] = p
	return p
}

func (f *fakeOffsetRepo) GetProgram(ctx context.Context, id uuid.UUID) (*Program, error) {
	return f.programs[id], nil
}

func (f *fakeOffsetRepo) ListPrograms(ctx context.Context) ([]Program, error) {
	out := make([]Program, 0, len(f.programs))
	for _, p := range f.programs {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeOffsetRepo) CountPrograms(ctx context.Context) (int, error) {
	return len(f.programs), nil
}

func (f *fakeOffsetRepo) CreateProgram(ctx context.Context, p *Program) error {
	cp := *p
	f.programs[p.ID] = &cp
	return nil
}

func (f *fakeOffsetRepo) Offset(ctx context.Context, userID uuid.UUID, program *Program, co2Kg float64) (*Result, error) {
	required := program.RatePerKg * co2Kg
	if f.credits < required {
		return nil, fmt.Errorf("%w: need %.2f but have %.2f", ErrInsufficientCredits, required, f.credits)
	}
	f.credits -= required
	txn := Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		ProgramID:   program.ID,
		CO2Offset:   co2Kg,
		CreditsUsed: required,
		CreatedAt:   time.Now(),
	}
	f.txns = append(f.txns, txn)
	return &Result{Transaction: txn, Credits: f.credits}, nil
}

func (f *fakeOffsetRepo) ListTransactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	return f.txns, nil
}

func TestOffsetDeductsExactCost(t *testing.T) {
	repo := newFakeOffsetRepo(100)
	program := repo.addProgram("Tree Plantation Drive", 0.5)
	svc := NewService(repo)

	resp, err := svc.Offset(context.Background(), uuid.New(), &OffsetRequest{
		ProgramID: program.ID,
		CO2Amount: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(resp.CreditsUsed, 25) {
		t.Errorf("expected 25 credits used, got %v", resp.CreditsUsed)
	}
	if !almostEqual(resp.Credits, 75) {
		t.Errorf("expected balance 75, got %v", resp.Credits)
	}
	if resp.ProgramName != "Tree Plantation Drive" {
		t.Errorf("unexpected program name %q", resp.ProgramName)
	}
	if len(repo.txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(repo.txns))
	}
}

func TestOffsetInsufficientCredits(t *testing.T) {
	repo := newFakeOffsetRepo(20)
	program := repo.addProgram("Tree Plantation Drive", 0.5)
	svc := NewService(repo)

	_, err := svc.Offset(context.Background(), uuid.New(), &OffsetRequest{
		ProgramID: program.ID,
		CO2Amount: 50,
	})
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if want := "need 25.00 but have 20.00"; err.Error() != "not enough credits: "+want {
		t.Errorf("unexpected error message %q", err.Error())
	}

	// Rejected offset leaves the balance and record log untouched
	if !almostEqual(repo.credits, 20) {
		t.Errorf("expected credits untouched at 20, got %v", repo.credits)
	}
	if len(repo.txns) != 0 {
		t.Errorf("expected no transactions, got %d", len(repo.txns))
	}
}

func TestOffsetUnknownProgram(t *testing.T) {
	svc := NewService(newFakeOffsetRepo(100))

	_, err := svc.Offset(context.Background(), uuid.New(), &OffsetRequest{
		ProgramID: uuid.New(),
		CO2Amount: 10,
	})
	if !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound, got %v", err)
	}
}

func TestOffsetRejectsNonPositiveAmount(t *testing.T) {
	repo := newFakeOffsetRepo(100)
	program := repo.addProgram("Ocean Cleanup Program", 1.0)
	svc := NewService(repo)

	for _, amount := range []float64{0, -5} {
		_, err := svc.Offset(context.Background(), uuid.New(), &OffsetRequest{
			ProgramID: program.ID,
			CO2Amount: amount,
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	repo := newFakeOffsetRepo(0)
	svc := NewService(repo)

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.programs) != 3 {
		t.Fatalf("expected 3 seeded programs, got %d", len(repo.programs))
	}

	// Second seed must not duplicate the catalog
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.programs) != 3 {
		t.Fatalf("expected catalog unchanged at 3 programs, got %d", len(repo.programs))
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
