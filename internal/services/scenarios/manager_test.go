package scenarios

import (
	"errors"
	"testing"
	"time"

	"finplan/internal/models"
	"finplan/internal/services/storage"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	m := NewManager(store)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return m
}

func TestLoad_Empty(t *testing.T) {
	m := newManager(t)
	file, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.Version != currentVersion || len(file.Scenarios) != 0 || file.Removed == nil {
		t.Errorf("empty file = %+v", file)
	}
}

func TestCreateAndCalculate(t *testing.T) {
	m := newManager(t)

	s, err := m.Create("  Home loan  ", models.CalcEMI, models.Params{"loan": 5000000.0, "rate": 8.5, "tenure": 20.0}, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == "" || s.Name != "Home loan" {
		t.Errorf("scenario = %+v", s)
	}
	if s.Query != "tool=emi&loan=5000000&rate=8.5&tenure=20" {
		t.Errorf("Query = %q", s.Query)
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	result, err := Calculate(got)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if v, _ := result.Figure("installment"); v < 43390 || v > 43392 {
		t.Errorf("installment = %v, want ~43391", v)
	}
}

func TestCreate_Validation(t *testing.T) {
	m := newManager(t)

	if _, err := m.Create(" ", models.CalcSIP, nil, false); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name err = %v", err)
	}
	if _, err := m.Create("x", "bogus", nil, false); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("unknown tool err = %v", err)
	}
}

func TestListFiltersByTool(t *testing.T) {
	m := newManager(t)
	m.Create("a", models.CalcSIP, models.Params{"monthly": 1000.0}, false)
	m.Create("b", models.CalcTax, models.Params{"ctc": 900000.0}, false)
	m.Create("c", models.CalcSIP, models.Params{"monthly": 2000.0}, true)

	all, _ := m.List("")
	sips, _ := m.List(models.CalcSIP)
	if len(all) != 3 || len(sips) != 2 {
		t.Errorf("List all=%d sip=%d, want 3 and 2", len(all), len(sips))
	}
}

func TestUpdate(t *testing.T) {
	m := newManager(t)
	s, _ := m.Create("plan", models.CalcSIP, models.Params{"monthly": 1000.0}, false)

	updated, err := m.Update(s.ID, "", models.Params{"monthly": 2500.0, "stepUp": 10.0}, true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "plan" {
		t.Errorf("blank name should keep the old one, got %q", updated.Name)
	}
	if !updated.Advanced || !updated.UpdatedAt.After(s.CreatedAt) {
		t.Errorf("updated = %+v", updated)
	}

	params, err := Params(updated)
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if params.Number("monthly", 0) != 2500 || params.Number("stepUp", 0) != 10 {
		t.Errorf("params = %v", params)
	}

	if _, err := m.Update("missing", "x", nil, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing err = %v", err)
	}
}

func TestRemoveAndRestore(t *testing.T) {
	m := newManager(t)
	s, _ := m.Create("plan", models.CalcSWP, nil, false)

	if err := m.Remove(s.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after remove err = %v", err)
	}
	if err := m.Remove(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove err = %v", err)
	}

	restored, err := m.Restore(s.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.ID != s.ID {
		t.Errorf("restored id = %s", restored.ID)
	}
	file, _ := m.Load()
	if len(file.Scenarios) != 1 || len(file.Removed) != 0 {
		t.Errorf("after restore: %d active, %d removed", len(file.Scenarios), len(file.Removed))
	}
}

func TestRemovedHistoryIsBounded(t *testing.T) {
	m := newManager(t)
	for i := 0; i < maxRemoved+5; i++ {
		s, _ := m.Create("tmp", models.CalcTax, nil, false)
		m.Remove(s.ID)
	}
	file, _ := m.Load()
	if len(file.Removed) != maxRemoved {
		t.Errorf("removed history = %d, want %d", len(file.Removed), maxRemoved)
	}
}

func TestPersistsAcrossManagers(t *testing.T) {
	dir := t.TempDir()
	store, _ := storage.Open(dir)
	s, err := NewManager(store).Create("kept", models.CalcLumpsum, models.Params{"mode": "reverse"}, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	reopened, _ := storage.Open(dir)
	got, err := NewManager(reopened).Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	params, _ := Params(got)
	if params.Enum("mode", "") != "reverse" {
		t.Errorf("mode = %v", params["mode"])
	}
}
