package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"finplan/internal/models"
)

func TestKey(t *testing.T) {
	a := Key(models.CalcSIP, models.Params{"monthly": 5000.0, "rate": 12.0}, false)
	b := Key(models.CalcSIP, models.Params{"rate": 12.0, "monthly": 5000.0}, false)
	if a != b {
		t.Errorf("key depends on map order: %s vs %s", a, b)
	}

	tests := []struct {
		name string
		key  string
	}{
		{"different tool", Key(models.CalcLumpsum, models.Params{"monthly": 5000.0, "rate": 12.0}, false)},
		{"different value", Key(models.CalcSIP, models.Params{"monthly": 5001.0, "rate": 12.0}, false)},
		{"advanced", Key(models.CalcSIP, models.Params{"monthly": 5000.0, "rate": 12.0}, true)},
	}
	for _, tt := range tests {
		if tt.key == a {
			t.Errorf("%s: key collides with base key", tt.name)
		}
	}
}

func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(5*time.Minute, 10)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := m.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Errorf("Get = %q, %v", v, ok)
	}

	now = now.Add(5 * time.Minute)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("entry should expire after TTL")
	}
}

func TestMemory_Eviction(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour, 3)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"))
		now = now.Add(time.Minute)
	}
	m.Set(ctx, "k3", []byte("v"))

	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
	if _, ok := m.Get(ctx, "k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := m.Get(ctx, "k3"); !ok {
		t.Error("new entry missing")
	}

	// Overwriting an existing key never evicts
	m.Set(ctx, "k1", []byte("w"))
	if m.Len() != 3 {
		t.Errorf("Len after overwrite = %d, want 3", m.Len())
	}
}

func TestResults_GetOrCompute(t *testing.T) {
	ctx := context.Background()
	results := NewResults(NewMemory(time.Minute, 0))

	calls := 0
	compute := func() *models.CalculationResult {
		calls++
		return &models.CalculationResult{
			Tool:    models.CalcEMI,
			Figures: []models.Figure{{Key: "installment", Value: 43391.16}},
			Series:  []models.YearlyDataPoint{{Year: 1, Balance: 100}},
		}
	}

	first := results.GetOrCompute(ctx, "emi", compute)
	second := results.GetOrCompute(ctx, "emi", compute)

	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
	if v, _ := second.Figure("installment"); v != 43391.16 {
		t.Errorf("cached installment = %v", v)
	}
	if second.Tool != first.Tool || len(second.Series) != 1 {
		t.Errorf("cached result = %+v", second)
	}
}

func TestResults_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute, 0)
	store.Set(ctx, "bad", []byte("{not json"))

	if got := NewResults(store).Get(ctx, "bad"); got != nil {
		t.Errorf("Get of corrupt entry = %+v, want nil", got)
	}
}

func TestNew_FallsBackToMemory(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c := New(ctx, "", time.Minute)
	defer c.Close()
	if _, ok := c.(*Memory); !ok {
		t.Errorf("New without redis = %T, want *Memory", c)
	}
}

// Runs against a live server when FINPLAN_TEST_REDIS_ADDR is set
func TestRedis(t *testing.T) {
	addr := os.Getenv("FINPLAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FINPLAN_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	r, err := NewRedis(ctx, addr, time.Minute)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer r.Close()

	key := fmt.Sprintf("test-%d", time.Now().UnixNano())
	if _, ok := r.Get(ctx, key); ok {
		t.Error("unexpected hit before Set")
	}
	if err := r.Set(ctx, key, []byte("value")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := r.Get(ctx, key); !ok || string(v) != "value" {
		t.Errorf("Get = %q, %v", v, ok)
	}
}
