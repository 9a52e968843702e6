package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/careflow-xyz/go-careflow/intervention"
	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/results"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "careflow.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestScenarioRoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	sc := Scenario{
		Name:          "tb-rural",
		Params:        model.DefaultParameters(),
		Interventions: intervention.Config{Triage: true, SelfCare: true},
		DiseaseID:     "tuberculosis",
	}
	if err := s.SaveScenario(ctx, sc); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetScenario(ctx, "tb-rural")
	if err != nil {
		t.Fatal(err)
	}
	if got.Params != sc.Params {
		t.Error("params changed in round trip")
	}
	if !got.Interventions.Triage || !got.Interventions.SelfCare || got.Interventions.CHW {
		t.Errorf("interventions changed: %+v", got.Interventions)
	}
	if got.DiseaseID != "tuberculosis" {
		t.Errorf("disease = %q", got.DiseaseID)
	}
	if got.CreatedAt.IsZero() {
		t.Error("creation time should be stamped on save")
	}
}

func TestSaveScenarioReplacesByName(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	sc := Scenario{Name: "x", Params: model.DefaultParameters()}
	if err := s.SaveScenario(ctx, sc); err != nil {
		t.Fatal(err)
	}
	sc.Params.Lambda = 0.5
	if err := s.SaveScenario(ctx, sc); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetScenario(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Params.Lambda != 0.5 {
		t.Errorf("replace lost the update: lambda %v", got.Params.Lambda)
	}
	list, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("replace duplicated the row: %d scenarios", len(list))
	}
}

func TestScenarioNotFound(t *testing.T) {
	s := openTest(t)
	_, err := s.GetScenario(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
	if err := s.DeleteScenario(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete want ErrNotFound, got %v", err)
	}
}

func TestScenarioRequiresName(t *testing.T) {
	s := openTest(t)
	if err := s.SaveScenario(context.Background(), Scenario{}); err == nil {
		t.Error("nameless scenario must be rejected")
	}
}

func TestListScenariosSorted(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.SaveScenario(ctx, Scenario{Name: name, Params: model.DefaultParameters()}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Name != "alpha" || list[2].Name != "zeta" {
		t.Errorf("unexpected order: %+v", list)
	}
}

func storedRun(id string, cost float64, at time.Time) *results.Results {
	return &results.Results{
		Version:       results.SchemaVersion,
		RunID:         id,
		CreatedAt:     at,
		Params:        model.DefaultParameters(),
		TotalCost:     cost,
		TotalDeaths:   10,
		TotalResolved: 90,
		DALYs:         results.DALYBreakdown{Total: 42},
	}
}

func TestRunRoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	r := storedRun("run-1", 1234, time.Now().UTC())
	if err := s.SaveRun(ctx, "tb-rural", r); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalCost != 1234 || got.DALYs.Total != 42 {
		t.Errorf("run payload changed: %+v", got)
	}
}

func TestListRunsFilterAndOrder(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := s.SaveRun(ctx, "a", storedRun("r1", 1, base)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(ctx, "a", storedRun("r2", 2, base.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(ctx, "b", storedRun("r3", 3, base.Add(2*time.Hour))); err != nil {
		t.Fatal(err)
	}

	all, err := s.ListRuns(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "r3" || all[2].ID != "r1" {
		t.Errorf("wrong order: %+v", all)
	}

	onlyA, err := s.ListRuns(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyA) != 2 {
		t.Errorf("filter returned %d runs, want 2", len(onlyA))
	}
	for _, rec := range onlyA {
		if rec.Scenario != "a" {
			t.Errorf("filter leaked scenario %q", rec.Scenario)
		}
	}
}

func TestRunNotFoundAndDelete(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if _, err := s.GetRun(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
	if err := s.SaveRun(ctx, "", storedRun("r1", 1, time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteRun(ctx, "r1"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteRun(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete want ErrNotFound, got %v", err)
	}
}

func TestSaveRunRequiresID(t *testing.T) {
	s := openTest(t)
	if err := s.SaveRun(context.Background(), "", &results.Results{}); err == nil {
		t.Error("run without id must be rejected")
	}
	if err := s.SaveRun(context.Background(), "", nil); err == nil {
		t.Error("nil run must be rejected")
	}
}
