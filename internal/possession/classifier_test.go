package possession

import (
	"errors"
	"testing"
	"time"

	"match-ledger-service/internal/domain"
)

func goals(sides ...domain.TeamSide) []domain.GameEvent {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	events := make([]domain.GameEvent, len(sides))
	for i, side := range sides {
		events[i] = domain.GameEvent{
			Type:      domain.EventGoal,
			Team:      side,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return events
}

func TestClassifyStartingOnOffense(t *testing.T) {
	stats, err := Classify(domain.PossessionOffense, goals(domain.SideUs, domain.SideThem, domain.SideUs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.LineStats{
		OLinePoints:          2,
		OLineHolds:           2,
		OLineHoldPercentage:  100,
		DLinePoints:          1,
		DLineBreaks:          0,
		DLineBreakPercentage: 0,
	}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestClassifyStartingOnDefense(t *testing.T) {
	stats, err := Classify(domain.PossessionDefense, goals(domain.SideUs, domain.SideThem, domain.SideUs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.LineStats{
		OLinePoints:          1,
		OLineHolds:           1,
		OLineHoldPercentage:  100,
		DLinePoints:          2,
		DLineBreaks:          1,
		DLineBreakPercentage: 50,
	}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestClassifyUnknownPossessionIsUnavailable(t *testing.T) {
	_, err := Classify(domain.PossessionUnknown, goals(domain.SideUs))
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClassifyIgnoresNonGoalEvents(t *testing.T) {
	events := goals(domain.SideUs)
	events = append(events, domain.GameEvent{Type: domain.EventTimeout, Team: domain.SideUs})

	stats, err := Classify(domain.PossessionOffense, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.OLinePoints+stats.DLinePoints != 1 {
		t.Fatalf("timeout should not count as a point: %+v", stats)
	}
}

func TestClassifyNoGoals(t *testing.T) {
	stats, err := Classify(domain.PossessionOffense, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats != (domain.LineStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestPercentageRoundsHalfUp(t *testing.T) {
	cases := []struct {
		num, denom, want int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{0, 0, 0},
		{3, 4, 75},
		{1, 8, 13},
	}
	for _, tc := range cases {
		if got := Percentage(tc.num, tc.denom); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tc.num, tc.denom, got, tc.want)
		}
	}
}
