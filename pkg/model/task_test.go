package model

import (
	"math"
	"strings"
	"testing"
)

func TestTask_Derived(t *testing.T) {
	task := Task{ID: "task_a", Kind: TaskKindPeriodic, WCET: 2, Deadline: 5, Period: 10}

	if got := task.Utilization(); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("Utilization: got %v, want 0.2", got)
	}
	if got := task.Density(); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("Density: got %v, want 0.4 (wcet over min(deadline, period))", got)
	}
	if task.Implicit() {
		t.Error("deadline 5 != period 10, expected Implicit() == false")
	}
}

func TestTask_DensityUsesSmallerOfDeadlineAndPeriod(t *testing.T) {
	// Deadline beyond the period: density falls back to the period.
	task := Task{WCET: 3, Deadline: 12, Period: 6}
	if got := task.Density(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Density: got %v, want 0.5", got)
	}
}

func TestTask_Validate(t *testing.T) {
	cases := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{"valid", Task{WCET: 1, Deadline: 4, Period: 4}, false},
		{"zero wcet", Task{WCET: 0, Deadline: 4, Period: 4}, false},
		{"negative wcet", Task{WCET: -1, Deadline: 4, Period: 4}, true},
		{"zero deadline", Task{WCET: 1, Deadline: 0, Period: 4}, true},
		{"zero period", Task{WCET: 1, Deadline: 4, Period: 0}, true},
		{"wcet exceeds deadline", Task{WCET: 5, Deadline: 4, Period: 4}, true},
		{"wcet exceeds period", Task{WCET: 5, Deadline: 6, Period: 4}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil, got %v", err)
			}
			if err != nil && CodeOf(err) != ErrInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %s", CodeOf(err))
			}
		})
	}
}

func TestNewPeriodicTask_AssignsID(t *testing.T) {
	task := NewPeriodicTask(1, 4, 4)
	if !strings.HasPrefix(task.ID, "task_") {
		t.Errorf("expected task_ prefix, got %q", task.ID)
	}
	if task.Kind != TaskKindPeriodic {
		t.Errorf("expected periodic kind, got %q", task.Kind)
	}
}

func TestTaskSet_Validate(t *testing.T) {
	if err := (TaskSet{}).Validate(); CodeOf(err) != ErrInvalidInput {
		t.Errorf("empty set: expected INVALID_INPUT, got %v", err)
	}

	ts := TaskSet{
		{WCET: 1, Deadline: 4, Period: 4},
		{WCET: 5, Deadline: 4, Period: 4}, // invalid member
	}
	if err := ts.Validate(); CodeOf(err) != ErrInvalidInput {
		t.Errorf("invalid member: expected INVALID_INPUT, got %v", err)
	}
}

func TestTaskSet_ImplicitAndUtilization(t *testing.T) {
	ts := TaskSet{
		{WCET: 1, Deadline: 4, Period: 4},
		{WCET: 2, Deadline: 8, Period: 8},
	}
	if !ts.Implicit() {
		t.Error("all deadlines equal periods, expected Implicit() == true")
	}
	if got := ts.TotalUtilization(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("TotalUtilization: got %v, want 0.5", got)
	}

	ts = append(ts, Task{WCET: 1, Deadline: 3, Period: 6})
	if ts.Implicit() {
		t.Error("constrained-deadline member present, expected Implicit() == false")
	}
}
