package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
		ok       bool
	}{
		{name: "todo", input: "todo", expected: StatusTodo, ok: true},
		{name: "done uppercase", input: " DONE ", expected: StatusDone, ok: true},
		{name: "unknown", input: "doing", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusDone, StatusTodo.Toggle())
	assert.Equal(t, StatusTodo, StatusDone.Toggle())
}

func TestPriority_Rank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, PriorityMedium.Rank(), Priority("urgent").Rank())
}

func TestParsePriority(t *testing.T) {
	p, ok := ParsePriority("High")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	_, ok = ParsePriority("critical")
	assert.False(t, ok)
}

func TestTaskRef_String(t *testing.T) {
	ref := TaskRef{OwnerID: "u1", ID: "t1"}
	assert.Equal(t, "users/u1/tasks/t1", ref.String())
}

func TestTask_Ownership(t *testing.T) {
	task := Task{ID: "t1", OwnerID: "u1", SharedWith: []string{"u2"}}

	assert.True(t, task.IsOwnedBy("u1"))
	assert.False(t, task.IsOwnedBy("u2"))
	assert.False(t, task.IsOwnedBy(""))
	assert.True(t, task.IsSharedWith("u2"))
	assert.False(t, task.IsSharedWith("u3"))
	assert.Equal(t, TaskRef{OwnerID: "u1", ID: "t1"}, task.Ref())
}

func TestTask_Clone(t *testing.T) {
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	task := Task{Title: "Original", SharedWith: []string{"u2"}, DueDate: &due}

	clone := task.Clone()
	clone.SharedWith[0] = "u3"
	*clone.DueDate = due.AddDate(0, 0, 1)

	assert.Equal(t, "u2", task.SharedWith[0])
	assert.Equal(t, due, *task.DueDate)
}

func TestTask_String(t *testing.T) {
	assert.Equal(t, "My Task", Task{Title: "My Task"}.String())
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, 3, 9, 23, 15, 0, 0, time.FixedZone("X", 5*3600))
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), DateOf(in))
}

func TestSameDate(t *testing.T) {
	a := time.Date(2024, 3, 9, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	c := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(b, c))
}

func TestTaskPatch_Apply(t *testing.T) {
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	base := Task{
		ID:          "t1",
		OwnerID:     "u1",
		Title:       "Write report",
		Description: "Q2",
		Status:      StatusTodo,
		Priority:    PriorityLow,
		DueDate:     &due,
		SharedWith:  []string{},
	}

	title := "Write final report"
	high := PriorityHigh

	tests := []struct {
		name   string
		patch  TaskPatch
		verify func(t *testing.T, result Task)
	}{
		{
			name:  "empty patch preserves everything",
			patch: TaskPatch{},
			verify: func(t *testing.T, result Task) {
				assert.Equal(t, base, result)
			},
		},
		{
			name:  "updates only given fields",
			patch: TaskPatch{Title: &title, Priority: &high},
			verify: func(t *testing.T, result Task) {
				assert.Equal(t, title, result.Title)
				assert.Equal(t, PriorityHigh, result.Priority)
				assert.Equal(t, "Q2", result.Description)
				assert.Equal(t, "u1", result.OwnerID)
				assert.Equal(t, due, *result.DueDate)
			},
		},
		{
			name:  "clears due date",
			patch: TaskPatch{ClearDueDate: true},
			verify: func(t *testing.T, result Task) {
				assert.Nil(t, result.DueDate)
			},
		},
		{
			name:  "new due date is truncated to a date",
			patch: TaskPatch{DueDate: timePtr(time.Date(2024, 6, 2, 15, 30, 0, 0, time.UTC))},
			verify: func(t *testing.T, result Task) {
				assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), *result.DueDate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, tt.patch.Apply(base))
		})
	}

	assert.True(t, TaskPatch{}.IsEmpty())
	assert.False(t, TaskPatch{ClearDueDate: true}.IsEmpty())
}

func timePtr(t time.Time) *time.Time {
	return &t
}
