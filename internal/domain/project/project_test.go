package project

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProject(t *testing.T) *Project {
	t.Helper()
	p, err := NewProject(uuid.New(), "prj-1", "Website rebuild", uuid.New())
	require.NoError(t, err)
	return p
}

func TestNewProject(t *testing.T) {
	p := newTestProject(t)
	assert.Equal(t, "PRJ-1", p.Code)
	assert.Equal(t, StatusPlanning, p.Status)
	require.Len(t, p.GetDomainEvents(), 1)

	_, err := NewProject(uuid.New(), "", "X", uuid.New())
	assert.Contains(t, err.Error(), "code cannot be empty")
	_, err = NewProject(uuid.New(), "P", "", uuid.New())
	assert.Contains(t, err.Error(), "name cannot be empty")
	_, err = NewProject(uuid.New(), "P", "X", uuid.Nil)
	assert.Contains(t, err.Error(), "must belong to a company")
}

func TestProject_Progress(t *testing.T) {
	p := newTestProject(t)
	assert.Equal(t, 0, p.Progress())

	var ids []uuid.UUID
	for _, title := range []string{"a", "b", "c"} {
		task, err := p.AddTask(title, "", decimal.NewFromInt(2))
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	assert.Equal(t, 0, p.Progress())

	require.NoError(t, p.SetTaskStatus(ids[0], TaskStatusDone))
	assert.Equal(t, 33, p.Progress())
	require.NoError(t, p.SetTaskStatus(ids[1], TaskStatusInProgress))
	assert.Equal(t, 33, p.Progress())
	require.NoError(t, p.SetTaskStatus(ids[1], TaskStatusDone))
	assert.Equal(t, 66, p.Progress())
	require.NoError(t, p.RemoveTask(ids[2]))
	assert.Equal(t, 100, p.Progress())

	assert.True(t, p.EstimatedHours().Equal(decimal.NewFromInt(4)))
	assert.Error(t, p.SetTaskStatus(uuid.New(), TaskStatusDone))
	assert.Error(t, p.SetTaskStatus(ids[0], "blocked"))
	_, err := p.AddTask(" ", "", decimal.Zero)
	assert.Error(t, err)
}

func TestProject_Lifecycle(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		p := newTestProject(t)
		assert.Error(t, p.Hold())
		require.NoError(t, p.Start())
		assert.NotNil(t, p.StartDate)
		require.NoError(t, p.Hold())
		assert.Error(t, p.Start())
		require.NoError(t, p.Resume())
		require.NoError(t, p.Complete())
		assert.NotNil(t, p.CompletedAt)
		assert.Error(t, p.Cancel())
	})

	t.Run("closed projects are read-only", func(t *testing.T) {
		p := newTestProject(t)
		require.NoError(t, p.Cancel())
		_, err := p.AddTask("late", "", decimal.Zero)
		assert.Contains(t, err.Error(), "cannot be modified")
		assert.Error(t, p.Update("n", "", nil, nil, decimal.Zero))
		assert.Error(t, p.Complete())
	})
}

func TestProject_UpdateAndOverdue(t *testing.T) {
	p := newTestProject(t)
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 1, 0)
	before := start.AddDate(0, 0, -1)

	err := p.Update("Name", "", &start, &before, decimal.Zero)
	assert.Contains(t, err.Error(), "Due date cannot be before start date")
	assert.Error(t, p.Update("Name", "", nil, nil, decimal.NewFromInt(-1)))

	require.NoError(t, p.Update("Name", "desc", &start, &due, decimal.RequireFromString("1000.456")))
	assert.True(t, p.Budget.Equal(decimal.RequireFromString("1000.46")))

	assert.False(t, p.IsOverdue(due))
	assert.True(t, p.IsOverdue(due.Add(time.Hour)))

	require.NoError(t, p.Cancel())
	assert.False(t, p.IsOverdue(due.Add(time.Hour)))
}
