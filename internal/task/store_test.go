package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langchou/cellbench/internal/models"
)

func TestStore_AddAssignsIncreasingIDs(t *testing.T) {
	s := NewStore()

	a, err := s.Add(60, models.CCCV{CCCP: "5A", CVVoltage: 3.6, Current: 1, Capacity: 1})
	require.NoError(t, err)
	b, err := s.Add(30, models.Idle{})
	require.NoError(t, err)
	c, err := s.Add(90, models.CCCD{CCCP: "10W", Voltage: 3.2, Capacity: 1})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, []int{a.ID, b.ID, c.ID})
	assert.Equal(t, "task_3", c.Key())
	assert.Equal(t, models.TaskCCCD, c.Type())
}

func TestStore_AddTrimsCCCP(t *testing.T) {
	s := NewStore()

	rec, err := s.Add(10, models.CCCD{CCCP: "  7a "})
	require.NoError(t, err)

	assert.Equal(t, "7a", rec.Spec.(models.CCCD).CCCP)
}

func TestStore_AddValidationFailureLeavesStateUntouched(t *testing.T) {
	s := NewStore()

	_, err := s.Add(60, models.Idle{})
	require.NoError(t, err)

	_, err = s.Add(0, models.CCCV{CCCP: "5X"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "time_seconds", verr.Fields[0].Field)
	assert.Equal(t, "cc_cp", verr.Fields[1].Field)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	assert.ErrorIs(t, err, ErrBadSuffix)

	assert.Equal(t, 1, s.Len())

	next, err := s.Add(5, models.Idle{})
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID)
}

func TestStore_AddRejectsEmptyCCCPForBothVariants(t *testing.T) {
	s := NewStore()

	_, err := s.Add(10, models.CCCV{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = s.Add(10, models.CCCD{CCCP: "   "})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = s.Add(10, nil)
	assert.ErrorIs(t, err, ErrMissingSpec)

	assert.Equal(t, 0, s.Len())
}

func TestStore_IdleSkipsCCCPCheck(t *testing.T) {
	_, err := NewStore().Add(1, models.Idle{})
	assert.NoError(t, err)
}

func TestStore_DeleteMissingIsNoop(t *testing.T) {
	s := NewStore()
	_, err := s.Add(60, models.Idle{})
	require.NoError(t, err)

	assert.False(t, s.Delete(42))
	assert.Len(t, s.List(), 1)
}

func TestStore_DeleteDoesNotReuseIDs(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		_, err := s.Add(10, models.Idle{})
		require.NoError(t, err)
	}

	assert.True(t, s.Delete(3))
	assert.True(t, s.Delete(1))

	rec, err := s.Add(10, models.Idle{})
	require.NoError(t, err)
	assert.Equal(t, 4, rec.ID)

	ids := []int{}
	for _, r := range s.List() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{2, 4}, ids)

	_, ok := s.Get(1)
	assert.False(t, ok)
	got, ok := s.Get(4)
	assert.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestStore_ResetRestartsCounter(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		_, err := s.Add(10, models.Idle{})
		require.NoError(t, err)
	}

	s.Reset()
	assert.Empty(t, s.List())

	rec, err := s.Add(10, models.Idle{})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)
}

func TestStore_Summary(t *testing.T) {
	s := NewStore()
	assert.Equal(t, models.TaskSummary{MostCommonType: models.NoTaskType}, s.Summary())

	_, _ = s.Add(60, models.Idle{})
	_, _ = s.Add(30, models.CCCV{CCCP: "1A"})
	_, _ = s.Add(90, models.CCCV{CCCP: "2A"})
	_, _ = s.Add(15, models.Idle{})

	sum := s.Summary()
	assert.Equal(t, 4, sum.TotalTasks)
	assert.Equal(t, 195, sum.TotalDurationSeconds)
	// 平局时取最先出现的类型
	assert.Equal(t, models.TaskIdle, sum.MostCommonType)
}

func TestValidateUnknownType_ReportsDurationToo(t *testing.T) {
	err := ValidateUnknownType(0, "CC_XX")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "time_seconds", verr.Fields[0].Field)
	assert.Equal(t, "task_type", verr.Fields[1].Field)
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Contains(t, err.Error(), `"CC_XX"`)

	err = ValidateUnknownType(30, "REST")
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 1)
}
