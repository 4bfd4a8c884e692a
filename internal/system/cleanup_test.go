package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupStackRunsInReverse(t *testing.T) {
	var order []int
	s := NewCleanupStack()
	for i := 1; i <= 3; i++ {
		i := i
		s.Add(func() error {
			order = append(order, i)
			return nil
		})
	}
	require.NoError(t, s.Execute())
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestCleanupStackCollectsErrors(t *testing.T) {
	s := NewCleanupStack()
	s.Add(func() error { return errors.New("first") })
	s.Add(func() error { return errors.New("second") })

	err := s.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestCleanupStackClear(t *testing.T) {
	called := false
	s := NewCleanupStack()
	s.Add(func() error {
		called = true
		return nil
	})
	s.Clear()
	require.NoError(t, s.Execute())
	assert.False(t, called)
}
