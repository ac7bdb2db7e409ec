package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/titanic/pkg/errors"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		NewNumeric("age", []float64{22, math.NaN(), 35}),
		NewCategorical("cabin", []string{"C85", "", "E46"}, []bool{true, false, true}),
	)
	require.NoError(t, err)
	return f
}

func TestNew(t *testing.T) {
	f := sampleFrame(t)
	assert.Equal(t, 3, f.NRows())
	assert.Equal(t, 2, f.NCols())
	assert.Equal(t, []string{"age", "cabin"}, f.Names())
	assert.Equal(t, []int{0, 1, 2}, f.Index())

	t.Run("length mismatch", func(t *testing.T) {
		_, err := New(NewNumeric("a", []float64{1}), NewNumeric("b", []float64{1, 2}))
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := New(NewNumeric("a", []float64{1}), NewNumeric("a", []float64{2}))
		assert.Error(t, err)
	})
}

func TestColumn(t *testing.T) {
	f := sampleFrame(t)

	cabin, err := f.Column("cabin")
	require.NoError(t, err)
	assert.Equal(t, Categorical, cabin.Kind())
	assert.Equal(t, 1, cabin.NullCount())
	v, ok := cabin.String(0)
	assert.True(t, ok)
	assert.Equal(t, "C85", v)
	assert.True(t, cabin.IsNull(1))

	age, err := f.Column("age")
	require.NoError(t, err)
	assert.True(t, age.IsNull(1))
	assert.Equal(t, 35.0, age.Float(2))

	_, err = f.Column("fare")
	var colErr *errors.ColumnNotFoundError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "fare", colErr.Column)
}

func TestSetAndDrop(t *testing.T) {
	f := sampleFrame(t)
	g := f.Copy()

	require.NoError(t, g.Set(NewNumeric("age", []float64{1, 2, 3})))
	require.NoError(t, g.Set(NewNumeric("age_na", []float64{0, 1, 0})))
	assert.Equal(t, []string{"age", "cabin", "age_na"}, g.Names())

	// the original is untouched
	age, _ := f.Column("age")
	assert.Equal(t, 22.0, age.Float(0))

	assert.Error(t, g.Set(NewNumeric("short", []float64{1})))

	require.NoError(t, g.Drop("cabin"))
	assert.Equal(t, []string{"age", "age_na"}, g.Names())
	assert.False(t, g.Has("cabin"))
	assert.Error(t, g.Drop("missing"))
}

func TestTake(t *testing.T) {
	f := sampleFrame(t)

	sub, err := f.Take([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.NRows())
	assert.Equal(t, []int{2, 0}, sub.Index())

	cabin, _ := sub.Column("cabin")
	v, _ := cabin.String(0)
	assert.Equal(t, "E46", v)

	again, err := sub.Take([]int{1})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, again.Index())

	_, err = f.Take([]int{3})
	assert.Error(t, err)
}

func TestMatrix(t *testing.T) {
	f := MustNew(
		NewNumeric("a", []float64{1, 2}),
		NewNumeric("b", []float64{3, 4}),
	)
	m, err := f.Matrix()
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, m.At(1, 1))

	_, err = sampleFrame(t).Matrix()
	var typeErr *errors.ColumnTypeError
	assert.True(t, errors.As(err, &typeErr))
}
