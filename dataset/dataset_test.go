package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/titanic/config"
	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/pkg/errors"
)

const raw = `pclass,survived,name,sex,age,sibsp,parch,ticket,fare,cabin,embarked,boat,body,home.dest
1,1,"Allen, Miss. Elisabeth Walton",female,29,0,0,24160,211.3375,B5,S,2,?,"St Louis, MO"
1,1,"Allison, Master. Hudson Trevor",male,0.9167,1,2,113781,151.55,C22 C26,S,11,?,"Montreal, PQ"
3,0,"Abbing, Mr. Anthony",male,42,0,0,C.A. 5547,7.55,?,S,?,?,?
2,1,"Angle, Mrs. William A (Florence Mary Agnes Hughes)",female,36,1,0,226875,26,?,S,11,?,"Warwick, England"
1,0,"Artagaveytia, Dr. Ramon",male,?,0,0,PC 17609,49.5042,?,C,?,22,"Montevideo, Uruguay"
`

func modelConfig() config.ModelConfig {
	return config.Default().Model
}

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(raw), modelConfig())
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, modelConfig().Features, ds.X.Names())
	assert.Equal(t, []float64{1, 1, 0, 1, 0}, ds.Y.RawVector().Data)

	title, err := ds.X.Column("title")
	require.NoError(t, err)
	titles, _ := title.Strings()
	assert.Equal(t, []string{"Miss", "Master", "Mr", "Mrs", "Other"}, titles)

	cabin, _ := ds.X.Column("cabin")
	assert.Equal(t, frame.Categorical, cabin.Kind())
	cabins, valid := cabin.Strings()
	assert.Equal(t, "C22", cabins[1])
	assert.Equal(t, []bool{true, true, false, false, false}, valid)

	age, _ := ds.X.Column("age")
	assert.Equal(t, frame.Numeric, age.Kind())
	assert.True(t, math.IsNaN(age.Float(4)))
	assert.Equal(t, 0.9167, age.Float(1))

	assert.False(t, ds.X.Has("ticket"))
	assert.False(t, ds.X.Has("home.dest"))
	assert.False(t, ds.X.Has("survived"))
}

func TestReadCSV_WithoutTarget(t *testing.T) {
	in := `pclass,name,sex,age,sibsp,parch,fare,cabin,embarked
3,"Kelly, Mr. James",male,34.5,0,0,7.8292,?,Q
`
	ds, err := ReadCSV(strings.NewReader(in), modelConfig())
	require.NoError(t, err)
	assert.Nil(t, ds.Y)
	assert.Equal(t, 1, ds.Len())
}

func TestReadCSV_Errors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		in := "pclass,name,sex,age,sibsp,parch,fare,cabin\n3,\"Kelly, Mr. James\",male,34.5,0,0,7.8,?\n"
		_, err := ReadCSV(strings.NewReader(in), modelConfig())
		var cnf *errors.ColumnNotFoundError
		require.True(t, errors.As(err, &cnf))
		assert.Equal(t, "embarked", cnf.Column)
	})

	t.Run("bad number", func(t *testing.T) {
		in := strings.Replace(raw, ",29,", ",twenty,", 1)
		_, err := ReadCSV(strings.NewReader(in), modelConfig())
		var cte *errors.ColumnTypeError
		require.True(t, errors.As(err, &cte))
		assert.Equal(t, "age", cte.Column)
		assert.Equal(t, 0, cte.Row)
	})

	t.Run("bad label", func(t *testing.T) {
		in := strings.Replace(raw, "1,1,\"Allen", "1,2,\"Allen", 1)
		_, err := ReadCSV(strings.NewReader(in), modelConfig())
		var cte *errors.ColumnTypeError
		assert.True(t, errors.As(err, &cte))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""), modelConfig())
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"Cumings, Mrs. John Bradley (Florence Briggs Thayer)": "Mrs",
		"Braund, Mr. Owen Harris":                              "Mr",
		"Heikkinen, Miss. Laina":                               "Miss",
		"Palsson, Master. Gosta Leonard":                       "Master",
		"Uruchurtu, Don. Manuel E":                             "Other",
	}
	for name, want := range tests {
		assert.Equal(t, want, Title(name), name)
	}
}

func TestTrainTestSplit(t *testing.T) {
	ds, err := ReadCSV(Sample(), modelConfig())
	require.NoError(t, err)
	n := ds.Len()

	train, test, err := TrainTestSplit(ds, 0.2, 0)
	require.NoError(t, err)
	assert.Equal(t, int(math.Ceil(0.2*float64(n))), test.Len())
	assert.Equal(t, n, train.Len()+test.Len())

	// 同じ乱数シードからは同じ分割
	train2, test2, err := TrainTestSplit(ds, 0.2, 0)
	require.NoError(t, err)
	assert.Equal(t, test.X.Index(), test2.X.Index())
	assert.Equal(t, train.X.Index(), train2.X.Index())
	assert.Equal(t, test.Y.RawVector().Data, test2.Y.RawVector().Data)

	// 分割は元データの行を重複なく覆い、ラベルは行と揃っている
	seen := make(map[int]bool, n)
	for _, part := range []*Dataset{train, test} {
		for i, row := range part.X.Index() {
			assert.False(t, seen[row])
			seen[row] = true
			assert.Equal(t, ds.Y.AtVec(row), part.Y.AtVec(i))
		}
	}
	assert.Len(t, seen, n)

	_, other, err := TrainTestSplit(ds, 0.2, 1)
	require.NoError(t, err)
	assert.NotEqual(t, test.X.Index(), other.X.Index())

	_, _, err = TrainTestSplit(ds, 1.0, 0)
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}
