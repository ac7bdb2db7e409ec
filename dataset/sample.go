package dataset

import (
	"bytes"
	_ "embed"
	"io"
)

//go:embed testdata/titanic_sample.csv
var sampleCSV []byte

// Sample returns a reader over a small bundled titanic sample in the raw CSV
// format, used by examples and tests.
func Sample() io.Reader {
	return bytes.NewReader(sampleCSV)
}
