package engine

import (
	"bytes"
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArrow(t *testing.T) {
	v := Apply(sampleDataset(), Filters{Countries: RestrictedTo("France")})

	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, v))

	rdr, err := ipc.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer rdr.Release()

	assert.True(t, rdr.Schema().Equal(ExportSchema))
	require.True(t, rdr.Next())
	rec := rdr.Record()
	require.EqualValues(t, 2, rec.NumRows())

	countries := rec.Column(1).(*array.String)
	assert.Equal(t, "France", countries.Value(0))
	amounts := rec.Column(4).(*array.Float64)
	assert.Equal(t, 50.0, amounts.Value(0))
	assert.Equal(t, 200.0, amounts.Value(1))
	months := rec.Column(8).(*array.String)
	assert.Equal(t, "May", months.Value(0))

	assert.False(t, rdr.Next())
}

func TestWriteArrowEmptyView(t *testing.T) {
	v := Apply(sampleDataset(), Filters{Countries: RestrictedTo[string]()})

	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, v))

	rdr, err := ipc.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer rdr.Release()

	assert.True(t, rdr.Schema().Equal(ExportSchema))
	for rdr.Next() {
		assert.EqualValues(t, 0, rdr.Record().NumRows())
	}
	assert.NoError(t, rdr.Err())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteArrowWriterError(t *testing.T) {
	err := WriteArrow(failingWriter{}, All(sampleDataset()))
	assert.ErrorContains(t, err, "disk full")
}
