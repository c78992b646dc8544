package dataset

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/featab/encoding"
	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/table"
	"github.com/arloliu/featab/thresholds"
)

const sample = `2 qid:1 1:3 2:0.5 3:12.25
0 qid:1 1:0 2:0 3:0 # docid = 17

1 qid:10 1:7 2:1 3:-4
`

func TestParseLine(t *testing.T) {
	rec, err := ParseLine("2 qid:1 1:3 2:0.5 3:12.25")
	require.NoError(t, err)
	require.Equal(t, 2, rec.Label)
	require.Equal(t, "1", rec.Query)
	require.Equal(t, encoding.SparseRow{0: 3, 1: 0.5, 2: 12.25}, rec.Features)

	v, ok := rec.Value(2)
	require.True(t, ok)
	require.Equal(t, 12.25, v)

	_, ok = rec.Value(3)
	require.False(t, ok)
}

func TestParseLine_Malformed(t *testing.T) {
	lines := []string{
		"2",
		"x qid:1 1:3",
		"2 query:1 1:3",
		"2 qid:1 1=3",
		"2 qid:1 0:3",
		"2 qid:1 a:3",
		"2 qid:1 1:abc",
		"2 qid:1 1:3 1:4",
	}
	for _, line := range lines {
		_, err := ParseLine(line)
		require.ErrorIs(t, err, errs.ErrMalformedRow, line)
	}
}

func TestReader(t *testing.T) {
	records, err := ReadAll(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, []int{2, 0, 1}, []int{records[0].Label, records[1].Label, records[2].Label})
	require.Equal(t, "10", records[2].Query)
	require.Equal(t, encoding.SparseRow{0: 0, 1: 0, 2: 0}, records[1].Features)

	r := NewReader(strings.NewReader(""))
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReader_ErrorCarriesRecordIndex(t *testing.T) {
	_, err := ReadAll(strings.NewReader("1 qid:1 1:1\n1 qid:1 1:x\n"))
	require.ErrorIs(t, err, errs.ErrMalformedRow)

	var re *errs.RowError
	require.ErrorAs(t, err, &re)
	require.Equal(t, 1, re.Row)
}

func TestReadMSLR_FeedsEncoder(t *testing.T) {
	tbl, err := table.Build(thresholds.Set{0: {1, 5, 10}, 1: {0.2, 0.4, 0.8}, 2: {0, 10}})
	require.NoError(t, err)

	enc, err := encoding.NewRowEncoder(tbl, []int{0, 1, 2})
	require.NoError(t, err)

	var streamed bytes.Buffer
	_, err = enc.WriteFile(&streamed, ReadMSLR(strings.NewReader(sample)))
	require.NoError(t, err)

	records, err := ReadAll(strings.NewReader(sample))
	require.NoError(t, err)
	want, err := enc.EncodeFile(Rows(records))
	require.NoError(t, err)

	require.Equal(t, want, streamed.Bytes())
	// 3 -> slot 1, 0.5 -> slot 6, 12.25 -> END of feature 2 at slot 10
	require.Equal(t, []byte{0xFF, 1, 6, 10}, want[:4])
}
