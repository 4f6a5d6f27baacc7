package sink

import (
	"testing"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		Timestamp:  "20240101_120000",
		RunName:    "baseline",
		Instance:   7,
		Rmax:       4,
		M:          60,
		Threads:    2,
		Config:     "auto",
		Heuristic:  true,
		Timeout:    60,
		Model:      3,
		Time:       1.25,
		Opt1:       0,
		Opt2:       12,
		Score:      2012,
		Schedule:   "-1,0;2,-1",
		CloseGames: "1,0,2,1",
		Optimal:    false,
	}
}

func TestRecordRow(t *testing.T) {
	row := sampleRecord().Row()

	assert.Len(t, row, len(Columns))
	assert.Equal(t, []string{
		"20240101_120000", "baseline", "7", "4", "60", "2", "auto", "true", "60",
		"3", "1.250", "0", "12", "2012", "-1,0;2,-1", "1,0,2,1", "false",
	}, row)
}

func TestParseRecord(t *testing.T) {
	//** Arrange
	record := sampleRecord()

	//** Act
	parsed, err := ParseRecord(record.Row())

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, record, parsed)
}

func TestParseRecordAcceptsCapitalisedBooleans(t *testing.T) {
	row := sampleRecord().Row()
	row[7], row[16] = "False", "True"

	parsed, err := ParseRecord(row)

	require.NoError(t, err)
	assert.False(t, parsed.Heuristic)
	assert.True(t, parsed.Optimal)
}

func TestParseRecordMalformed(t *testing.T) {
	short := sampleRecord().Row()[:5]
	_, err := ParseRecord(short)
	assert.True(t, apperrors.Is(err, apperrors.CodeMalformedRecord))

	badScore := sampleRecord().Row()
	badScore[13] = "x"
	_, err = ParseRecord(badScore)
	assert.True(t, apperrors.Is(err, apperrors.CodeMalformedRecord))

	badTime := sampleRecord().Row()
	badTime[10] = "soon"
	_, err = ParseRecord(badTime)
	assert.True(t, apperrors.Is(err, apperrors.CodeMalformedRecord))
}
