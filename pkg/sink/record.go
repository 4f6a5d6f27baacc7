package sink

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	apperrors "github.com/limaJavier/lzcup/pkg/errors"
)

// Columns is the tabular layout of a Record, in order.
var Columns = []string{
	"timestamp", "run_name", "instance", "rmax", "m", "threads", "config", "heuristic", "timeout",
	"model", "time", "opt1", "opt2", "score", "schedule", "close_games", "optimal",
}

// TimestampLayout formats the session start shared by all records of a session.
const TimestampLayout = "20060102_150405"

// Record is one streamed model with the parameters of the session that produced it.
type Record struct {
	Session    uuid.UUID // not part of the tabular layout
	Timestamp  string
	RunName    string
	Instance   int
	Rmax       int
	M          int
	Threads    int
	Config     string
	Heuristic  bool
	Timeout    int
	Model      int
	Time       float64 // seconds since submission
	Opt1       int
	Opt2       int
	Score      int
	Schedule   string
	CloseGames string
	Optimal    bool
}

func (record Record) Row() []string {
	return []string{
		record.Timestamp,
		record.RunName,
		strconv.Itoa(record.Instance),
		strconv.Itoa(record.Rmax),
		strconv.Itoa(record.M),
		strconv.Itoa(record.Threads),
		record.Config,
		strconv.FormatBool(record.Heuristic),
		strconv.Itoa(record.Timeout),
		strconv.Itoa(record.Model),
		strconv.FormatFloat(record.Time, 'f', 3, 64),
		strconv.Itoa(record.Opt1),
		strconv.Itoa(record.Opt2),
		strconv.Itoa(record.Score),
		record.Schedule,
		record.CloseGames,
		strconv.FormatBool(record.Optimal),
	}
}

// ParseRecord reads a row laid out as Columns. Booleans accept any strconv.ParseBool form.
func ParseRecord(row []string) (Record, error) {
	if len(row) != len(Columns) {
		return Record{}, apperrors.Newf(apperrors.CodeMalformedRecord, "expected %d columns, found %d", len(Columns), len(row))
	}

	var err error
	integer := func(column int) int {
		if err != nil {
			return 0
		}
		var value int
		if value, err = strconv.Atoi(row[column]); err != nil {
			err = apperrors.Wrap(err, apperrors.CodeMalformedRecord, fmt.Sprintf("column %s is not an integer", Columns[column]))
		}
		return value
	}
	boolean := func(column int) bool {
		if err != nil {
			return false
		}
		var value bool
		if value, err = strconv.ParseBool(row[column]); err != nil {
			err = apperrors.Wrap(err, apperrors.CodeMalformedRecord, fmt.Sprintf("column %s is not a boolean", Columns[column]))
		}
		return value
	}

	record := Record{
		Timestamp:  row[0],
		RunName:    row[1],
		Instance:   integer(2),
		Rmax:       integer(3),
		M:          integer(4),
		Threads:    integer(5),
		Config:     row[6],
		Heuristic:  boolean(7),
		Timeout:    integer(8),
		Model:      integer(9),
		Opt1:       integer(11),
		Opt2:       integer(12),
		Score:      integer(13),
		Schedule:   row[14],
		CloseGames: row[15],
		Optimal:    boolean(16),
	}
	if err != nil {
		return Record{}, err
	}

	record.Time, err = strconv.ParseFloat(row[10], 64)
	if err != nil {
		return Record{}, apperrors.Wrap(err, apperrors.CodeMalformedRecord, "column time is not a number")
	}
	return record, nil
}
