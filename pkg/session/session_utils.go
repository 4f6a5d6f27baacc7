package session

import (
	"fmt"
	"time"

	"github.com/limaJavier/lzcup/pkg/asp"
	"github.com/limaJavier/lzcup/pkg/schedule"
	"github.com/limaJavier/lzcup/pkg/score"
	"github.com/limaJavier/lzcup/pkg/sink"
)

func (s *Session) options() asp.Options {
	params := s.spec.Params
	return asp.Options{
		Threads:       params.Threads,
		Rmax:          params.Rmax,
		M:             params.M,
		Teams:         s.spec.Instance.Teams,
		Configuration: params.Configuration,
		UseHeuristic:  params.UseHeuristic,
		OptimumSearch: params.OptimumSearch,
		Models:        params.Models,
	}
}

// record decodes m and derives everything persisted for it.
func (s *Session) record(m asp.Model) (sink.Record, schedule.Matrix, []schedule.CloseGame, error) {
	elapsed := time.Since(s.start)
	teams := s.spec.Instance.Teams

	atoms, err := asp.DecodeAll(m.Symbols)
	if err != nil {
		return sink.Record{}, schedule.Matrix{}, nil, err
	}
	cost, err := score.CostFromVector(m.Cost)
	if err != nil {
		return sink.Record{}, schedule.Matrix{}, nil, err
	}
	matrix, closeGames, err := schedule.FromAtoms(teams, atoms)
	if err != nil {
		return sink.Record{}, schedule.Matrix{}, nil, err
	}
	unified, err := score.Unified(cost, teams)
	if err != nil {
		return sink.Record{}, schedule.Matrix{}, nil, err
	}

	params := s.spec.Params
	return sink.Record{
		Session:    s.id,
		Timestamp:  s.timestamp,
		RunName:    s.spec.RunName,
		Instance:   s.spec.InstanceID,
		Rmax:       params.Rmax,
		M:          params.M,
		Threads:    params.Threads,
		Config:     params.Configuration,
		Heuristic:  params.UseHeuristic,
		Timeout:    params.Timeout,
		Model:      m.Number,
		Time:       elapsed.Seconds(),
		Opt1:       cost.Primary,
		Opt2:       cost.Secondary,
		Score:      unified,
		Schedule:   matrix.String(),
		CloseGames: schedule.FormatCloseGames(closeGames),
		Optimal:    m.OptimalityProven,
	}, matrix, closeGames, nil
}

func (s *Session) renderRecord(record sink.Record, cost []int, matrix schedule.Matrix, closeGames []schedule.CloseGame) {
	optimal := ""
	if record.Optimal {
		optimal = "*opt*"
	}
	fmt.Fprintf(s.render, "Model %-4d : %6.2fs : %7d  %v  %s\n", record.Model, record.Time, record.Score, cost, optimal)

	for _, line := range schedule.RenderLines(matrix, schedule.IndexCloseGames(closeGames), s.colorize) {
		fmt.Fprintln(s.render, line)
	}
	fmt.Fprintln(s.render)
}
