package asp

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A reduced league encoding: one game per slot, at most one slot per ordered pair.
const testEncoding = `
{ schedule(H,A,D) : time(D) } 1 :- team(H), team(A), H != A.
scheduled(H,A) :- schedule(H,A,_).
unscheduled(H,A) :- team(H), team(A), H != A, not scheduled(H,A).
:- schedule(H1,A1,D), schedule(H2,A2,D), (H1,A1) != (H2,A2).
:- forbidden(T,D), schedule(T,_,D).
:- forbidden(T,D), schedule(_,T,D).
#minimize { 1@2,H,A : unscheduled(H,A) }.
#minimize { D@1,H,A : schedule(H,A,D) }.
#show schedule/3.
`

func clingoEngine(t *testing.T, encoding string) *ClingoEngine {
	if _, err := exec.LookPath("clingo"); err != nil {
		t.Skip("clingo is not installed")
	}
	path := filepath.Join(t.TempDir(), "league.lp")
	require.NoError(t, os.WriteFile(path, []byte(encoding), 0644))
	return NewClingoEngine("clingo", path, 2*time.Second)
}

func TestClingoArguments(t *testing.T) {
	engine := NewClingoEngine("clingo", "lzcup.lp", time.Second)

	args := engine.Arguments(Options{Threads: 4, Rmax: 4, M: 60, Teams: 6, Configuration: "trendy", UseHeuristic: true, OptimumSearch: true, Models: 1})

	assert.Equal(t, []string{
		"lzcup.lp", "-", "--parallel-mode=4",
		"-c", "rmax=4", "-c", "m=60", "-c", "n=6",
		"--configuration=trendy", "--models=1",
		"--opt-mode=optN", "--heuristic=Domain",
	}, args)
}

func TestClingoMissingEncoding(t *testing.T) {
	engine := NewClingoEngine("clingo", filepath.Join(t.TempDir(), "missing.lp"), time.Second)

	_, err := engine.Start(context.Background(), "", Options{Threads: 1, Configuration: "auto"})

	assert.True(t, apperrors.Is(err, apperrors.CodeSolverStartup))
}

func TestClingoStreamsModels(t *testing.T) {
	//** Arrange
	engine := clingoEngine(t, testEncoding)
	facts := FactSet{Time(0), Time(1), Time(2), Team(1), Team(2)}

	//** Act
	handle, err := engine.Start(context.Background(), facts.Program(), Options{Threads: 1, Teams: 2, Configuration: "auto", OptimumSearch: true, Models: 1})
	require.NoError(t, err)

	models := make([]Model, 0)
	for model := range handle.Models() {
		models = append(models, model)
	}
	summary, err := handle.Close()

	//** Assert
	require.NoError(t, err)
	require.NotEmpty(t, models)
	last := models[len(models)-1]
	assert.Equal(t, []int{0, 1}, last.Cost)
	assert.Len(t, last.Symbols, 2)
	assert.True(t, summary.OptimalityProven)
}

func TestClingoRejectsBrokenEncoding(t *testing.T) {
	engine := clingoEngine(t, "this is not a program(")

	handle, err := engine.Start(context.Background(), "", Options{Threads: 1, Configuration: "auto"})
	require.NoError(t, err)
	for range handle.Models() {
	}
	_, err = handle.Close()

	assert.True(t, apperrors.Is(err, apperrors.CodeSolverStartup))
}
