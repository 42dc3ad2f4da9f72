// Command selfplay plays weight profiles against each other in-process and
// prints a result table. It exists to compare heuristic weightings without
// an external referee.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"kalah/engine"
)

// Profile names one weight vector under test.
type Profile struct {
	Name    string    `yaml:"name"`
	Weights []float32 `yaml:"weights"`
}

// defaultProfiles is the built-in field when no profiles file is given.
var defaultProfiles = []Profile{
	{Name: "score", Weights: []float32{1, 0, 0, 0, 0}},
	{Name: "capture", Weights: []float32{1, 0.5, 0.5, 0, 0}},
	{Name: "chain", Weights: []float32{1, 0, 0, 0.5, 0}},
	{Name: "hoard", Weights: []float32{1, 0, 0, 0, 0.25}},
}

func main() {
	depth := flag.Int("depth", 5, "search depth for both players")
	mode := flag.String("search", "alpha-beta", "search algorithm: minimax or alpha-beta")
	profilesFile := flag.String("profiles", "", "YAML file with a list of {name, weights} profiles")
	concurrency := flag.Int("concurrency", runtime.NumCPU(), "matches to run in parallel")
	flag.Parse()

	searchMode, err := engine.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	profiles := defaultProfiles
	if *profilesFile != "" {
		if profiles, err = loadProfiles(*profilesFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if len(profiles) < 2 {
		fmt.Fprintln(os.Stderr, "selfplay: need at least two profiles")
		os.Exit(2)
	}

	players := make([]Player, len(profiles))
	for i, p := range profiles {
		w, err := toWeights(p.Weights)
		if err != nil {
			fmt.Fprintf(os.Stderr, "selfplay: profile %q: %v\n", p.Name, err)
			os.Exit(2)
		}
		players[i] = Player{Name: p.Name, Weights: w, Depth: *depth, Mode: searchMode}
	}

	fmt.Printf("Self-play: %d profiles, %s depth %d\n", len(players), searchMode, *depth)
	fmt.Println(strings.Repeat("-", 50))

	// Round robin, both colours per pairing. Matches are independent, so
	// fan them out and collect the outcomes.
	type pairing struct{ south, north int }
	var pairings []pairing
	for i := range players {
		for j := range players {
			if i != j {
				pairings = append(pairings, pairing{i, j})
			}
		}
	}

	start := time.Now()
	outcomes := make([]Outcome, len(pairings))
	var g errgroup.Group
	g.SetLimit(*concurrency)
	for idx, p := range pairings {
		idx, p := idx, p
		g.Go(func() error {
			outcomes[idx] = PlayMatch(players[p.south], players[p.north])
			return nil
		})
	}
	// Workers never return errors; Wait is just the barrier.
	_ = g.Wait()

	table := NewTable(players)
	for i, out := range outcomes {
		table.Record(pairings[i].south, pairings[i].north, out)
	}
	table.Print(os.Stdout)
	fmt.Printf("\n%d matches in %s\n", len(pairings), time.Since(start).Round(time.Millisecond))
}

func loadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var profiles []Profile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("selfplay: parsing %s: %w", path, err)
	}
	return profiles, nil
}

func toWeights(values []float32) (engine.Weights, error) {
	var w engine.Weights
	if len(values) != engine.NumHeuristics {
		return w, fmt.Errorf("want %d weights, got %d", engine.NumHeuristics, len(values))
	}
	copy(w[:], values)
	return w, nil
}

// Table accumulates per-player results.
type Table struct {
	players []Player
	wins    []int
	draws   []int
	losses  []int
	seeds   []int // cumulative seed difference from the player's view
	nodes   []int64
}

func NewTable(players []Player) *Table {
	n := len(players)
	return &Table{
		players: players,
		wins:    make([]int, n),
		draws:   make([]int, n),
		losses:  make([]int, n),
		seeds:   make([]int, n),
		nodes:   make([]int64, n),
	}
}

func (t *Table) Record(south, north int, out Outcome) {
	switch {
	case out.SeedDiff > 0:
		t.wins[south]++
		t.losses[north]++
	case out.SeedDiff < 0:
		t.wins[north]++
		t.losses[south]++
	default:
		t.draws[south]++
		t.draws[north]++
	}
	t.seeds[south] += out.SeedDiff
	t.seeds[north] -= out.SeedDiff
	t.nodes[south] += out.SouthNodes
	t.nodes[north] += out.NorthNodes
}

func (t *Table) Print(w *os.File) {
	order := make([]int, len(t.players))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if t.wins[order[a]] != t.wins[order[b]] {
			return t.wins[order[a]] > t.wins[order[b]]
		}
		return t.seeds[order[a]] > t.seeds[order[b]]
	})

	fmt.Fprintf(w, "%-10s %4s %4s %4s %7s %12s\n", "profile", "W", "D", "L", "seeds", "nodes")
	for _, i := range order {
		fmt.Fprintf(w, "%-10s %4d %4d %4d %+7d %12d\n",
			t.players[i].Name, t.wins[i], t.draws[i], t.losses[i], t.seeds[i], t.nodes[i])
	}
}
