package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/gofrs/flock"
	"gonum.org/v1/gonum/stat"
)

// ReadScores loads the operator-score artifact. A missing file is an empty
// artifact.
func ReadScores(path string) (map[string]int, error) {
	doc, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("report: read %s: %w", path, err)
	}
	scores := map[string]int{}
	if err := json.Unmarshal(doc, &scores); err != nil {
		return nil, fmt.Errorf("report: parse %s: %w", path, err)
	}
	return scores, nil
}

// MergeScores adds counts into the artifact at path under an advisory file
// lock held on path+".lock", so concurrent solver runs do not lose
// increments. Returns the merged totals.
func MergeScores(path string, counts map[string]int) (map[string]int, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("report: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	scores, err := ReadScores(path)
	if err != nil {
		return nil, err
	}
	for name, n := range counts {
		scores[name] += n
	}

	doc, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshal scores: %w", err)
	}
	doc = append(doc, '\n')
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return nil, fmt.Errorf("report: write %s: %w", path, err)
	}
	return scores, nil
}

// ScoreSummary describes the distribution of cumulative operator scores.
type ScoreSummary struct {
	Operators int
	Total     int
	Mean      float64
	StdDev    float64
	Top       string // operator with the highest count, ties by name
}

// Summarize computes summary statistics over an operator-score map.
func Summarize(scores map[string]int) ScoreSummary {
	s := ScoreSummary{Operators: len(scores)}
	if len(scores) == 0 {
		return s
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	vals := make([]float64, len(names))
	best := -1
	for i, name := range names {
		n := scores[name]
		vals[i] = float64(n)
		s.Total += n
		if n > best {
			best = n
			s.Top = name
		}
	}
	s.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	return s
}
