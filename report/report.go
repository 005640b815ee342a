package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/katalvlaran/orienteering/tour"
)

// Solution is the JSON document describing one solved instance.
type Solution struct {
	Instance   string  `json:"instance"`
	Prize      float64 `json:"prize"`
	TravelTime float64 `json:"travel_time"`
	Tour       []int   `json:"tour"`
}

// NewSolution captures a tour into its output document.
func NewSolution(t *tour.Tour) Solution {
	return Solution{
		Instance:   t.Graph().Name(),
		Prize:      t.Prize(),
		TravelTime: t.TravelTime(),
		Tour:       t.Vertices(),
	}
}

// WriteJSON writes the solution document to path, replacing any previous
// content.
func WriteJSON(path string, t *tour.Tour) error {
	doc, err := json.MarshalIndent(NewSolution(t), "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal solution: %w", err)
	}
	doc = append(doc, '\n')
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// csvHeader is written once, when the CSV file is created.
const csvHeader = "instance,prize,travel_time\n"

// WriteCSV appends one "instance,prize,travel_time" line to path, creating
// the file with a header first when it does not exist.
func WriteCSV(path string, t *tour.Tour) error {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", path, err)
	}
	defer f.Close()

	if fresh {
		if _, err := f.WriteString(csvHeader); err != nil {
			return fmt.Errorf("report: write %s: %w", path, err)
		}
	}
	line := fmt.Sprintf("%s,%g,%g\n", t.Graph().Name(), t.Prize(), t.TravelTime())
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
