package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type RunRecord struct {
	ID int // repeat index
	RunMetric
}

type DecisionRecord struct {
	Run int // RunRecord.ID
	DecisionMetric
}

// SummaryRecord aggregates the final fitness of repeated runs.
type SummaryRecord struct {
	Engine string
	Runs   int
	Mean   float64
	Stddev float64
	Min    float64
	Max    float64
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named after the experiment and the
// current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteRunRecords(records []RunRecord) error {
	header := []string{"id", "engine", "start_time", "end_time", "duration", "decisions", "steps", "open", "fitness"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.Engine,
			record.StartTime.Format(time.RFC3339Nano),
			record.EndTime.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.Decisions),
			strconv.Itoa(record.Steps),
			strconv.Itoa(record.Open),
			formatFloat(record.Fitness),
		})
	}
	return w.write("run_records.csv", header, rows)
}

func (w *Writer) WriteDecisionRecords(records []DecisionRecord) error {
	header := []string{"run", "step", "tree_size", "duration", "playouts", "expansions", "best", "is_tree_reused"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Run),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.TreeSize),
			record.Duration.String(),
			strconv.Itoa(record.Playouts),
			strconv.Itoa(record.Expansions),
			formatFloat(record.Best),
			strconv.FormatBool(record.IsTreeReused),
		})
	}
	return w.write("decision_records.csv", header, rows)
}

func (w *Writer) WriteSummary(summary SummaryRecord) error {
	header := []string{"engine", "runs", "mean", "stddev", "min", "max"}
	row := []string{
		summary.Engine,
		strconv.Itoa(summary.Runs),
		formatFloat(summary.Mean),
		formatFloat(summary.Stddev),
		formatFloat(summary.Min),
		formatFloat(summary.Max),
	}
	return w.write("summary.csv", header, [][]string{row})
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
