package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Report is the durable record of one run, written out as YAML.
type Report struct {
	RunID      uuid.UUID     `yaml:"run"`
	StartedAt  time.Time     `yaml:"started-at"`
	FinishedAt time.Time     `yaml:"finished-at"`
	Spaces     []SpaceResult `yaml:"spaces"`
}

func NewReport(runID uuid.UUID) *Report {
	return &Report{
		RunID:     runID,
		StartedAt: time.Now(),
	}
}

// Finish stamps the report with the results of the run.
func (r *Report) Finish(results []SpaceResult) {
	r.Spaces = results
	r.FinishedAt = time.Now()
}

// OK reports whether every space went through without failures.
func (r *Report) OK() bool {
	for _, s := range r.Spaces {
		if !s.OK() {
			return false
		}
	}
	return true
}

type yamlReport struct {
	RunID      string        `yaml:"run"`
	StartedAt  time.Time     `yaml:"started-at"`
	FinishedAt time.Time     `yaml:"finished-at"`
	Spaces     []SpaceResult `yaml:"spaces"`
}

func (r *Report) MarshalYAML() (any, error) {
	return yamlReport{
		RunID:      r.RunID.String(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Spaces:     r.Spaces,
	}, nil
}

// WriteReport writes the report to path, creating parent directories as needed.  An existing file
// is overwritten; an existing directory is an error.
func (r *Report) WriteReport(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("migrate: couldn't expand report path %s: %w", path, err)
	}

	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		return fmt.Errorf("migrate: report path is a directory: '%s'", path)
	}

	out, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("migrate: couldn't marshal report: %w", err)
	}

	directory := filepath.Dir(path)
	if err = os.MkdirAll(directory, 0750); err != nil {
		return fmt.Errorf("migrate: couldn't create directory %s: %w", directory, err)
	}

	if err = os.WriteFile(path, out, 0640); err != nil {
		return fmt.Errorf("migrate: couldn't write report %s: %w", path, err)
	}

	return nil
}
