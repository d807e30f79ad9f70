package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-jobscout/internal/filter"
	"go-jobscout/internal/scraper"
)

type savedJob struct {
	ID                   string     `json:"id"`
	Source               string     `json:"source"`
	Title                string     `json:"title"`
	Company              string     `json:"company"`
	URL                  string     `json:"url"`
	Location             string     `json:"location,omitempty"`
	Salary               string     `json:"salary,omitempty"`
	ExperienceLevel      string     `json:"experience_level"`
	Confidence           float64    `json:"confidence"`
	ExtractionConfidence float64    `json:"extraction_confidence"`
	PostedAt             *time.Time `json:"posted_at,omitempty"`
	DiscoveredAt         time.Time  `json:"discovered_at"`
}

// JSONFileSink collects jobs in memory and writes one results file per
// run on Close, named job-search-YYYY-MM-DD.json.
type JSONFileSink struct {
	mu   sync.Mutex
	dir  string
	jobs []savedJob
}

func NewJSONFileSink(dir string) *JSONFileSink {
	return &JSONFileSink{dir: dir}
}

func (s *JSONFileSink) Put(_ context.Context, job scraper.Job, decision filter.Decision) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := savedJob{
		ID:                   uuid.NewString(),
		Source:               job.SourceSite,
		Title:                job.Title,
		Company:              job.Company,
		URL:                  job.RawURL,
		Location:             job.Location,
		Salary:               job.Salary,
		ExperienceLevel:      string(decision.ExperienceLevel),
		Confidence:           decision.Confidence,
		ExtractionConfidence: job.ExtractionConfidence,
		PostedAt:             job.PostedAt,
		DiscoveredAt:         job.DiscoveredAt,
	}
	s.jobs = append(s.jobs, saved)
	return saved.ID, nil
}

func (s *JSONFileSink) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.jobs) == 0 {
		log.Println("ℹ️ No jobs to save.")
		return nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(s.dir, filename)

	data, err := json.MarshalIndent(s.jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal jobs: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	log.Printf("📁 Results saved to %s", filePath)
	return nil
}
