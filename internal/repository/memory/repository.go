package memory

import (
	"slices"
	"sync"

	"github.com/cpennington/dicedornot/internal/models"
)

// Repository keeps analyzed reports keyed by replay location.
type Repository struct {
	reports map[string]*models.Report
	latest  string
	mu      sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{reports: map[string]*models.Report{}}
}

func (r *Repository) SaveReport(report *models.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.Location] = report
	r.latest = report.Location
}

func (r *Repository) GetReport(location string) (*models.Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[location]
	return report, ok
}

// Latest returns the most recently saved report.
func (r *Repository) Latest() *models.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reports[r.latest]
}

// Locations lists the stored replay locations, sorted.
func (r *Repository) Locations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	locations := make([]string, 0, len(r.reports))
	for loc := range r.reports {
		locations = append(locations, loc)
	}
	slices.Sort(locations)
	return locations
}
