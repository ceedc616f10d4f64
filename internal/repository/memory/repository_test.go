package memory

import (
	"sync"
	"testing"

	"github.com/cpennington/dicedornot/internal/models"
)

func TestRepository(t *testing.T) {
	r := NewRepository()
	if r.Latest() != nil {
		t.Fatal("Latest() of an empty repository is not nil")
	}

	r.SaveReport(&models.Report{Location: "b.json"})
	r.SaveReport(&models.Report{Location: "a.json"})

	if got := r.Latest(); got == nil || got.Location != "a.json" {
		t.Errorf("Latest() = %+v, want a.json", got)
	}
	if _, ok := r.GetReport("b.json"); !ok {
		t.Error("GetReport(b.json) not found")
	}
	if _, ok := r.GetReport("c.json"); ok {
		t.Error("GetReport(c.json) found")
	}
	locs := r.Locations()
	if len(locs) != 2 || locs[0] != "a.json" || locs[1] != "b.json" {
		t.Errorf("Locations() = %v, want [a.json b.json]", locs)
	}
}

func TestRepositoryConcurrent(t *testing.T) {
	r := NewRepository()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.SaveReport(&models.Report{Location: string(rune('a' + i))})
			r.Latest()
			r.Locations()
		}()
	}
	wg.Wait()
	if got := len(r.Locations()); got != 20 {
		t.Errorf("len(Locations()) = %d, want 20", got)
	}
}
