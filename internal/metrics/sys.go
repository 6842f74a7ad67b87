package metrics

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

// SysHealth couples process runtime stats with the planning data this
// instance is serving.
type SysHealth struct {
	AllocMB      uint64 `json:"alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	Goroutines   int    `json:"goroutines"`
	DatabaseSize string `json:"database_size"`

	ActiveInventoryItems int `json:"active_inventory_items"`
	PlannedRecipes       int `json:"planned_recipes"`
	ReservedClaims       int `json:"reserved_claims"`
}

// Health collects runtime stats and the pantry row counts that describe the
// current planning load.
func (s *Store) Health(ctx context.Context, dbPath string) (SysHealth, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DatabaseSize: fileSize(dbPath),
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM inventory_items WHERE deleted_at IS NULL`, &h.ActiveInventoryItems},
		{`SELECT COUNT(*) FROM recipes WHERE state = 'planned'`, &h.PlannedRecipes},
		{`SELECT COUNT(*) FROM ingredient_claims WHERE state = 'reserved'`, &h.ReservedClaims},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return SysHealth{}, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return h, nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	size := info.Size()

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
