package history

import (
	"math"
	"sort"

	"github.com/horrygame/tg-finding/internal/domain/lookup/consts"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
)

// computeStats expects entries most recent first.
// Ties in TopHandles keep the order in which handles are first met in that scan.
func computeStats(entries []entities.SearchLogEntry) entities.HistoryStats {
	stats := entities.HistoryStats{
		Total:      len(entries),
		TopHandles: []entities.HandleCount{},
	}
	if len(entries) == 0 {
		return stats
	}

	stats.LastEntryAt = entries[0].Timestamp

	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if !e.Success {
			continue
		}
		stats.Successful++
		if _, seen := counts[e.Handle]; !seen {
			order = append(order, e.Handle)
		}
		counts[e.Handle]++
	}
	stats.Failed = stats.Total - stats.Successful
	stats.SuccessRate = roundOneDecimal(float64(stats.Successful) / float64(stats.Total) * 100)

	top := make([]entities.HandleCount, 0, len(order))
	for _, h := range order {
		top = append(top, entities.HandleCount{Handle: h, Count: counts[h]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > consts.TopHandlesLimit {
		top = top[:consts.TopHandlesLimit]
	}
	stats.TopHandles = top

	return stats
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
