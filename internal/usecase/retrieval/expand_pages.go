package retrieval

import (
	"log/slog"
	"sort"
)

// ExpandAndSelect widens the scored page set by the neighbor span for
// contextual continuity, then picks the top pages by aggregate score — not
// by page order (Stage 3). Neighbor pages inherit a fraction of the adjacent
// page's score so direct hits stay ranked first. When FilterPages is set,
// expansion never leaves it.
func ExpandAndSelect(sc *StageContext, logger *slog.Logger) {
	var allowed map[int]struct{}
	if len(sc.FilterPages) > 0 {
		allowed = make(map[int]struct{}, len(sc.FilterPages))
		for _, p := range sc.FilterPages {
			allowed[p] = struct{}{}
		}
	}

	expanded := make(map[int]float64, len(sc.PageScores))
	for page, score := range sc.PageScores {
		if expanded[page] < score {
			expanded[page] = score
		}
		for delta := -sc.NeighborSpan; delta <= sc.NeighborSpan; delta++ {
			neighbor := page + delta
			if delta == 0 || neighbor < 1 {
				continue
			}
			if allowed != nil {
				if _, ok := allowed[neighbor]; !ok {
					continue
				}
			}
			inherited := score * sc.NeighborScoreFactor
			if expanded[neighbor] < inherited {
				expanded[neighbor] = inherited
			}
		}
	}

	pages := make([]int, 0, len(expanded))
	for page := range expanded {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool {
		if expanded[pages[i]] != expanded[pages[j]] {
			return expanded[pages[i]] > expanded[pages[j]]
		}
		return pages[i] < pages[j]
	})

	selected := pages
	if len(selected) > sc.TopPages {
		selected = selected[:sc.TopPages]
	}
	sc.SelectedPages = append([]int(nil), selected...)

	sort.Ints(pages)
	sc.AllPages = pages

	logger.Info("pages_selected",
		slog.String("run_id", sc.RunID),
		slog.Int("scored_pages", len(sc.PageScores)),
		slog.Int("expanded_pages", len(pages)),
		slog.Any("selected", sc.SelectedPages))
}
