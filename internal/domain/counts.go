package domain

// CategoryCount summarizes one category label.
type CategoryCount struct {
	Label     string
	Total     int
	Completed int
}

// Counts holds board-wide and per-category totals. It is always derived, never stored.
type Counts struct {
	Total      int
	Completed  int
	Incomplete int
	Categories []CategoryCount
}

// Count derives totals from the board's task collection. Per-category entries follow
// registry order and exclude the all label.
func Count(b Board) Counts {
	labels := b.Categories.Labels()
	byLabel := make(map[string]int, len(labels))
	out := Counts{Categories: make([]CategoryCount, len(labels))}
	for idx, label := range labels {
		out.Categories[idx].Label = label
		byLabel[label] = idx
	}
	for _, task := range b.Tasks {
		out.Total++
		if task.Completed {
			out.Completed++
		}
		idx, ok := byLabel[task.Category]
		if !ok {
			continue
		}
		out.Categories[idx].Total++
		if task.Completed {
			out.Categories[idx].Completed++
		}
	}
	out.Incomplete = out.Total - out.Completed
	return out
}

// Category returns the count entry for label.
func (c Counts) Category(label string) (CategoryCount, bool) {
	for _, entry := range c.Categories {
		if entry.Label == label {
			return entry, true
		}
	}
	return CategoryCount{}, false
}
