package tasks

import (
	"sort"

	"github.com/Crixpsitos/lazytodo/internal/model"
)

// Sorted returns a freshly sorted copy of the collection. An empty or unknown
// mode uses the store's default. Ties keep insertion order.
func (s *Store) Sorted(mode model.SortMode) []model.Task {
	if mode == "" {
		mode = s.defaultSort
	}
	return SortTasks(s.All(), mode)
}

// SortTasks sorts a copy of tasks by mode without touching the input.
func SortTasks(tasks []model.Task, mode model.SortMode) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)

	switch mode {
	case model.SortByStatus:
		sort.SliceStable(sorted, func(i, j int) bool {
			return !sorted[i].Completed && sorted[j].Completed
		})
	case model.SortByPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}
	return sorted
}
