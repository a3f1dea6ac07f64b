package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/Crixpsitos/lazytodo/internal/model"
)

func TestSortByPriority(t *testing.T) {
	store, _ := newTestStore(t)
	low := mustAdd(t, store, "Low task", model.PriorityLow)
	high := mustAdd(t, store, "High task", model.PriorityHigh)
	medium := mustAdd(t, store, "Medium task", model.PriorityMedium)

	assertIDs(t, store.Sorted(model.SortByPriority), high.ID, medium.ID, low.ID)
}

func TestSortByPriorityKeepsInsertionOrderForTies(t *testing.T) {
	store, _ := newTestStore(t)
	lowA := mustAdd(t, store, "Low A", model.PriorityLow)
	highA := mustAdd(t, store, "High A", model.PriorityHigh)
	lowB := mustAdd(t, store, "Low B", model.PriorityLow)
	highB := mustAdd(t, store, "High B", model.PriorityHigh)

	assertIDs(t, store.Sorted(model.SortByPriority), highA.ID, highB.ID, lowA.ID, lowB.ID)
}

func TestSortByStatusIsStable(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	a := mustAdd(t, store, "Task A", model.PriorityMedium)
	b := mustAdd(t, store, "Task B", model.PriorityMedium)
	c := mustAdd(t, store, "Task C", model.PriorityMedium)
	store.ToggleCompletion(ctx, a.ID)
	store.ToggleCompletion(ctx, c.ID)

	assertIDs(t, store.Sorted(model.SortByStatus), b.ID, a.ID, c.ID)
}

func TestSortByDateNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)
	first := mustAdd(t, store, "First", model.PriorityMedium)
	second := mustAdd(t, store, "Second", model.PriorityMedium)
	third := mustAdd(t, store, "Third", model.PriorityMedium)

	assertIDs(t, store.Sorted(model.SortByDate), third.ID, second.ID, first.ID)
	assertIDs(t, store.Sorted(""), third.ID, second.ID, first.ID)
}

func TestSortByDateTiesKeepInsertionOrder(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store, _ := newTestStore(t, WithClock(func() time.Time { return fixed }))
	a := mustAdd(t, store, "Same A", model.PriorityMedium)
	b := mustAdd(t, store, "Same B", model.PriorityMedium)

	assertIDs(t, store.Sorted(model.SortByDate), a.ID, b.ID)
}

func TestSortedDoesNotMutateAndIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	a := mustAdd(t, store, "Low task", model.PriorityLow)
	b := mustAdd(t, store, "High task", model.PriorityHigh)

	first := store.Sorted(model.SortByPriority)
	second := store.Sorted(model.SortByPriority)
	assertIDs(t, first, b.ID, a.ID)
	assertIDs(t, second, b.ID, a.ID)
	assertIDs(t, store.All(), a.ID, b.ID)

	first[0].Title = "changed"
	if got, _ := store.Get(b.ID); got.Title != "High task" {
		t.Fatalf("expected store to be isolated from projections")
	}
}

func TestWithDefaultSort(t *testing.T) {
	store, _ := newTestStore(t, WithDefaultSort(model.SortByPriority))
	low := mustAdd(t, store, "Low task", model.PriorityLow)
	high := mustAdd(t, store, "High task", model.PriorityHigh)

	if store.DefaultSort() != model.SortByPriority {
		t.Fatalf("expected default sort priority, got %q", store.DefaultSort())
	}
	assertIDs(t, store.Sorted(""), high.ID, low.ID)

	ignored, _ := newTestStore(t, WithDefaultSort("bogus"))
	if ignored.DefaultSort() != model.SortByDate {
		t.Fatalf("expected invalid default to be ignored, got %q", ignored.DefaultSort())
	}
}

func TestSortTasksLeavesInputUntouched(t *testing.T) {
	input := []model.Task{
		{ID: "a", Priority: model.PriorityLow},
		{ID: "b", Priority: model.PriorityHigh},
	}
	sorted := SortTasks(input, model.SortByPriority)
	assertIDs(t, sorted, "b", "a")
	assertIDs(t, input, "a", "b")
}
