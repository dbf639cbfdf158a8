package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestComputeProgress(t *testing.T) {
	t.Parallel()

	ids := make([]uuid.UUID, 6)
	for i := range ids {
		ids[i] = uuid.New()
	}

	cases := []struct {
		name      string
		published []uuid.UUID
		completed []uuid.UUID
		want      int
	}{
		{"no published lessons", nil, nil, 0},
		{"no published lessons with stray completions", nil, ids[:2], 0},
		{"nothing completed", ids[:4], nil, 0},
		{"all completed", ids[:4], ids[:4], 100},
		{"two of three rounds up", ids[:3], ids[:2], 67},
		{"one of three rounds down", ids[:3], ids[:1], 33},
		{"half", ids[:4], ids[:2], 50},
		{"one of six", ids[:6], ids[:1], 17},
		{"completion of unpublished lesson ignored", ids[:2], ids[2:4], 0},
		{"mixed published and unpublished completions", ids[:2], []uuid.UUID{ids[0], ids[4]}, 50},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			completed := make(map[uuid.UUID]bool, len(tc.completed))
			for _, id := range tc.completed {
				completed[id] = true
			}
			if got := computeProgress(tc.published, completed); got != tc.want {
				t.Fatalf("unexpected percent: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestComputeProgressNeverExceedsBounds(t *testing.T) {
	t.Parallel()

	published := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	completed := map[uuid.UUID]bool{}
	for _, id := range published {
		completed[id] = true
	}
	// Extra completions beyond the published set must not push past 100.
	completed[uuid.New()] = true
	completed[uuid.New()] = true

	if got := computeProgress(published, completed); got != 100 {
		t.Fatalf("unexpected percent: got=%d want=100", got)
	}
}
