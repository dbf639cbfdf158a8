package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/learnhub/learnhub-backend/internal/types"
)

func catalogFixture() []*types.Course {
	return []*types.Course{
		{ID: uuid.New(), Title: "Intro to Go", Category: "programming", ShortDescription: "Build your first service"},
		{ID: uuid.New(), Title: "Advanced Go", Category: "programming", Description: "Concurrency patterns in depth"},
		{ID: uuid.New(), Title: "Watercolor Basics", Category: "art", ShortDescription: "Paint landscapes"},
		{ID: uuid.New(), Title: "Oil Painting", Category: "art", Description: "From sketch to canvas"},
		{ID: uuid.New(), Title: "Statistics 101", Category: "math", ShortDescription: "Distributions and inference"},
		{ID: uuid.New(), Title: "Linear Algebra", Category: "math"},
		{ID: uuid.New(), Title: "Go for Data Science", Category: "math", Description: "gonum and friends"},
	}
}

func TestFilterCourses(t *testing.T) {
	t.Parallel()
	courses := catalogFixture()

	cases := []struct {
		name     string
		search   string
		category string
		want     int
	}{
		{"no filters", "", "", len(courses)},
		{"search matches title case-insensitively", "GO", "", 3},
		{"search matches short description", "landscapes", "", 1},
		{"search matches long description", "concurrency", "", 1},
		{"category exact", "", "art", 2},
		{"category is not substring matched", "", "ar", 0},
		{"search and category combined", "go", "math", 1},
		{"no hits", "kubernetes", "", 0},
		{"whitespace search is no filter", "   ", "", len(courses)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := filterCourses(courses, tc.search, tc.category)
			if len(got) != tc.want {
				t.Fatalf("unexpected match count: got=%d want=%d", len(got), tc.want)
			}
		})
	}
}

func TestFilterCoursesIsStable(t *testing.T) {
	t.Parallel()
	courses := catalogFixture()

	first := filterCourses(courses, "go", "")
	second := filterCourses(courses, "go", "")
	if len(first) != len(second) {
		t.Fatalf("filter not repeatable: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("filter reordered results at index %d", i)
		}
	}
}

func TestPaginateCourses(t *testing.T) {
	t.Parallel()
	courses := catalogFixture() // 7 entries

	cases := []struct {
		name          string
		page          int
		pageSize      int
		wantLen       int
		wantPage      int
		wantPageCount int
	}{
		{"first page default size", 1, DefaultCatalogPageSize, 6, 1, 2},
		{"second page remainder", 2, DefaultCatalogPageSize, 1, 2, 2},
		{"page below range clamps to first", 0, DefaultCatalogPageSize, 6, 1, 2},
		{"page beyond range clamps to last", 99, DefaultCatalogPageSize, 1, 2, 2},
		{"zero page size falls back to default", 1, 0, 6, 1, 2},
		{"negative page size falls back to default", 1, -3, 6, 1, 2},
		{"oversized page size is capped", 1, 10000, 7, 1, 1},
		{"single page fits all", 1, 10, 7, 1, 1},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, page, _, pageCount := paginateCourses(courses, tc.page, tc.pageSize)
			if len(got) != tc.wantLen {
				t.Fatalf("unexpected page length: got=%d want=%d", len(got), tc.wantLen)
			}
			if page != tc.wantPage {
				t.Fatalf("unexpected page: got=%d want=%d", page, tc.wantPage)
			}
			if pageCount != tc.wantPageCount {
				t.Fatalf("unexpected page count: got=%d want=%d", pageCount, tc.wantPageCount)
			}
		})
	}
}

func TestPaginateCoursesEmpty(t *testing.T) {
	t.Parallel()

	got, page, pageSize, pageCount := paginateCourses(nil, 3, 0)
	if len(got) != 0 {
		t.Fatalf("expected empty page, got %d", len(got))
	}
	if page != 1 || pageCount != 1 {
		t.Fatalf("unexpected clamping: page=%d pageCount=%d", page, pageCount)
	}
	if pageSize != DefaultCatalogPageSize {
		t.Fatalf("unexpected page size: got=%d want=%d", pageSize, DefaultCatalogPageSize)
	}
}
