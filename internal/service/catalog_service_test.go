package service

import (
	"context"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/util"
	"mathtrack_backend/pkg/gamification"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBook(t *testing.T) {
	book, err := BuildBook(CatalogBook{
		Slug:   "analysis",
		Title:  "Principles of Mathematical Analysis",
		Author: "Walter Rudin",
		Chapters: []CatalogChapter{{
			Number: 2,
			Title:  "Basic Topology",
			Exercises: []CatalogExerciseSet{
				{Count: 2, Difficulty: "Medium"},
				{Count: 1, Difficulty: "hard"},
				{Section: 3, Count: 1},
			},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CategoryUndergraduate, book.Category)
	assert.Equal(t, "algebra", book.Topic)
	require.Len(t, book.Chapters, 1)
	ch := book.Chapters[0]
	assert.Equal(t, 3, ch.SectionCount)
	require.Len(t, ch.Exercises, 4)

	// 无节号的两组习题接续编号
	assert.Equal(t, []int{1, 2, 3, 1}, []int{ch.Exercises[0].Number, ch.Exercises[1].Number, ch.Exercises[2].Number, ch.Exercises[3].Number})
	assert.Nil(t, ch.Exercises[2].Section)
	assert.Equal(t, 3, *ch.Exercises[3].Section)
	assert.Equal(t, "medium", ch.Exercises[0].Difficulty)
	assert.Equal(t, "easy", ch.Exercises[3].Difficulty)

	assert.Equal(t, gamification.SeedPoints("medium", 2), ch.Exercises[0].Points)
	assert.Equal(t, 32, ch.Exercises[2].Points)
	assert.Equal(t, 11, ch.Exercises[3].Points)
}

func TestBuildBookRejectsBadEntries(t *testing.T) {
	cases := []CatalogBook{
		{Title: "No slug"},
		{Slug: "dup", Title: "Dup", Chapters: []CatalogChapter{{Number: 1}, {Number: 1}}},
		{Slug: "zero", Title: "Zero", Chapters: []CatalogChapter{{Number: 0}}},
		{Slug: "diff", Title: "Diff", Chapters: []CatalogChapter{{Number: 1, Exercises: []CatalogExerciseSet{{Count: 1, Difficulty: "brutal"}}}}},
		{Slug: "empty", Title: "Empty", Chapters: []CatalogChapter{{Number: 1, Exercises: []CatalogExerciseSet{{Section: 1}}}}},
	}
	for _, entry := range cases {
		_, err := BuildBook(entry)
		assert.ErrorIs(t, err, util.ErrInvalidCatalog, entry.Slug)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
books:
  - slug: complex
    title: Complex Analysis
    author: Serge Lang
    category: graduate
    chapters:
      - number: 2
        title: Power Series
        section_count: 7
        exercises:
          - { section: 1, count: 7, difficulty: medium }
          - { section: 6, count: 2, difficulty: hard }
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.Books, 1)
	entry := catalog.Books[0]
	assert.Equal(t, "complex", entry.Slug)
	assert.Equal(t, "graduate", entry.Category)
	require.Len(t, entry.Chapters, 1)
	assert.Equal(t, 7, entry.Chapters[0].SectionCount)
	assert.Equal(t, CatalogExerciseSet{Section: 6, Count: 2, Difficulty: "hard"}, entry.Chapters[0].Exercises[1])

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeedCatalogSkipsExistingBooks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result, err := store.Catalog.Seed(ctx, algebraCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"algebra"}, result.Created)
	assert.Empty(t, result.Skipped)

	result, err = store.Catalog.Seed(ctx, algebraCatalog())
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Equal(t, []string{"algebra"}, result.Skipped)

	book, err := store.Books.FindBySlug("algebra")
	require.NoError(t, err)
	require.Len(t, book.Chapters, 3)
	assert.Equal(t, 2, book.Chapters[2].SectionCount)

	hard := book.Chapters[0].Exercises[2]
	assert.Equal(t, 2, *hard.Section)
	assert.Equal(t, gamification.SeedPoints("hard", 1), hard.Points)

	count, err := store.Books.CountExercises(book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}
