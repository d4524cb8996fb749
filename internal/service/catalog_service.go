package service

import (
	"context"
	"errors"
	"fmt"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"mathtrack_backend/pkg/gamification"
	"mathtrack_backend/pkg/logger"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Catalog 书目文件：书籍 → 章节 → 习题组
type Catalog struct {
	Books []CatalogBook `mapstructure:"books" json:"books" binding:"required,dive"`
}

type CatalogBook struct {
	Slug        string           `mapstructure:"slug" json:"slug" binding:"required"`
	Title       string           `mapstructure:"title" json:"title" binding:"required"`
	Author      string           `mapstructure:"author" json:"author" binding:"required"`
	Description string           `mapstructure:"description" json:"description"`
	Category    string           `mapstructure:"category" json:"category"`
	Topic       string           `mapstructure:"topic" json:"topic"`
	Chapters    []CatalogChapter `mapstructure:"chapters" json:"chapters"`
}

type CatalogChapter struct {
	Number int    `mapstructure:"number" json:"number"`
	Title  string `mapstructure:"title" json:"title"`
	// 包含纯阅读小节的小节总数，为 0 时按习题中出现的最大节号
	SectionCount int                  `mapstructure:"section_count" json:"sectionCount"`
	Exercises    []CatalogExerciseSet `mapstructure:"exercises" json:"exercises"`
}

// CatalogExerciseSet 同一小节内连续编号的一组习题，Section 为 0 表示无节号。
// 同一小节的多组习题按出现顺序接续编号
type CatalogExerciseSet struct {
	Section    int    `mapstructure:"section" json:"section"`
	Count      int    `mapstructure:"count" json:"count"`
	Difficulty string `mapstructure:"difficulty" json:"difficulty"`
}

type SeedResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

type CatalogService struct {
	DB       *gorm.DB
	BookRepo *repository.BookRepository
}

func NewCatalogService(db *gorm.DB, bookRepo *repository.BookRepository) *CatalogService {
	return &CatalogService{DB: db, BookRepo: bookRepo}
}

// LoadCatalog 读取 YAML/JSON 书目文件
func LoadCatalog(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var catalog Catalog
	if err := v.Unmarshal(&catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// BuildBook 书目条目转换为待入库的书籍，习题分值按难度和章节写入
func BuildBook(entry CatalogBook) (model.Book, error) {
	if entry.Slug == "" || entry.Title == "" {
		return model.Book{}, fmt.Errorf("%w: book slug and title are required", util.ErrInvalidCatalog)
	}

	book := model.Book{
		Slug:        entry.Slug,
		Title:       entry.Title,
		Author:      entry.Author,
		Description: entry.Description,
		Category:    model.BookCategory(entry.Category),
		Topic:       entry.Topic,
	}
	if book.Category == "" {
		book.Category = model.CategoryUndergraduate
	}
	if book.Topic == "" {
		book.Topic = "algebra"
	}

	seen := make(map[int]bool, len(entry.Chapters))
	for _, ch := range entry.Chapters {
		if ch.Number < 1 || seen[ch.Number] {
			return model.Book{}, fmt.Errorf("%w: %s chapter number %d", util.ErrInvalidCatalog, entry.Slug, ch.Number)
		}
		seen[ch.Number] = true

		chapter := model.Chapter{Number: ch.Number, Title: ch.Title, SectionCount: ch.SectionCount}
		next := make(map[int]int)
		for _, set := range ch.Exercises {
			difficulty := strings.ToLower(strings.TrimSpace(set.Difficulty))
			if difficulty == "" {
				difficulty = string(gamification.Easy)
			}
			if !knownDifficulty(difficulty) {
				return model.Book{}, fmt.Errorf("%w: unknown difficulty %q", util.ErrInvalidCatalog, set.Difficulty)
			}
			if set.Count < 1 || set.Section < 0 {
				return model.Book{}, fmt.Errorf("%w: %s chapter %d has an empty exercise set", util.ErrInvalidCatalog, entry.Slug, ch.Number)
			}

			var section *int
			if set.Section > 0 {
				n := set.Section
				section = &n
				chapter.SectionCount = max(chapter.SectionCount, n)
			}
			for i := 0; i < set.Count; i++ {
				next[set.Section]++
				chapter.Exercises = append(chapter.Exercises, model.Exercise{
					Section:    section,
					Number:     next[set.Section],
					Difficulty: difficulty,
					Points:     gamification.SeedPoints(difficulty, ch.Number),
				})
			}
		}
		book.Chapters = append(book.Chapters, chapter)
	}
	return book, nil
}

func knownDifficulty(d string) bool {
	switch gamification.Difficulty(d) {
	case gamification.Easy, gamification.Medium, gamification.Hard:
		return true
	}
	return false
}

// Seed 导入书目，已存在的书籍（按 slug）跳过，整批在一个事务内完成
func (s *CatalogService) Seed(ctx context.Context, catalog *Catalog) (*SeedResult, error) {
	books := make([]model.Book, 0, len(catalog.Books))
	for _, entry := range catalog.Books {
		book, err := BuildBook(entry)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	result := &SeedResult{Created: []string{}, Skipped: []string{}}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookRepo := s.BookRepo.WithTx(tx)
		for i := range books {
			_, err := bookRepo.FindBySlug(books[i].Slug)
			if err == nil {
				result.Skipped = append(result.Skipped, books[i].Slug)
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := bookRepo.Create(&books[i]); err != nil {
				return err
			}
			result.Created = append(result.Created, books[i].Slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Catalog seeded",
		zap.Strings("created", result.Created),
		zap.Strings("skipped", result.Skipped))
	return result, nil
}
