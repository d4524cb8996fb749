package repository

import (
	"mathtrack_backend/internal/model"

	"gorm.io/gorm"
)

type BookRepository struct {
	DB *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{DB: db}
}

func (r *BookRepository) WithTx(tx *gorm.DB) *BookRepository {
	return &BookRepository{DB: tx}
}

func orderedExercises(db *gorm.DB) *gorm.DB {
	return db.Order("section").Order("number")
}

func orderedChapters(db *gorm.DB) *gorm.DB {
	return db.Order("number")
}

func (r *BookRepository) List(category, topic string) ([]model.Book, error) {
	var books []model.Book
	query := r.DB.Model(&model.Book{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	err := query.Order("title").Find(&books).Error
	return books, err
}

// FindBySlug 加载书籍及其章节和习题
func (r *BookRepository) FindBySlug(slug string) (*model.Book, error) {
	var book model.Book
	err := r.DB.
		Preload("Chapters", orderedChapters).
		Preload("Chapters.Exercises", orderedExercises).
		Where("slug = ?", slug).
		First(&book).Error
	return &book, err
}

func (r *BookRepository) FindByID(id uint) (*model.Book, error) {
	var book model.Book
	err := r.DB.First(&book, id).Error
	return &book, err
}

func (r *BookRepository) Create(book *model.Book) error {
	return r.DB.Create(book).Error
}

func (r *BookRepository) FindChapter(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.Preload("Exercises", orderedExercises).First(&chapter, id).Error
	return &chapter, err
}

// ExercisesByBook 某本书的全部习题，附带所属章节
func (r *BookRepository) ExercisesByBook(bookID uint) ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Preload("Chapter").
		Joins("JOIN chapters ON chapters.id = exercises.chapter_id").
		Where("chapters.book_id = ?", bookID).
		Order("chapters.number").Order("exercises.section").Order("exercises.number").
		Find(&exercises).Error
	return exercises, err
}

func (r *BookRepository) CountExercises(bookID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Exercise{}).
		Joins("JOIN chapters ON chapters.id = exercises.chapter_id").
		Where("chapters.book_id = ?", bookID).
		Count(&count).Error
	return count, err
}

type idCount struct {
	ID    uint
	Count int64
}

// ExerciseCountsByChapter 每章习题数
func (r *BookRepository) ExerciseCountsByChapter() (map[uint]int64, error) {
	var rows []idCount
	err := r.DB.Model(&model.Exercise{}).
		Select("chapter_id AS id, COUNT(*) AS count").
		Group("chapter_id").
		Scan(&rows).Error
	return toCountMap(rows), err
}

func toCountMap(rows []idCount) map[uint]int64 {
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts
}
