package service

import (
	"errors"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"mathtrack_backend/pkg/gamification"
	"time"

	"gorm.io/gorm"
)

type BookService struct {
	BookRepo       *repository.BookRepository
	SubmissionRepo *repository.SubmissionRepository
	ReadingRepo    *repository.ReadingSectionRepository
}

func NewBookService(bookRepo *repository.BookRepository, submissionRepo *repository.SubmissionRepository, readingRepo *repository.ReadingSectionRepository) *BookService {
	return &BookService{
		BookRepo:       bookRepo,
		SubmissionRepo: submissionRepo,
		ReadingRepo:    readingRepo,
	}
}

type BookSummary struct {
	model.Book
	TotalExercises int64 `json:"totalExercises"`
	Progress       int   `json:"progress"`
}

type ExerciseView struct {
	ID           uint       `json:"id"`
	DisplayID    string     `json:"displayId"`
	Section      *int       `json:"section,omitempty"`
	Number       int        `json:"number"`
	Difficulty   string     `json:"difficulty,omitempty"`
	Points       int        `json:"points"`
	Completed    bool       `json:"completed"`
	SubmissionID *uint      `json:"submissionId,omitempty"`
	MarkedDone   bool       `json:"markedDone,omitempty"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
}

type SectionView struct {
	// 0 表示没有节号的习题
	Number    int            `json:"number"`
	IsReading bool           `json:"isReading"`
	Read      bool           `json:"read,omitempty"`
	Progress  int            `json:"progress"`
	Exercises []ExerciseView `json:"exercises"`
}

type ChapterView struct {
	ID        uint          `json:"id"`
	Number    int           `json:"number"`
	Title     string        `json:"title"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Progress  int           `json:"progress"`
	Sections  []SectionView `json:"sections"`
}

type BookDetail struct {
	model.Book
	TotalExercises     int           `json:"totalExercises"`
	CompletedExercises int           `json:"completedExercises"`
	Progress           int           `json:"progress"`
	ChapterViews       []ChapterView `json:"chapterViews"`
}

func (s *BookService) ListBooks(userID uint, category, topic string) ([]BookSummary, error) {
	books, err := s.BookRepo.List(category, topic)
	if err != nil {
		return nil, err
	}

	summaries := make([]BookSummary, 0, len(books))
	for _, book := range books {
		total, err := s.BookRepo.CountExercises(book.ID)
		if err != nil {
			return nil, err
		}
		completed, err := s.SubmissionRepo.CompletedInBook(userID, book.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, BookSummary{
			Book:           book,
			TotalExercises: total,
			Progress:       gamification.Percent(int64(len(completed)), total),
		})
	}
	return summaries, nil
}

func (s *BookService) GetBookDetail(userID uint, slug string) (*BookDetail, error) {
	book, err := s.BookRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBookNotFound
		}
		return nil, err
	}

	submissions, err := s.SubmissionRepo.ByUserInBook(userID, book.ID)
	if err != nil {
		return nil, err
	}
	byExercise := make(map[uint]model.Submission, len(submissions))
	for _, sub := range submissions {
		if _, ok := byExercise[sub.ExerciseID]; !ok {
			byExercise[sub.ExerciseID] = sub
		}
	}

	chapterIDs := make([]uint, 0, len(book.Chapters))
	for _, ch := range book.Chapters {
		chapterIDs = append(chapterIDs, ch.ID)
	}
	reads, err := s.ReadingRepo.ListByChapters(userID, chapterIDs)
	if err != nil {
		return nil, err
	}
	readByChapter := make(map[uint]map[int]bool)
	for _, r := range reads {
		if readByChapter[r.ChapterID] == nil {
			readByChapter[r.ChapterID] = make(map[int]bool)
		}
		readByChapter[r.ChapterID][r.Section] = true
	}

	detail := &BookDetail{Book: *book}
	for _, ch := range book.Chapters {
		view := BuildChapterView(ch, byExercise, readByChapter[ch.ID])
		detail.TotalExercises += view.Total
		detail.CompletedExercises += view.Completed
		detail.ChapterViews = append(detail.ChapterViews, view)
	}
	detail.Progress = gamification.Percent(int64(detail.CompletedExercises), int64(detail.TotalExercises))
	// 章节已展开到 ChapterViews
	detail.Book.Chapters = nil
	return detail, nil
}

// BuildChapterView 将章节按小节分组并标注完成状态，没有习题的小节视为阅读小节
func BuildChapterView(chapter model.Chapter, submissions map[uint]model.Submission, read map[int]bool) ChapterView {
	view := ChapterView{ID: chapter.ID, Number: chapter.Number, Title: chapter.Title}

	grouped := make(map[int][]ExerciseView)
	maxSection := chapter.SectionCount
	for _, ex := range chapter.Exercises {
		number := 0
		if ex.Section != nil && *ex.Section > 0 {
			number = *ex.Section
		}
		if number > maxSection {
			maxSection = number
		}

		ev := ExerciseView{
			ID:         ex.ID,
			DisplayID:  ex.DisplayNumber(chapter.Number),
			Section:    ex.Section,
			Number:     ex.Number,
			Difficulty: ex.Difficulty,
			Points:     ex.Points,
		}
		if sub, ok := submissions[ex.ID]; ok {
			id, at := sub.ID, sub.CreatedAt
			ev.Completed = true
			ev.SubmissionID = &id
			ev.SubmittedAt = &at
			ev.MarkedDone = sub.Filename == model.MarkedDoneFilename
			view.Completed++
		}
		view.Total++
		grouped[number] = append(grouped[number], ev)
	}

	if exs, ok := grouped[0]; ok {
		view.Sections = append(view.Sections, sectionView(0, exs))
	}
	for n := 1; n <= maxSection; n++ {
		exs, ok := grouped[n]
		if !ok {
			view.Sections = append(view.Sections, SectionView{
				Number:    n,
				IsReading: true,
				Read:      read[n],
				Progress:  boolPercent(read[n]),
				Exercises: []ExerciseView{},
			})
			continue
		}
		view.Sections = append(view.Sections, sectionView(n, exs))
	}

	view.Progress = gamification.Percent(int64(view.Completed), int64(view.Total))
	return view
}

func sectionView(number int, exercises []ExerciseView) SectionView {
	done := 0
	for _, ex := range exercises {
		if ex.Completed {
			done++
		}
	}
	return SectionView{
		Number:    number,
		Exercises: exercises,
		Progress:  gamification.Percent(int64(done), int64(len(exercises))),
	}
}

func boolPercent(b bool) int {
	if b {
		return 100
	}
	return 0
}

// BookProgress 书籍完成百分比
func (s *BookService) BookProgress(userID, bookID uint) (int, error) {
	exercises, err := s.BookRepo.ExercisesByBook(bookID)
	if err != nil {
		return 0, err
	}
	completed, err := s.SubmissionRepo.CompletedInBook(userID, bookID)
	if err != nil {
		return 0, err
	}
	return gamification.Progress(completed, exerciseIDs(exercises)), nil
}

func (s *BookService) ChapterProgress(userID, chapterID uint) (int, error) {
	chapter, err := s.BookRepo.FindChapter(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrChapterNotFound
		}
		return 0, err
	}
	completed, err := s.SubmissionRepo.CompletedInBook(userID, chapter.BookID)
	if err != nil {
		return 0, err
	}
	return gamification.Progress(completed, exerciseIDs(chapter.Exercises)), nil
}

func exerciseIDs(exercises []model.Exercise) []uint {
	ids := make([]uint, 0, len(exercises))
	for _, ex := range exercises {
		ids = append(ids, ex.ID)
	}
	return ids
}

// ExerciseRefs 转换为计分使用的习题描述，要求已加载 Chapter
func ExerciseRefs(exercises []model.Exercise) []gamification.ExerciseRef {
	refs := make([]gamification.ExerciseRef, 0, len(exercises))
	for _, ex := range exercises {
		ref := gamification.ExerciseRef{
			ID:         ex.ID,
			ChapterID:  ex.ChapterID,
			Section:    ex.Section,
			Number:     ex.Number,
			Difficulty: ex.Difficulty,
		}
		if ex.Chapter != nil {
			ref.ChapterNumber = ex.Chapter.Number
		}
		refs = append(refs, ref)
	}
	return refs
}

// ChapterRefOf 计划推进使用的章节描述
func ChapterRefOf(chapter *model.Chapter) *gamification.ChapterRef {
	if chapter == nil {
		return nil
	}
	ref := &gamification.ChapterRef{ID: chapter.ID, Number: chapter.Number}
	for _, ex := range chapter.Exercises {
		ref.Exercises = append(ref.Exercises, gamification.ExerciseRef{
			ID:            ex.ID,
			ChapterID:     chapter.ID,
			ChapterNumber: chapter.Number,
			Section:       ex.Section,
			Number:        ex.Number,
			Difficulty:    ex.Difficulty,
		})
	}
	return ref
}
