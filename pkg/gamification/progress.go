package gamification

import "sort"

// Progress 完成百分比，向下取整；目标集合为空时返回 0
func Progress(completed, target []uint) int {
	targetSet := toSet(target)
	if len(targetSet) == 0 {
		return 0
	}

	done := 0
	for id := range toSet(completed) {
		if _, ok := targetSet[id]; ok {
			done++
		}
	}
	return done * 100 / len(targetSet)
}

// Percent 计数形式的 Progress，用于数据库直接统计的场景
func Percent(done, total int64) int {
	if total <= 0 {
		return 0
	}
	if done > total {
		done = total
	}
	return int(done * 100 / total)
}

// ExerciseRef 计分所需的题目信息
type ExerciseRef struct {
	ID            uint
	ChapterID     uint
	ChapterNumber int
	Section       *int
	Number        int
	Difficulty    string
}

// ScoredExercise 批量提交中单道题的计分结果
type ScoredExercise struct {
	ExerciseID        uint
	IsLastInSection   bool
	IsSectionComplete bool
	IsChapterComplete bool
	Points            int
}

type sectionKey struct {
	chapterID uint
	section   int
	hasSect   bool
}

func keyOf(e ExerciseRef) sectionKey {
	if e.Section == nil {
		return sectionKey{chapterID: e.ChapterID}
	}
	return sectionKey{chapterID: e.ChapterID, section: *e.Section, hasSect: true}
}

// ResolveBatch 在写库之前根据整批提交计算每道题的完成标记和得分。
// catalog 需包含批次涉及章节的全部题目；已完成或不存在的题目会被跳过，
// 批次内重复的题目只计一次。本批题目所在的节或章因本批而全部完成时，
// 其中每道题都带上对应的完成标记。
func ResolveBatch(catalog []ExerciseRef, alreadyCompleted []uint, batch []uint) []ScoredExercise {
	byID := make(map[uint]ExerciseRef, len(catalog))
	sectionTotal := make(map[sectionKey]int)
	sectionLast := make(map[sectionKey]int)
	chapterTotal := make(map[uint]int)
	for _, e := range catalog {
		byID[e.ID] = e
		k := keyOf(e)
		sectionTotal[k]++
		if e.Number > sectionLast[k] {
			sectionLast[k] = e.Number
		}
		chapterTotal[e.ChapterID]++
	}

	done := toSet(alreadyCompleted)
	sectionDone := make(map[sectionKey]int)
	chapterDone := make(map[uint]int)
	for id := range done {
		if e, ok := byID[id]; ok {
			sectionDone[keyOf(e)]++
			chapterDone[e.ChapterID]++
		}
	}

	// 去重并过滤掉已完成的题目
	seen := make(map[uint]struct{}, len(batch))
	fresh := make([]ExerciseRef, 0, len(batch))
	for _, id := range batch {
		e, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, completed := done[id]; completed {
			continue
		}
		seen[id] = struct{}{}
		fresh = append(fresh, e)
	}

	sectionNew := make(map[sectionKey]int)
	chapterNew := make(map[uint]int)
	for _, e := range fresh {
		sectionNew[keyOf(e)]++
		chapterNew[e.ChapterID]++
	}

	results := make([]ScoredExercise, 0, len(fresh))
	for _, e := range fresh {
		k := keyOf(e)
		r := ScoredExercise{
			ExerciseID:        e.ID,
			IsLastInSection:   e.Number == sectionLast[k],
			IsSectionComplete: sectionDone[k]+sectionNew[k] == sectionTotal[k],
			IsChapterComplete: chapterDone[e.ChapterID]+chapterNew[e.ChapterID] == chapterTotal[e.ChapterID],
		}
		r.Points = CalculatePoints(e.Difficulty, e.ChapterNumber, r.IsLastInSection, r.IsSectionComplete, r.IsChapterComplete)
		results = append(results, r)
	}

	return results
}

// TotalPoints 批次总分
func TotalPoints(results []ScoredExercise) int {
	total := 0
	for _, r := range results {
		total += r.Points
	}
	return total
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// SortedIDs 返回去重升序后的 id 列表
func SortedIDs(ids []uint) []uint {
	set := toSet(ids)
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
