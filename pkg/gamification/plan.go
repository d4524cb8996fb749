package gamification

import "encoding/json"

type PlanMode string

const (
	ModeChapterwise    PlanMode = "chapterwise"
	ModeSubchapterwise PlanMode = "subchapterwise"
	ModeOwnPace        PlanMode = "own_pace"
)

func (m PlanMode) Valid() bool {
	switch m {
	case ModeChapterwise, ModeSubchapterwise, ModeOwnPace:
		return true
	}
	return false
}

// DisplayName 计划模式的展示名称
func (m PlanMode) DisplayName() string {
	switch m {
	case ModeChapterwise:
		return "Chapterwise"
	case ModeSubchapterwise:
		return "Subchapterwise"
	case ModeOwnPace:
		return "Own Pace"
	}
	return "Unknown"
}

// ChapterRef 章节及其题目
type ChapterRef struct {
	ID        uint
	Number    int
	Exercises []ExerciseRef
}

// PlanState 计划推进所需的状态
type PlanState struct {
	Mode          PlanMode
	ChapterID     *uint
	ChapterNumber *int
	Targets       []uint
}

// TargetsFor 按计划模式从章节中选出目标题目：
// chapterwise 取整章，subchapterwise 只取第 1 节
func TargetsFor(mode PlanMode, chapter ChapterRef) []uint {
	ids := make([]uint, 0, len(chapter.Exercises))
	for _, e := range chapter.Exercises {
		if mode == ModeSubchapterwise && (e.Section == nil || *e.Section != 1) {
			continue
		}
		ids = append(ids, e.ID)
	}
	return ids
}

// AdvanceIfComplete 当前章完成度达到 100 时切换到下一章并重算目标题目。
// next 为同一本书中编号 +1 的章节，不存在时传 nil，计划保持不变。
func AdvanceIfComplete(plan PlanState, progress int, next *ChapterRef) (PlanState, bool) {
	if plan.Mode != ModeChapterwise && plan.Mode != ModeSubchapterwise {
		return plan, false
	}
	if plan.ChapterID == nil || progress < 100 || next == nil {
		return plan, false
	}

	id, number := next.ID, next.Number
	plan.ChapterID = &id
	plan.ChapterNumber = &number
	plan.Targets = TargetsFor(plan.Mode, *next)
	return plan, true
}

// CoveredTargets 计划从起始章推进到当前章期间先后作为目标的全部题目。
// 起始章第一周以整章为目标，中间各章按模式选取，当前章使用 current
func CoveredTargets(mode PlanMode, startNumber, currentNumber int, current []uint, chapters map[int]*ChapterRef) []uint {
	ids := append([]uint(nil), current...)
	for n := startNumber; n < currentNumber; n++ {
		ch := chapters[n]
		if ch == nil {
			continue
		}
		if n == startNumber {
			ids = append(ids, TargetsFor(ModeChapterwise, *ch)...)
			continue
		}
		ids = append(ids, TargetsFor(mode, *ch)...)
	}
	return SortedIDs(ids)
}

// EncodeTargets 目标题目序列化为 JSON 数组，空集合返回空串
func EncodeTargets(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	data, err := json.Marshal(SortedIDs(ids))
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeTargets 解析目标题目，数据损坏时视为没有目标
func DecodeTargets(raw string) []uint {
	if raw == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}
