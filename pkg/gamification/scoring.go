package gamification

import "strings"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// 积分规则常量
const (
	LastInSectionBonus   = 15
	SectionCompleteBonus = 50
	ChapterCompleteBonus = 100
	ReadingSectionPoints = 25

	// 每章递增 5%，以百分比整数表示避免浮点误差
	chapterStepPercent = 5
)

var basePoints = map[Difficulty]int{
	Easy:   10,
	Medium: 20,
	Hard:   30,
}

// BasePoints 返回难度对应的基础分，未知或未设置的难度按 easy 计
func BasePoints(difficulty string) int {
	if p, ok := basePoints[Difficulty(strings.ToLower(strings.TrimSpace(difficulty)))]; ok {
		return p
	}
	return basePoints[Easy]
}

// ChapterMultiplierPercent 章节系数（百分比）：第1章 100，第2章 105 ...
func ChapterMultiplierPercent(chapterNumber int) int {
	if chapterNumber < 1 {
		chapterNumber = 1
	}
	return 100 + chapterStepPercent*(chapterNumber-1)
}

// CalculatePoints 计算一道题的得分
// 基础分加上各项奖励后乘以章节系数，四舍五入（0.5 向上）
func CalculatePoints(difficulty string, chapterNumber int, isLastInSection, isSectionComplete, isChapterComplete bool) int {
	total := BasePoints(difficulty)

	if isLastInSection {
		total += LastInSectionBonus
	}
	if isSectionComplete {
		total += SectionCompleteBonus
	}
	if isChapterComplete {
		total += ChapterCompleteBonus
	}

	return roundPercent(total * ChapterMultiplierPercent(chapterNumber))
}

// SeedPoints 题目入库时写入的默认分值（不含任何奖励）
func SeedPoints(difficulty string, chapterNumber int) int {
	return CalculatePoints(difficulty, chapterNumber, false, false, false)
}

func roundPercent(v int) int {
	if v < 0 {
		return -((-v + 50) / 100)
	}
	return (v + 50) / 100
}
