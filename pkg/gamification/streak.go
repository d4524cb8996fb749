package gamification

import "time"

type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// DateKey 将时间归一到所在时区的自然日零点
func DateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UpdateStreak 从 today 开始逐日向前回溯，统计连续有活动记录的天数。
// 调用方应在写入当天的活动记录后再调用。
func UpdateStreak(activityDates []time.Time, today time.Time, previousLongest int) StreakResult {
	if len(activityDates) == 0 {
		return StreakResult{Current: 1, Longest: max(previousLongest, 1)}
	}

	days := make(map[time.Time]struct{}, len(activityDates))
	for _, d := range activityDates {
		days[DateKey(d)] = struct{}{}
	}

	current := 0
	expected := DateKey(today)
	for {
		if _, ok := days[expected]; !ok {
			break
		}
		current++
		expected = expected.AddDate(0, 0, -1)
	}

	return StreakResult{
		Current: current,
		Longest: max(previousLongest, current),
	}
}
