package gamification

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDeadline = errors.New("invalid deadline format, expected weekday_HH:MM")

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// DeadlineSpec 每周固定的截止时刻，例如 "sunday_23:59"
type DeadlineSpec struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

func (d DeadlineSpec) String() string {
	return fmt.Sprintf("%s_%02d:%02d", strings.ToLower(d.Weekday.String()), d.Hour, d.Minute)
}

// Countdown 截止时间计算结果，数值和文本共用同一个 Deadline
type Countdown struct {
	Deadline      time.Time     `json:"deadline"`
	Duration      time.Duration `json:"-"`
	DaysRemaining int           `json:"daysRemaining"`
	IsOverdue     bool          `json:"isOverdue"`
	Text          string        `json:"timeRemaining"`
}

// ParseDeadline 解析 "weekday_HH:MM"。无法识别的星期按周日处理
func ParseDeadline(s string) (DeadlineSpec, error) {
	day, clock, ok := strings.Cut(strings.TrimSpace(s), "_")
	if !ok {
		return DeadlineSpec{}, ErrInvalidDeadline
	}

	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return DeadlineSpec{}, ErrInvalidDeadline
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return DeadlineSpec{}, ErrInvalidDeadline
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return DeadlineSpec{}, ErrInvalidDeadline
	}

	weekday, found := weekdays[strings.ToLower(day)]
	if !found {
		weekday = time.Sunday
	}

	return DeadlineSpec{Weekday: weekday, Hour: hour, Minute: minute}, nil
}

// NextOccurrence 计算 now 之后（含当天尚未到点）最近一次的截止时刻
func NextOccurrence(spec DeadlineSpec, now time.Time) time.Time {
	daysAhead := (int(spec.Weekday) - int(now.Weekday()) + 7) % 7

	y, m, d := now.Date()
	today := time.Date(y, m, d, spec.Hour, spec.Minute, 0, 0, now.Location())
	if daysAhead == 0 && now.After(today) {
		daysAhead = 7
	}

	return today.AddDate(0, 0, daysAhead)
}

// Remaining 距离下一次截止的剩余时间
func Remaining(spec DeadlineSpec, now time.Time) Countdown {
	deadline := NextOccurrence(spec, now)
	left := deadline.Sub(now)

	c := Countdown{
		Deadline: deadline,
		Duration: left,
		Text:     FormatRemaining(left),
	}
	if left <= 0 {
		c.IsOverdue = true
		return c
	}
	c.DaysRemaining = int(left / (24 * time.Hour))
	return c
}

// RemainingUntilDate 未设置周截止时间时按结束日期计算
func RemainingUntilDate(endDate, today time.Time) Countdown {
	end := DateKey(endDate)
	day := DateKey(today)
	days := int(end.Sub(day).Hours() / 24)

	c := Countdown{
		Deadline:  end,
		Duration:  end.Sub(day),
		IsOverdue: day.After(end),
	}
	c.DaysRemaining = max(0, days)
	c.Text = fmt.Sprintf("%d day(s)", c.DaysRemaining)
	return c
}

// FormatRemaining 生成可读的剩余时间
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "Overdue"
	}

	days := int(d / (24 * time.Hour))
	hours := int(d%(24*time.Hour)) / int(time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%d day(s), %d hour(s)", days, hours)
	case hours > 0:
		return fmt.Sprintf("%d hour(s), %d minute(s)", hours, minutes)
	default:
		return fmt.Sprintf("%d minute(s)", minutes)
	}
}
