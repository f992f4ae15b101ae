package domain

import "time"

const day = 24 * time.Hour

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// streak counts consecutive days in days ending on now's calendar day.
func streak(days map[string]bool, now time.Time) int {
	loc := now.Location()
	count := 0
	for d := startOfDay(now, loc); days[dayKey(d, loc)]; d = d.AddDate(0, 0, -1) {
		count++
	}
	return count
}

// window lists the start of each of the trailing n calendar days ending on now's
// day, oldest first.
func window(n int, now time.Time) []time.Time {
	if n <= 0 {
		return nil
	}
	loc := now.Location()
	last := startOfDay(now, loc)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = last.AddDate(0, 0, i-(n-1))
	}
	return out
}

// modeHours returns every hour with the highest count, ascending. Empty when all
// counts are zero.
func modeHours(counts [24]int) []int {
	best := 0
	for _, c := range counts {
		if c > best {
			best = c
		}
	}
	if best == 0 {
		return nil
	}
	var hours []int
	for h, c := range counts {
		if c == best {
			hours = append(hours, h)
		}
	}
	return hours
}
