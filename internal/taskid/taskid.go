package taskid

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Tiliavir/taskboard/internal/model"
)

// Length is the fixed length of a task ID (MMDDNNN).
const Length = 7

// Prefix returns the MMDD day key for t.
func Prefix(t time.Time) string {
	return t.Format("0102")
}

// Generate returns the next task ID for the day of now: the MMDD prefix
// followed by one more than the highest 3-digit sequence already used with
// that prefix, starting at 001.
// The caller must hold the tasks critical section while generating and
// appending, otherwise two generations can hand out the same ID.
func Generate(now time.Time, tasks []model.Task) string {
	prefix := Prefix(now)
	highest := 0
	for _, t := range tasks {
		if len(t.ID) != Length || t.ID[:4] != prefix || !digits(t.ID) {
			continue
		}
		seq, _ := strconv.Atoi(t.ID[4:])
		if seq > highest {
			highest = seq
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}

// Example returns a plausible ID for today, suitable for usage text.
func Example(now time.Time) string {
	return Generate(now, nil)
}

// Valid reports whether s has the MMDDNNN shape with a month in 01-12 and a
// day in 01-31. It does not check that the day exists in that month, nor
// that a task with this ID exists.
func Valid(s string) bool {
	if len(s) != Length || !digits(s) {
		return false
	}
	month, _ := strconv.Atoi(s[:2])
	day, _ := strconv.Atoi(s[2:4])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
