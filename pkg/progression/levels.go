// Package progression holds the numeric rules for experience, levels, hit
// points, and encounter rewards and damage.
package progression

// MaxLevel is the level cap.
const MaxLevel = 20

// XPThresholds[i] is the total experience needed to reach level i+1.
var XPThresholds = []int{
	0, 300, 900, 2700, 6500, 14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000, 195000, 225000, 265000, 305000, 355000,
}

// ASILevels are the levels that grant an ability score improvement.
var ASILevels = []int{4, 8, 12, 16, 19}

// CalculateLevel returns the 1-based level for a total XP, clamped to
// [1, MaxLevel].
func CalculateLevel(xp int) int {
	level := 1
	for i, threshold := range XPThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return min(max(level, 1), MaxLevel)
}

// XPToNextLevel returns how much more XP is needed to level up, or 0 at the
// cap.
func XPToNextLevel(xp int) int {
	level := CalculateLevel(xp)
	if level >= MaxLevel {
		return 0
	}
	return XPThresholds[level] - xp
}

// IsASILevel reports whether reaching level grants an ability score improvement.
func IsASILevel(level int) bool {
	for _, l := range ASILevels {
		if l == level {
			return true
		}
	}
	return false
}

// ASIsBetween counts the improvements earned moving from level from
// (exclusive) to level to (inclusive).
func ASIsBetween(from, to int) int {
	n := 0
	for l := max(from+1, 1); l <= min(to, MaxLevel); l++ {
		if IsASILevel(l) {
			n++
		}
	}
	return n
}
