package dice

// AbilityModifier converts an ability score to its modifier, rounding down:
// 10-11 is +0, 8-9 is -1, 18-19 is +4.
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// ProficiencyBonus returns the proficiency bonus for a character level.
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return 2 + (level-1)/4
}
