package ziwei

const decade = 10

// AgeDirection returns the walk for decade ranges: yang-stem men and yin-stem
// women run clockwise, everyone else counter-clockwise.
func AgeDirection(sex Sex, yearStem Stem) Direction {
	if yearStem.IsYang() == (sex == SexMale) {
		return Clockwise
	}
	return CounterClockwise
}

// AssignAgeRanges labels each palace with its decade. The Life palace starts
// at the bureau number and every following palace adds ten years.
func AssignAgeRanges(bureau Bureau, sex Sex, yearStem Stem, lifeBranch Branch, palaces *[branchCount]Palace) {
	direction := AgeDirection(sex, yearStem)
	for step := 0; step < branchCount; step++ {
		start := int(bureau) + step*decade
		palaces[Walk(lifeBranch, direction, step)].AgeRange = AgeRange{Start: start, End: start + decade - 1}
	}
}
