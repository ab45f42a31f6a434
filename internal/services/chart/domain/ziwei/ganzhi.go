package ziwei

import (
	"fmt"
	"strings"
)

// Stem is one of the ten Heavenly Stems, Jia through Gui.
type Stem int

const (
	StemJia Stem = iota
	StemYi
	StemBing
	StemDing
	StemWu
	StemJi
	StemGeng
	StemXin
	StemRen
	StemGui
)

const stemCount = 10

var (
	stemNames  = [stemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	stemPinyin = [stemCount]string{"Jia", "Yi", "Bing", "Ding", "Wu", "Ji", "Geng", "Xin", "Ren", "Gui"}
)

// Valid reports whether s is one of the ten stems.
func (s Stem) Valid() bool { return s >= 0 && s < stemCount }

// String returns the traditional character for the stem.
func (s Stem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return stemNames[s]
}

// Pinyin returns the romanized stem name.
func (s Stem) Pinyin() string {
	if !s.Valid() {
		return ""
	}
	return stemPinyin[s]
}

// IsYang reports whether the stem has yang polarity. Jia, Bing, Wu, Geng and
// Ren are yang.
func (s Stem) IsYang() bool { return s%2 == 0 }

// Add advances the stem n steps around the ten-stem cycle.
func (s Stem) Add(n int) Stem { return Stem(mod(int(s)+n, stemCount)) }

// Branch is one of the twelve Earthly Branches, Zi through Hai. Increasing
// branch order runs clockwise around the chart.
type Branch int

const (
	BranchZi Branch = iota
	BranchChou
	BranchYin
	BranchMao
	BranchChen
	BranchSi
	BranchWu
	BranchWei
	BranchShen
	BranchYou
	BranchXu
	BranchHai
)

const branchCount = 12

var (
	branchNames  = [branchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
	branchPinyin = [branchCount]string{"Zi", "Chou", "Yin", "Mao", "Chen", "Si", "Wu", "Wei", "Shen", "You", "Xu", "Hai"}
)

// Valid reports whether b is one of the twelve branches.
func (b Branch) Valid() bool { return b >= 0 && b < branchCount }

// String returns the traditional character for the branch.
func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return branchNames[b]
}

// Pinyin returns the romanized branch name.
func (b Branch) Pinyin() string {
	if !b.Valid() {
		return ""
	}
	return branchPinyin[b]
}

// Add advances the branch n steps clockwise; negative n walks counter-clockwise.
func (b Branch) Add(n int) Branch { return Branch(mod(int(b)+n, branchCount)) }

// GridIndex returns the branch's fixed cell on the display ring, counted
// clockwise from the top-left cell: Si is 0, Wu 1, and so on to Chen at 11.
func (b Branch) GridIndex() int { return mod(int(b)-int(BranchSi), branchCount) }

// BranchAtGrid returns the branch displayed in grid cell index.
func BranchAtGrid(index int) Branch { return BranchSi.Add(index) }

// Direction is a rotation sense around the branch ring.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "counter-clockwise"
	}
	return "clockwise"
}

// Walk returns the branch reached after steps moves from start in direction d.
// Palace roles and decade ranges both walk the ring through Walk.
func Walk(start Branch, d Direction, steps int) Branch {
	return start.Add(int(d) * steps)
}

// Sex is the biological sex of the chart subject.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// ParseSex parses M/F labels, accepting the long English forms.
func ParseSex(value string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "M", "MALE", "男":
		return SexMale, nil
	case "F", "FEMALE", "女":
		return SexFemale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSex, value)
	}
}

// Valid reports whether s is M or F.
func (s Sex) Valid() bool { return s == SexMale || s == SexFemale }

// Label returns the traditional label for the sex.
func (s Sex) Label() string {
	if s == SexFemale {
		return "女"
	}
	return "男"
}

// HourBucket maps a wall-clock hour (0-23) to its two-hour branch. 23:00 and
// 00:00 both fall in Zi; the date is not advanced for 23:00 births.
func HourBucket(hour int) (Branch, error) {
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: hour %d outside 0-23", ErrInvalidHourBucket, hour)
	}
	return Branch(((hour + 1) / 2) % branchCount), nil
}

// YearStem returns the Heavenly Stem of a lunar year. 1984 is Jia Zi.
func YearStem(lunarYear int) Stem { return Stem(mod(lunarYear-4, stemCount)) }

// YearBranch returns the Earthly Branch of a lunar year.
func YearBranch(lunarYear int) Branch { return Branch(mod(lunarYear-4, branchCount)) }

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
