package ziwei

import (
	"fmt"
	"strconv"
)

// PalaceRole is the life domain a palace governs.
type PalaceRole int

const (
	RoleLife PalaceRole = iota
	RoleSiblings
	RoleSpouse
	RoleChildren
	RoleWealth
	RoleHealth
	RoleTravel
	RoleFriends
	RoleCareer
	RoleProperty
	RoleFortune
	RoleParents
)

var roleNames = [branchCount]string{
	"命宮", "兄弟", "夫妻", "子女", "財帛", "疾厄",
	"遷移", "交友", "官祿", "田宅", "福德", "父母",
}

var roleEnglish = [branchCount]string{
	"Life", "Siblings", "Spouse", "Children", "Wealth", "Health",
	"Travel", "Friends", "Career", "Property", "Fortune", "Parents",
}

// roleDirection is the walk used to hand out palace roles from the Life palace.
const roleDirection = CounterClockwise

func (r PalaceRole) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("PalaceRole(%d)", int(r))
	}
	return roleNames[r]
}

// English returns the English role name.
func (r PalaceRole) English() string {
	if r < 0 || int(r) >= len(roleEnglish) {
		return ""
	}
	return roleEnglish[r]
}

// AgeRange is a decade of life governed by a palace. The zero value means
// unassigned.
type AgeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String renders the range as "5-14".
func (a AgeRange) String() string {
	if a.Start == 0 && a.End == 0 {
		return ""
	}
	return strconv.Itoa(a.Start) + "-" + strconv.Itoa(a.End)
}

// Palace is one of the twelve palaces of a chart.
type Palace struct {
	Branch       Branch     `json:"branch"`
	GridIndex    int        `json:"grid_index"`
	Stem         Stem       `json:"stem"`
	Role         PalaceRole `json:"role"`
	Stars        []Star     `json:"stars"`
	IsLifePalace bool       `json:"is_life_palace"`
	IsBodyPalace bool       `json:"is_body_palace"`
	AgeRange     AgeRange   `json:"age_range"`
}

// MajorStars returns the major stars in the palace.
func (p Palace) MajorStars() []Star {
	var stars []Star
	for _, star := range p.Stars {
		if star.IsMajor {
			stars = append(stars, star)
		}
	}
	return stars
}

// PalaceStem returns the governing stem of branch in a year with yearStem.
//
// The Yin palace stem comes from the year stem (Jia/Ji give Bing, Yi/Geng Wu,
// Bing/Xin Geng, Ding/Ren Ren, Wu/Gui Jia) and advances one stem per branch
// from Yin round to Chou, so Zi and Chou repeat the stems of Yin and Mao.
func PalaceStem(yearStem Stem, branch Branch) Stem {
	yinStem := Stem(((int(yearStem)%5)*2 + 2) % stemCount)
	return yinStem.Add(mod(int(branch)-int(BranchYin), branchCount))
}

// BuildPalaces lays out the twelve palaces, indexed by branch.
func BuildPalaces(yearStem Stem, lifeBranch, bodyBranch Branch) [branchCount]Palace {
	var palaces [branchCount]Palace
	for i := range palaces {
		branch := Branch(i)
		palaces[i] = Palace{
			Branch:       branch,
			GridIndex:    branch.GridIndex(),
			Stem:         PalaceStem(yearStem, branch),
			IsLifePalace: branch == lifeBranch,
			IsBodyPalace: branch == bodyBranch,
		}
	}
	for step := 0; step < branchCount; step++ {
		palaces[Walk(lifeBranch, roleDirection, step)].Role = PalaceRole(step)
	}
	return palaces
}
