package ziwei

import "fmt"

// Element is one of the Five Elements.
type Element int

const (
	ElementWater Element = iota
	ElementWood
	ElementMetal
	ElementEarth
	ElementFire
)

var elementNames = [...]string{"水", "木", "金", "土", "火"}

func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return elementNames[e]
}

// Bureau is the Five-Element Bureau number. It is both the Zi Wei divisor and
// the starting age of the first decade.
type Bureau int

const (
	BureauWater Bureau = 2
	BureauWood  Bureau = 3
	BureauMetal Bureau = 4
	BureauEarth Bureau = 5
	BureauFire  Bureau = 6
)

var bureauNumerals = map[Bureau]string{2: "二", 3: "三", 4: "四", 5: "五", 6: "六"}

// Valid reports whether b is one of the five bureau numbers.
func (b Bureau) Valid() bool { return b >= BureauWater && b <= BureauFire }

// Element returns the element the bureau belongs to.
func (b Bureau) Element() Element {
	return Element(b - BureauWater)
}

// Label returns the traditional bureau label, e.g. 土五局.
func (b Bureau) Label() string {
	if !b.Valid() {
		return ""
	}
	return b.Element().String() + bureauNumerals[b] + "局"
}

func (b Bureau) String() string { return b.Label() }

// nayinBureau gives the Na Yin bureau for a Life palace, indexed by stem pair
// (Jia/Yi, Bing/Ding, Wu/Ji, Geng/Xin, Ren/Gui) and branch pair (Zi/Chou,
// Yin/Mao, Chen/Si, Wu/Wei, Shen/You, Xu/Hai).
var nayinBureau = [5][6]Bureau{
	{BureauMetal, BureauWater, BureauFire, BureauMetal, BureauWater, BureauFire},
	{BureauWater, BureauFire, BureauEarth, BureauWater, BureauFire, BureauEarth},
	{BureauFire, BureauEarth, BureauWood, BureauFire, BureauEarth, BureauWood},
	{BureauEarth, BureauWood, BureauMetal, BureauEarth, BureauWood, BureauMetal},
	{BureauWood, BureauMetal, BureauWater, BureauWood, BureauMetal, BureauWater},
}

// NayinBureau returns the bureau for a palace governed by stem at branch.
func NayinBureau(stem Stem, branch Branch) Bureau {
	return nayinBureau[stem/2][branch/2]
}

// BureauResult is the outcome of resolving the Life and Body palaces.
type BureauResult struct {
	LifeBranch Branch
	BodyBranch Branch
	// LifeStem governs the Life palace and selects the bureau.
	LifeStem Stem
	Bureau   Bureau
}

// ResolveBureau locates the Life and Body palaces and the bureau.
//
// Counting starts from Yin for the first lunar month and advances one branch
// per month; the Life palace then steps back by the hour bucket and the Body
// palace steps forward by it. lunarMonth must be the effective month, so
// leap-month births are resolved by the caller first.
func ResolveBureau(lunarMonth, hourBucket int, yearStem Stem) (BureauResult, error) {
	if hourBucket < 0 || hourBucket >= branchCount {
		return BureauResult{}, fmt.Errorf("%w: bucket %d outside 0-11", ErrInvalidHourBucket, hourBucket)
	}
	if lunarMonth < 1 || lunarMonth > 12 {
		return BureauResult{}, fmt.Errorf("%w: lunar month %d outside 1-12", ErrInvalidDate, lunarMonth)
	}
	if !yearStem.Valid() {
		return BureauResult{}, fmt.Errorf("%w: year stem %d", ErrUnknownStarRule, int(yearStem))
	}

	monthBranch := BranchYin.Add(lunarMonth - 1)
	life := monthBranch.Add(-hourBucket)
	body := monthBranch.Add(hourBucket)
	lifeStem := PalaceStem(yearStem, life)
	return BureauResult{
		LifeBranch: life,
		BodyBranch: body,
		LifeStem:   lifeStem,
		Bureau:     NayinBureau(lifeStem, life),
	}, nil
}
