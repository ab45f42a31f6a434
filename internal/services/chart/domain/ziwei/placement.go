package ziwei

import "fmt"

// PlacementInput carries everything the star rules depend on.
type PlacementInput struct {
	Bureau     Bureau
	LunarDay   int
	LunarMonth int
	HourBucket int
	YearStem   Stem
	YearBranch Branch
}

func (in PlacementInput) validate() error {
	switch {
	case !in.Bureau.Valid():
		return fmt.Errorf("%w: bureau %d", ErrUnknownStarRule, int(in.Bureau))
	case in.LunarDay < 1 || in.LunarDay > 30:
		return fmt.Errorf("%w: lunar day %d", ErrUnknownStarRule, in.LunarDay)
	case in.LunarMonth < 1 || in.LunarMonth > 12:
		return fmt.Errorf("%w: lunar month %d", ErrUnknownStarRule, in.LunarMonth)
	case in.HourBucket < 0 || in.HourBucket >= branchCount:
		return fmt.Errorf("%w: hour bucket %d", ErrUnknownStarRule, in.HourBucket)
	case !in.YearStem.Valid():
		return fmt.Errorf("%w: year stem %d", ErrUnknownStarRule, int(in.YearStem))
	case !in.YearBranch.Valid():
		return fmt.Errorf("%w: year branch %d", ErrUnknownStarRule, int(in.YearBranch))
	}
	return nil
}

// ChainOffset places a star relative to the head of its chain.
type ChainOffset struct {
	Star   StarName
	Offset int
}

// ziWeiChain counts counter-clockwise from Zi Wei.
var ziWeiChain = []ChainOffset{
	{StarZiWei, 0},
	{StarTianJi, -1},
	{StarTaiYang, -3},
	{StarWuQu, -4},
	{StarTianTong, -5},
	{StarLianZhen, -8},
}

// tianFuChain counts clockwise from Tian Fu.
var tianFuChain = []ChainOffset{
	{StarTianFu, 0},
	{StarTaiYin, 1},
	{StarTanLang, 2},
	{StarJuMen, 3},
	{StarTianXiang, 4},
	{StarTianLiang, 5},
	{StarQiSha, 6},
	{StarPoJun, 10},
}

// ZiWeiBranch locates Zi Wei from the lunar day and bureau.
//
// x is the smallest non-negative number making day+x divisible by the bureau
// and q the quotient. Counting q from Yin gives the base palace, which then
// moves back x palaces when x is odd and forward x palaces when it is even.
func ZiWeiBranch(lunarDay int, bureau Bureau) Branch {
	divisor := int(bureau)
	x := mod(-lunarDay, divisor)
	q := (lunarDay + x) / divisor
	pos := BranchYin.Add(q - 1)
	if x%2 == 1 {
		return pos.Add(-x)
	}
	return pos.Add(x)
}

// TianFuBranch mirrors Zi Wei across the Yin-Shen axis.
func TianFuBranch(ziWei Branch) Branch {
	return Branch(mod(int(BranchChen)-int(ziWei), branchCount))
}

var (
	// kuiYueByStem holds the Tian Kui and Tian Yue branches per year stem.
	kuiYueByStem = [stemCount][2]Branch{
		StemJia:  {BranchChou, BranchWei},
		StemYi:   {BranchZi, BranchShen},
		StemBing: {BranchHai, BranchYou},
		StemDing: {BranchHai, BranchYou},
		StemWu:   {BranchChou, BranchWei},
		StemJi:   {BranchZi, BranchShen},
		StemGeng: {BranchChou, BranchWei},
		StemXin:  {BranchWu, BranchYin},
		StemRen:  {BranchMao, BranchSi},
		StemGui:  {BranchMao, BranchSi},
	}

	luCunByStem = [stemCount]Branch{
		StemJia:  BranchYin,
		StemYi:   BranchMao,
		StemBing: BranchSi,
		StemDing: BranchWu,
		StemWu:   BranchSi,
		StemJi:   BranchWu,
		StemGeng: BranchShen,
		StemXin:  BranchYou,
		StemRen:  BranchHai,
		StemGui:  BranchZi,
	}

	// Year branches sharing a trine share branch%4: Shen/Zi/Chen 0,
	// Si/You/Chou 1, Yin/Wu/Xu 2, Hai/Mao/Wei 3.
	tianMaByTrine = [4]Branch{BranchYin, BranchHai, BranchShen, BranchSi}

	// huoLingStart holds the Zi hour branches of Huo Xing and Ling Xing.
	huoLingStart = [4][2]Branch{
		{BranchYin, BranchXu},
		{BranchMao, BranchXu},
		{BranchChou, BranchMao},
		{BranchYou, BranchXu},
	}
)

// starBranches computes the branch of every star. Rules are independent of one
// another, so evaluation order does not matter.
func starBranches(in PlacementInput) [starCount]Branch {
	var at [starCount]Branch

	ziWei := ZiWeiBranch(in.LunarDay, in.Bureau)
	for _, link := range ziWeiChain {
		at[link.Star] = ziWei.Add(link.Offset)
	}
	tianFu := TianFuBranch(ziWei)
	for _, link := range tianFuChain {
		at[link.Star] = tianFu.Add(link.Offset)
	}

	month := in.LunarMonth - 1
	hour := in.HourBucket
	trine := int(in.YearBranch) % 4

	at[StarZuoFu] = BranchChen.Add(month)
	at[StarYouBi] = BranchXu.Add(-month)
	at[StarWenChang] = BranchXu.Add(-hour)
	at[StarWenQu] = BranchChen.Add(hour)
	at[StarTianKui] = kuiYueByStem[in.YearStem][0]
	at[StarTianYue] = kuiYueByStem[in.YearStem][1]
	at[StarLuCun] = luCunByStem[in.YearStem]
	at[StarTianMa] = tianMaByTrine[trine]
	at[StarQingYang] = at[StarLuCun].Add(1)
	at[StarTuoLuo] = at[StarLuCun].Add(-1)
	at[StarHuoXing] = huoLingStart[trine][0].Add(hour)
	at[StarLingXing] = huoLingStart[trine][1].Add(hour)
	at[StarDiKong] = BranchHai.Add(-hour)
	at[StarDiJie] = BranchHai.Add(hour)
	return at
}

// PlaceStars puts every star into its palace with brightness and the year's
// Four Transformations. Stars within a palace keep placement order: major
// stars first, then lucky and unlucky stars.
func PlaceStars(in PlacementInput, palaces *[branchCount]Palace) error {
	if err := in.validate(); err != nil {
		return err
	}
	at := starBranches(in)
	markers := transformationsByStem[in.YearStem]

	for name := StarName(0); name < starCount; name++ {
		branch := at[name]
		star := Star{
			Name:       name,
			Category:   name.Category(),
			IsMajor:    name.IsMajor(),
			Brightness: brightnessTable[name][branch],
		}
		for i, marked := range markers {
			if marked == name {
				star.Transformation = Transformation(i + 1)
			}
		}
		palaces[branch].Stars = append(palaces[branch].Stars, star)
	}
	return nil
}
