package ziwei

import (
	"time"

	"github.com/louisbranch/ziwei/internal/services/chart/domain/calendar"
)

// StarRule summarizes one star's placement input and brightness row.
type StarRule struct {
	Star       StarName
	Category   Category
	Rule       string
	Brightness [branchCount]Brightness
}

// TransformationRule lists the four transformed stars for one year stem.
type TransformationRule struct {
	Stem Stem
	Lu   StarName
	Quan StarName
	Ke   StarName
	Ji   StarName
}

// Ruleset describes the tables the engine computes charts with.
type Ruleset struct {
	FirstLunarYear  int
	LastLunarYear   int
	FirstSolarDate  time.Time
	LastSolarDate   time.Time
	ZiWeiChain      []ChainOffset
	TianFuChain     []ChainOffset
	Stars           []StarRule
	Transformations []TransformationRule
}

var starRules = [starCount]string{
	StarZiWei:     "lunar day and bureau",
	StarTianJi:    "Zi Wei chain",
	StarTaiYang:   "Zi Wei chain",
	StarWuQu:      "Zi Wei chain",
	StarTianTong:  "Zi Wei chain",
	StarLianZhen:  "Zi Wei chain",
	StarTianFu:    "mirror of Zi Wei across Yin-Shen",
	StarTaiYin:    "Tian Fu chain",
	StarTanLang:   "Tian Fu chain",
	StarJuMen:     "Tian Fu chain",
	StarTianXiang: "Tian Fu chain",
	StarTianLiang: "Tian Fu chain",
	StarQiSha:     "Tian Fu chain",
	StarPoJun:     "Tian Fu chain",
	StarZuoFu:     "lunar month from Chen, clockwise",
	StarYouBi:     "lunar month from Xu, counter-clockwise",
	StarWenChang:  "hour from Xu, counter-clockwise",
	StarWenQu:     "hour from Chen, clockwise",
	StarTianKui:   "year stem",
	StarTianYue:   "year stem",
	StarLuCun:     "year stem",
	StarTianMa:    "year branch trine",
	StarQingYang:  "one palace after Lu Cun",
	StarTuoLuo:    "one palace before Lu Cun",
	StarHuoXing:   "year branch trine and hour",
	StarLingXing:  "year branch trine and hour",
	StarDiKong:    "hour from Hai, counter-clockwise",
	StarDiJie:     "hour from Hai, clockwise",
}

// Rules returns a copy of the placement, brightness and transformation
// tables.
func Rules() Ruleset {
	first, last := calendar.Window()
	rules := Ruleset{
		FirstLunarYear: calendar.FirstYear,
		LastLunarYear:  calendar.LastYear,
		FirstSolarDate: first,
		LastSolarDate:  last,
		ZiWeiChain:     append([]ChainOffset(nil), ziWeiChain...),
		TianFuChain:    append([]ChainOffset(nil), tianFuChain...),
	}
	for _, name := range AllStars() {
		rules.Stars = append(rules.Stars, StarRule{
			Star:       name,
			Category:   name.Category(),
			Rule:       starRules[name],
			Brightness: brightnessTable[name],
		})
	}
	for stem := Stem(0); stem < stemCount; stem++ {
		markers := transformationsByStem[stem]
		rules.Transformations = append(rules.Transformations, TransformationRule{
			Stem: stem,
			Lu:   markers[0],
			Quan: markers[1],
			Ke:   markers[2],
			Ji:   markers[3],
		})
	}
	return rules
}
