package render

import (
	"strconv"

	"github.com/louisbranch/ziwei/internal/platform/i18n"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
)

// Heading labels. Keys are the zh-TW text.
const (
	labelSolar      = "陽曆"
	labelLunar      = "農曆"
	labelSex        = "性別"
	labelBureau     = "五行局"
	labelZodiac     = "生肖"
	labelLifeMaster = "命主"
	labelBodyMaster = "身主"
	labelYear       = "年干支"
	labelBody       = "身宮"
	labelDecade     = "大限"
	labelNoStars    = "空宮"

	// Numbers are passed pre-formatted: the message printer would group
	// digits in a year.
	solarDateFormat = "%s年%s月%s日 %s時"
	lunarDateFormat = "%s年%s%s月%s日 %s時"
	lunarDayFormat  = "%s年%s%s月%s日"
	leapPrefix      = "閏"
)

var (
	zodiacEnglish = [...]string{"Rat", "Ox", "Tiger", "Rabbit", "Dragon", "Snake", "Horse", "Goat", "Monkey", "Rooster", "Dog", "Pig"}

	elementEnglish = map[ziwei.Element]string{
		ziwei.ElementWater: "Water",
		ziwei.ElementWood:  "Wood",
		ziwei.ElementMetal: "Metal",
		ziwei.ElementEarth: "Earth",
		ziwei.ElementFire:  "Fire",
	}

	brightnessEnglish = map[ziwei.Brightness]string{
		ziwei.BrightnessMiao: "Temple",
		ziwei.BrightnessWang: "Prosperous",
		ziwei.BrightnessDe:   "Favorable",
		ziwei.BrightnessBu:   "Weak",
		ziwei.BrightnessXian: "Fallen",
	}

	transformationEnglish = map[ziwei.Transformation]string{
		ziwei.TransformationLu:   "Lu",
		ziwei.TransformationQuan: "Quan",
		ziwei.TransformationKe:   "Ke",
		ziwei.TransformationJi:   "Ji",
	}
)

// englishLabels builds the en-US translation table from the engine's own
// enumerations so every label the view emits has an entry.
func englishLabels() map[string]string {
	labels := map[string]string{
		labelSolar:              "Solar",
		labelLunar:              "Lunar",
		labelSex:                "Sex",
		labelBureau:             "Bureau",
		labelZodiac:             "Zodiac",
		labelLifeMaster:         "Life Master",
		labelBodyMaster:         "Body Master",
		labelYear:               "Year",
		labelBody:               "Body",
		labelDecade:             "Decade",
		labelNoStars:            "Empty",
		solarDateFormat:         "%s-%s-%s %s:00",
		lunarDateFormat:         "%s year, %smonth %s day %s, %s hour",
		lunarDayFormat:          "%s year, %smonth %s day %s",
		leapPrefix:              "leap ",
		ziwei.SexMale.Label():   "Male",
		ziwei.SexFemale.Label(): "Female",
	}
	for _, name := range ziwei.AllStars() {
		labels[name.String()] = name.Pinyin()
	}
	for role := ziwei.RoleLife; role <= ziwei.RoleParents; role++ {
		labels[role.String()] = role.English()
	}
	for stem := ziwei.StemJia; stem <= ziwei.StemGui; stem++ {
		labels[stem.String()] = stem.Pinyin()
	}
	for branch := ziwei.BranchZi; branch <= ziwei.BranchHai; branch++ {
		labels[branch.String()] = branch.Pinyin()
		labels[ziwei.Zodiac(branch)] = zodiacEnglish[branch]
	}
	for element, english := range elementEnglish {
		labels[element.String()] = english
	}
	for bureau := ziwei.BureauWater; bureau <= ziwei.BureauFire; bureau++ {
		labels[bureau.Label()] = elementEnglish[bureau.Element()] + " " + strconv.Itoa(int(bureau))
	}
	for brightness, english := range brightnessEnglish {
		labels[brightness.String()] = english
	}
	for transformation, english := range transformationEnglish {
		labels[transformation.String()] = english
	}
	return labels
}

// NewBundle returns a label bundle with every locale the renderer supports.
func NewBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle()
	if err := bundle.Add(i18n.LocaleEnUS, englishLabels()); err != nil {
		return nil, err
	}
	return bundle, nil
}
