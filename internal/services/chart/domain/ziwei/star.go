package ziwei

import "fmt"

// StarName identifies a star placed on the chart.
type StarName int

// The fourteen major stars come first, in Zi Wei chain then Tian Fu chain
// order, followed by the auxiliary stars.
const (
	StarZiWei StarName = iota
	StarTianJi
	StarTaiYang
	StarWuQu
	StarTianTong
	StarLianZhen
	StarTianFu
	StarTaiYin
	StarTanLang
	StarJuMen
	StarTianXiang
	StarTianLiang
	StarQiSha
	StarPoJun

	StarZuoFu
	StarYouBi
	StarWenChang
	StarWenQu
	StarTianKui
	StarTianYue
	StarLuCun
	StarTianMa

	StarQingYang
	StarTuoLuo
	StarHuoXing
	StarLingXing
	StarDiKong
	StarDiJie

	starCount
)

// MajorStarCount is the number of major stars every chart carries.
const MajorStarCount = int(StarPoJun) + 1

var starNames = [starCount]string{
	"紫微", "天機", "太陽", "武曲", "天同", "廉貞",
	"天府", "太陰", "貪狼", "巨門", "天相", "天梁", "七殺", "破軍",
	"左輔", "右弼", "文昌", "文曲", "天魁", "天鉞", "祿存", "天馬",
	"擎羊", "陀羅", "火星", "鈴星", "地空", "地劫",
}

var starPinyin = [starCount]string{
	"Zi Wei", "Tian Ji", "Tai Yang", "Wu Qu", "Tian Tong", "Lian Zhen",
	"Tian Fu", "Tai Yin", "Tan Lang", "Ju Men", "Tian Xiang", "Tian Liang", "Qi Sha", "Po Jun",
	"Zuo Fu", "You Bi", "Wen Chang", "Wen Qu", "Tian Kui", "Tian Yue", "Lu Cun", "Tian Ma",
	"Qing Yang", "Tuo Luo", "Huo Xing", "Ling Xing", "Di Kong", "Di Jie",
}

// AllStars returns every star name in placement order.
func AllStars() []StarName {
	names := make([]StarName, 0, starCount)
	for name := StarName(0); name < starCount; name++ {
		names = append(names, name)
	}
	return names
}

// Valid reports whether n names a known star.
func (n StarName) Valid() bool { return n >= 0 && n < starCount }

// String returns the traditional star name.
func (n StarName) String() string {
	if !n.Valid() {
		return fmt.Sprintf("StarName(%d)", int(n))
	}
	return starNames[n]
}

// Pinyin returns the romanized star name.
func (n StarName) Pinyin() string {
	if !n.Valid() {
		return ""
	}
	return starPinyin[n]
}

// IsMajor reports whether n is one of the fourteen major stars.
func (n StarName) IsMajor() bool { return n >= StarZiWei && n <= StarPoJun }

// Category returns the star's classification.
func (n StarName) Category() Category {
	switch {
	case n.IsMajor():
		return CategoryMajor
	case n >= StarZuoFu && n <= StarTianMa:
		return CategoryLucky
	case n >= StarQingYang && n <= StarDiJie:
		return CategoryUnlucky
	default:
		return CategoryUnspecified
	}
}

// ParseStarName resolves a traditional or romanized star name.
func ParseStarName(value string) (StarName, bool) {
	for name := StarName(0); name < starCount; name++ {
		if value == starNames[name] || value == starPinyin[name] {
			return name, true
		}
	}
	return 0, false
}

// Category groups stars by their role in interpretation.
type Category string

const (
	CategoryUnspecified Category = ""
	CategoryMajor       Category = "major"
	CategoryLucky       Category = "lucky"
	CategoryUnlucky     Category = "unlucky"
)

// Brightness is the strength grade of a star at its branch. The zero value is
// used for positions the classical tables leave unrated.
type Brightness int

const (
	BrightnessNone Brightness = iota
	BrightnessMiao
	BrightnessWang
	BrightnessDe
	BrightnessBu
	BrightnessXian
)

var brightnessNames = [...]string{"", "廟", "旺", "得", "不", "陷"}

func (b Brightness) String() string {
	if b < 0 || int(b) >= len(brightnessNames) {
		return fmt.Sprintf("Brightness(%d)", int(b))
	}
	return brightnessNames[b]
}

// Transformation is one of the Four Transformations (Si Hua).
type Transformation int

const (
	TransformationNone Transformation = iota
	TransformationLu
	TransformationQuan
	TransformationKe
	TransformationJi
)

var transformationNames = [...]string{"", "祿", "權", "科", "忌"}

func (t Transformation) String() string {
	if t < 0 || int(t) >= len(transformationNames) {
		return fmt.Sprintf("Transformation(%d)", int(t))
	}
	return transformationNames[t]
}

// Star is a star as placed in a palace.
type Star struct {
	Name           StarName       `json:"name"`
	Category       Category       `json:"category"`
	IsMajor        bool           `json:"is_major"`
	Brightness     Brightness     `json:"brightness,omitempty"`
	Transformation Transformation `json:"transformation,omitempty"`
}

// Label renders the star with its brightness and transformation, e.g. 太陽旺祿.
func (s Star) Label() string {
	return s.Name.String() + s.Brightness.String() + s.Transformation.String()
}
