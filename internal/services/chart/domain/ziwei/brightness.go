package ziwei

const (
	na = BrightnessNone
	mi = BrightnessMiao
	wa = BrightnessWang
	de = BrightnessDe
	bu = BrightnessBu
	xi = BrightnessXian
)

// brightnessTable holds one grade per branch, Zi through Hai. Stars without a
// row are unrated everywhere.
var brightnessTable = [starCount][branchCount]Brightness{
	StarZiWei:     {bu, mi, wa, wa, de, wa, mi, mi, wa, wa, de, wa},
	StarTianJi:    {mi, xi, de, wa, de, bu, mi, xi, de, wa, de, bu},
	StarTaiYang:   {xi, bu, wa, mi, wa, wa, wa, de, de, xi, bu, xi},
	StarWuQu:      {wa, mi, de, de, mi, bu, wa, mi, de, de, mi, bu},
	StarTianTong:  {wa, bu, de, bu, bu, mi, xi, bu, wa, bu, bu, mi},
	StarLianZhen:  {bu, de, mi, bu, de, xi, bu, de, mi, bu, de, xi},
	StarTianFu:    {mi, mi, mi, de, mi, de, wa, mi, de, wa, mi, de},
	StarTaiYin:    {mi, mi, wa, xi, xi, xi, bu, bu, de, bu, wa, mi},
	StarTanLang:   {wa, mi, bu, de, mi, xi, wa, mi, bu, de, mi, xi},
	StarJuMen:     {wa, bu, mi, mi, xi, wa, wa, bu, mi, mi, xi, wa},
	StarTianXiang: {mi, mi, mi, xi, de, de, mi, de, mi, xi, de, de},
	StarTianLiang: {wa, wa, mi, mi, mi, xi, mi, wa, xi, de, wa, xi},
	StarQiSha:     {wa, mi, mi, wa, mi, bu, wa, mi, mi, mi, mi, bu},
	StarPoJun:     {mi, wa, de, xi, wa, bu, mi, wa, de, xi, wa, bu},
	StarWenChang:  {de, mi, xi, de, de, mi, xi, de, de, mi, xi, de},
	StarWenQu:     {de, mi, bu, wa, de, mi, xi, wa, de, mi, xi, wa},
	StarQingYang:  {xi, mi, na, xi, mi, na, xi, mi, na, xi, mi, na},
	StarTuoLuo:    {na, mi, xi, na, mi, xi, na, mi, xi, na, mi, xi},
	StarHuoXing:   {xi, de, mi, de, xi, de, mi, de, xi, de, mi, de},
	StarLingXing:  {xi, de, mi, de, xi, de, mi, de, xi, de, mi, de},
}

// BrightnessAt returns the grade of star at branch.
func BrightnessAt(star StarName, branch Branch) Brightness {
	if !star.Valid() || !branch.Valid() {
		return BrightnessNone
	}
	return brightnessTable[star][branch]
}
