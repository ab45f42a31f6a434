package ziwei

import (
	"fmt"

	"github.com/louisbranch/ziwei/internal/services/chart/domain/calendar"
)

var zodiacAnimals = [branchCount]string{"鼠", "牛", "虎", "兔", "龍", "蛇", "馬", "羊", "猴", "雞", "狗", "豬"}

var lifeMasters = [branchCount]StarName{
	BranchZi:   StarTanLang,
	BranchChou: StarJuMen,
	BranchYin:  StarLuCun,
	BranchMao:  StarWenQu,
	BranchChen: StarLianZhen,
	BranchSi:   StarWuQu,
	BranchWu:   StarPoJun,
	BranchWei:  StarWuQu,
	BranchShen: StarLianZhen,
	BranchYou:  StarWenQu,
	BranchXu:   StarLuCun,
	BranchHai:  StarJuMen,
}

var bodyMasters = [branchCount]StarName{
	BranchZi:   StarHuoXing,
	BranchChou: StarTianXiang,
	BranchYin:  StarTianLiang,
	BranchMao:  StarTianTong,
	BranchChen: StarWenChang,
	BranchSi:   StarTianJi,
	BranchWu:   StarHuoXing,
	BranchWei:  StarTianXiang,
	BranchShen: StarTianLiang,
	BranchYou:  StarTianTong,
	BranchXu:   StarWenChang,
	BranchHai:  StarTianJi,
}

// Zodiac returns the zodiac animal of a year branch.
func Zodiac(yearBranch Branch) string {
	if !yearBranch.Valid() {
		return ""
	}
	return zodiacAnimals[yearBranch]
}

// LifeMaster returns the Life Master star for the Life palace branch.
func LifeMaster(lifeBranch Branch) StarName { return lifeMasters[lifeBranch] }

// BodyMaster returns the Body Master star for the Body palace branch.
func BodyMaster(bodyBranch Branch) StarName { return bodyMasters[bodyBranch] }

// Metadata is the chart-level information printed beside the palaces.
type Metadata struct {
	Sex         Sex    `json:"sex"`
	Bureau      Bureau `json:"bureau"`
	BureauLabel string `json:"bureau_label"`

	SolarYear  int `json:"solar_year"`
	SolarMonth int `json:"solar_month"`
	SolarDay   int `json:"solar_day"`
	Hour       int `json:"hour"`

	LunarYear   int  `json:"lunar_year"`
	LunarMonth  int  `json:"lunar_month"`
	LunarDay    int  `json:"lunar_day"`
	IsLeapMonth bool `json:"is_leap_month"`
	// EffectiveMonth is the month used for placement; it differs from
	// LunarMonth only for births in the second half of a leap month.
	EffectiveMonth int `json:"effective_month"`

	SolarDateString string `json:"solar_date_string"`
	LunarDateString string `json:"lunar_date_string"`

	Zodiac     string   `json:"zodiac"`
	LifeMaster StarName `json:"life_master"`
	BodyMaster StarName `json:"body_master"`
	YearStem   Stem     `json:"year_stem"`
	YearBranch Branch   `json:"year_branch"`
	HourBranch Branch   `json:"hour_branch"`
	LifeBranch Branch   `json:"life_branch"`
	BodyBranch Branch   `json:"body_branch"`
}

// metadataInput gathers what the metadata stage reads from earlier stages.
type metadataInput struct {
	birth      BirthInput
	lunar      calendar.LunarDate
	effective  int
	hour       Branch
	yearStem   Stem
	yearBranch Branch
	bureau     BureauResult
}

func assembleMetadata(in metadataInput) Metadata {
	return Metadata{
		Sex:             in.birth.Sex,
		Bureau:          in.bureau.Bureau,
		BureauLabel:     in.bureau.Bureau.Label(),
		SolarYear:       in.birth.Year,
		SolarMonth:      in.birth.Month,
		SolarDay:        in.birth.Day,
		Hour:            in.birth.Hour,
		LunarYear:       in.lunar.Year,
		LunarMonth:      in.lunar.Month,
		LunarDay:        in.lunar.Day,
		IsLeapMonth:     in.lunar.IsLeapMonth,
		EffectiveMonth:  in.effective,
		SolarDateString: FormatSolarDate(in.birth.Year, in.birth.Month, in.birth.Day, in.birth.Hour),
		LunarDateString: FormatLunarDate(in.lunar, in.hour),
		Zodiac:          Zodiac(in.yearBranch),
		LifeMaster:      LifeMaster(in.bureau.LifeBranch),
		BodyMaster:      BodyMaster(in.bureau.BodyBranch),
		YearStem:        in.yearStem,
		YearBranch:      in.yearBranch,
		HourBranch:      in.hour,
		LifeBranch:      in.bureau.LifeBranch,
		BodyBranch:      in.bureau.BodyBranch,
	}
}

// FormatSolarDate renders a solar birth moment as "1990年6月15日 14時".
func FormatSolarDate(year, month, day, hour int) string {
	return fmt.Sprintf("%d年%d月%d日 %d時", year, month, day, hour)
}

// FormatLunarDate renders a lunar birth moment as "庚午年五月廿三日 未時".
func FormatLunarDate(lunar calendar.LunarDate, hour Branch) string {
	stem := YearStem(lunar.Year)
	branch := YearBranch(lunar.Year)
	return stem.String() + branch.String() + "年" + lunar.MonthName() + lunar.DayName() + "日 " + hour.String() + "時"
}
