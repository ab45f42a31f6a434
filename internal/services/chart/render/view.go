// Package render turns computed charts into localized, display-ready views
// and writes them as text, JSON or YAML.
package render

import (
	"strconv"
	"time"

	"github.com/louisbranch/ziwei/internal/platform/i18n"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/calendar"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
)

// StarView is a placed star with localized labels.
type StarView struct {
	Key            string `json:"key" yaml:"key"`
	Name           string `json:"name" yaml:"name"`
	Category       string `json:"category" yaml:"category"`
	Major          bool   `json:"major" yaml:"major"`
	Brightness     string `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	Transformation string `json:"transformation,omitempty" yaml:"transformation,omitempty"`
	Label          string `json:"label" yaml:"label"`
}

// PalaceView is one palace with localized labels.
type PalaceView struct {
	Branch    string     `json:"branch" yaml:"branch"`
	Stem      string     `json:"stem" yaml:"stem"`
	Role      string     `json:"role" yaml:"role"`
	GridIndex int        `json:"grid_index" yaml:"grid_index"`
	AgeRange  string     `json:"age_range" yaml:"age_range"`
	IsLife    bool       `json:"is_life" yaml:"is_life"`
	IsBody    bool       `json:"is_body" yaml:"is_body"`
	Stars     []StarView `json:"stars" yaml:"stars"`
}

// MetadataView is the chart-level summary with localized labels.
type MetadataView struct {
	Sex          string `json:"sex" yaml:"sex"`
	Bureau       string `json:"bureau" yaml:"bureau"`
	BureauNumber int    `json:"bureau_number" yaml:"bureau_number"`
	SolarDate    string `json:"solar_date" yaml:"solar_date"`
	LunarDate    string `json:"lunar_date" yaml:"lunar_date"`
	LunarYear    int    `json:"lunar_year" yaml:"lunar_year"`
	LunarMonth   int    `json:"lunar_month" yaml:"lunar_month"`
	LunarDay     int    `json:"lunar_day" yaml:"lunar_day"`
	IsLeapMonth  bool   `json:"is_leap_month" yaml:"is_leap_month"`
	// EffectiveMonth is the month the chart was placed with.
	EffectiveMonth int    `json:"effective_month" yaml:"effective_month"`
	Zodiac         string `json:"zodiac" yaml:"zodiac"`
	LifeMaster     string `json:"life_master" yaml:"life_master"`
	BodyMaster     string `json:"body_master" yaml:"body_master"`
	YearStem       string `json:"year_stem" yaml:"year_stem"`
	YearBranch     string `json:"year_branch" yaml:"year_branch"`
	HourBranch     string `json:"hour_branch" yaml:"hour_branch"`
	LifeBranch     string `json:"life_branch" yaml:"life_branch"`
	BodyBranch     string `json:"body_branch" yaml:"body_branch"`
}

// ChartView is a localized chart. Palaces are in grid order, Si first.
type ChartView struct {
	Locale   string       `json:"locale" yaml:"locale"`
	Metadata MetadataView `json:"metadata" yaml:"metadata"`
	Palaces  []PalaceView `json:"palaces" yaml:"palaces"`
}

// LunarDateView is a localized lunar date.
type LunarDateView struct {
	Locale      string `json:"locale" yaml:"locale"`
	Year        int    `json:"year" yaml:"year"`
	Month       int    `json:"month" yaml:"month"`
	Day         int    `json:"day" yaml:"day"`
	IsLeapMonth bool   `json:"is_leap_month" yaml:"is_leap_month"`
	YearStem    string `json:"year_stem" yaml:"year_stem"`
	YearBranch  string `json:"year_branch" yaml:"year_branch"`
	Zodiac      string `json:"zodiac" yaml:"zodiac"`
	Label       string `json:"label" yaml:"label"`
	// NewYear is the solar date of the lunar year's first day.
	NewYear string `json:"new_year" yaml:"new_year"`
	// YearLeapMonth is the month the year's leap month follows, or zero.
	YearLeapMonth int `json:"year_leap_month" yaml:"year_leap_month"`
	MonthDays     int `json:"month_days" yaml:"month_days"`
}

// Renderer builds views for any supported locale.
type Renderer struct {
	bundle *i18n.Bundle
}

// NewRenderer returns a renderer with the built-in label bundle.
func NewRenderer() (*Renderer, error) {
	bundle, err := NewBundle()
	if err != nil {
		return nil, err
	}
	return &Renderer{bundle: bundle}, nil
}

// Locale resolves a requested locale to the one views will use.
func (r *Renderer) Locale(requested string) string {
	return r.bundle.Match(requested)
}

// Chart localizes a computed chart.
func (r *Renderer) Chart(chart ziwei.ChartData, locale string) ChartView {
	loc := r.bundle.Localizer(locale)
	meta := chart.Metadata

	view := ChartView{
		Locale: loc.Locale(),
		Metadata: MetadataView{
			Sex:            loc.Label(meta.Sex.Label()),
			Bureau:         loc.Label(meta.BureauLabel),
			BureauNumber:   int(meta.Bureau),
			SolarDate:      loc.Sprintf(solarDateFormat, itoa(meta.SolarYear), itoa(meta.SolarMonth), itoa(meta.SolarDay), itoa(meta.Hour)),
			LunarDate:      lunarLabel(loc, calendar.LunarDate{Year: meta.LunarYear, Month: meta.LunarMonth, Day: meta.LunarDay, IsLeapMonth: meta.IsLeapMonth}, meta.HourBranch),
			LunarYear:      meta.LunarYear,
			LunarMonth:     meta.LunarMonth,
			LunarDay:       meta.LunarDay,
			IsLeapMonth:    meta.IsLeapMonth,
			EffectiveMonth: meta.EffectiveMonth,
			Zodiac:         loc.Label(meta.Zodiac),
			LifeMaster:     loc.Label(meta.LifeMaster.String()),
			BodyMaster:     loc.Label(meta.BodyMaster.String()),
			YearStem:       loc.Label(meta.YearStem.String()),
			YearBranch:     loc.Label(meta.YearBranch.String()),
			HourBranch:     loc.Label(meta.HourBranch.String()),
			LifeBranch:     loc.Label(meta.LifeBranch.String()),
			BodyBranch:     loc.Label(meta.BodyBranch.String()),
		},
	}

	for _, palace := range chart.Grid() {
		view.Palaces = append(view.Palaces, palaceView(loc, palace))
	}
	return view
}

// LunarDate localizes a converted lunar date.
func (r *Renderer) LunarDate(lunar calendar.LunarDate, locale string) LunarDateView {
	loc := r.bundle.Localizer(locale)
	stem := ziwei.YearStem(lunar.Year)
	branch := ziwei.YearBranch(lunar.Year)

	view := LunarDateView{
		Locale:      loc.Locale(),
		Year:        lunar.Year,
		Month:       lunar.Month,
		Day:         lunar.Day,
		IsLeapMonth: lunar.IsLeapMonth,
		YearStem:    loc.Label(stem.String()),
		YearBranch:  loc.Label(branch.String()),
		Zodiac:      loc.Label(ziwei.Zodiac(branch)),
		Label:       lunarDayLabel(loc, lunar),
	}
	if info, err := calendar.Lookup(lunar.Year); err == nil {
		view.NewYear = info.NewYear.Format(time.DateOnly)
		view.YearLeapMonth = info.LeapMonth
		if lunar.IsLeapMonth {
			view.MonthDays = info.LeapMonthDays
		} else if lunar.Month >= 1 && lunar.Month <= 12 {
			view.MonthDays = info.MonthDays[lunar.Month-1]
		}
	}
	return view
}

// Label translates a single zh-TW label.
func (r *Renderer) Label(key, locale string) string {
	return r.bundle.Localizer(locale).Label(key)
}

// lunarLabel renders a lunar birth moment. zh-TW keeps the traditional
// month and day names the engine formats; other locales use numbers.
func lunarLabel(loc i18n.Localizer, lunar calendar.LunarDate, hour ziwei.Branch) string {
	if loc.Locale() == i18n.LocaleZhTW {
		return ziwei.FormatLunarDate(lunar, hour)
	}
	return loc.Sprintf(lunarDateFormat, lunarYearLabel(loc, lunar.Year), leapLabel(loc, lunar), itoa(lunar.Month), itoa(lunar.Day), loc.Label(hour.String()))
}

func lunarDayLabel(loc i18n.Localizer, lunar calendar.LunarDate) string {
	if loc.Locale() == i18n.LocaleZhTW {
		return ziwei.YearStem(lunar.Year).String() + ziwei.YearBranch(lunar.Year).String() + "年" + lunar.MonthName() + lunar.DayName() + "日"
	}
	return loc.Sprintf(lunarDayFormat, lunarYearLabel(loc, lunar.Year), leapLabel(loc, lunar), itoa(lunar.Month), itoa(lunar.Day))
}

func lunarYearLabel(loc i18n.Localizer, year int) string {
	return loc.Label(ziwei.YearStem(year).String()) + " " + loc.Label(ziwei.YearBranch(year).String())
}

func leapLabel(loc i18n.Localizer, lunar calendar.LunarDate) string {
	if !lunar.IsLeapMonth {
		return ""
	}
	return loc.Label(leapPrefix)
}

func palaceView(loc i18n.Localizer, palace ziwei.Palace) PalaceView {
	view := PalaceView{
		Branch:    loc.Label(palace.Branch.String()),
		Stem:      loc.Label(palace.Stem.String()),
		Role:      loc.Label(palace.Role.String()),
		GridIndex: palace.GridIndex,
		AgeRange:  palace.AgeRange.String(),
		IsLife:    palace.IsLifePalace,
		IsBody:    palace.IsBodyPalace,
		Stars:     make([]StarView, 0, len(palace.Stars)),
	}
	for _, star := range palace.Stars {
		view.Stars = append(view.Stars, starView(loc, star))
	}
	return view
}

func starView(loc i18n.Localizer, star ziwei.Star) StarView {
	view := StarView{
		Key:            star.Name.Pinyin(),
		Name:           loc.Label(star.Name.String()),
		Category:       string(star.Category),
		Major:          star.IsMajor,
		Brightness:     loc.Label(star.Brightness.String()),
		Transformation: loc.Label(star.Transformation.String()),
	}
	if loc.Locale() == i18n.LocaleZhTW {
		view.Label = star.Label()
		return view
	}
	view.Label = view.Name
	if view.Brightness != "" {
		view.Label += " (" + view.Brightness + ")"
	}
	if view.Transformation != "" {
		view.Label += " [" + view.Transformation + "]"
	}
	return view
}

func itoa(n int) string { return strconv.Itoa(n) }
