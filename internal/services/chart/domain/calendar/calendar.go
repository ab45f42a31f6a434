// Package calendar converts Gregorian dates to the Chinese lunisolar calendar.
//
// Conversion is table driven and covers lunar years 1900 through 2100. The
// table is expanded once at package initialization into per-year records
// holding the solar day number of the lunar new year and every month length;
// nothing is mutated afterwards, so the package is safe for concurrent use.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	// FirstYear is the first lunar year covered by the reference table.
	FirstYear = 1900
	// LastYear is the last lunar year covered by the reference table.
	LastYear = 2100

	secondsPerDay = 24 * 60 * 60
)

var (
	// ErrInvalidDate indicates a calendrically impossible solar date.
	ErrInvalidDate = errors.New("invalid solar date")
	// ErrOutOfRange indicates a solar date outside the supported table window.
	ErrOutOfRange = errors.New("solar date outside supported lunisolar window")
)

// LunarDate is a date in the Chinese lunisolar calendar.
type LunarDate struct {
	Year        int  `json:"year"`
	Month       int  `json:"month"`
	Day         int  `json:"day"`
	IsLeapMonth bool `json:"is_leap_month"`
}

// MonthName returns the traditional month name, prefixed with 閏 for leap months.
func (d LunarDate) MonthName() string {
	name := MonthName(d.Month)
	if d.IsLeapMonth {
		return "閏" + name
	}
	return name
}

// DayName returns the traditional day name, such as 初一 or 廿三.
func (d LunarDate) DayName() string {
	return DayName(d.Day)
}

// YearInfo describes one lunar year of the reference table.
type YearInfo struct {
	Year int
	// NewYear is the solar date of the first day of the lunar year (UTC midnight).
	NewYear time.Time
	// LeapMonth is the month followed by a leap month, or zero.
	LeapMonth int
	// MonthDays holds the lengths of the twelve regular months.
	MonthDays [12]int
	// LeapMonthDays is the leap month length, or zero.
	LeapMonthDays int
	// TotalDays is the length of the whole lunar year.
	TotalDays int
}

type yearRecord struct {
	newYear   int64
	leapMonth int
	leapDays  int
	monthDays [12]int
	totalDays int
}

var (
	years [LastYear - FirstYear + 1]yearRecord

	// firstDay and lastDay bound the supported solar window, inclusive.
	firstDay = dayNumber(1900, 1, 31)
	lastDay  = dayNumber(2100, 12, 31)
)

func init() {
	day := firstDay
	for i, packed := range lunarYears {
		record := unpackYear(packed)
		record.newYear = day
		years[i] = record
		day += int64(record.totalDays)
	}
}

func unpackYear(packed uint32) yearRecord {
	var record yearRecord
	record.leapMonth = int(packed & 0xf)
	for i := 0; i < 12; i++ {
		days := 29
		if packed&(0x8000>>uint(i)) != 0 {
			days = 30
		}
		record.monthDays[i] = days
		record.totalDays += days
	}
	if record.leapMonth != 0 {
		record.leapDays = 29
		if packed&0x10000 != 0 {
			record.leapDays = 30
		}
		record.totalDays += record.leapDays
	}
	return record
}

// Window returns the first and last solar dates the converter accepts.
func Window() (first, last time.Time) {
	return dateOf(firstDay), dateOf(lastDay)
}

// Lookup returns the reference record for a lunar year.
func Lookup(year int) (YearInfo, error) {
	if year < FirstYear || year > LastYear {
		return YearInfo{}, fmt.Errorf("%w: lunar year %d", ErrOutOfRange, year)
	}
	record := years[year-FirstYear]
	return YearInfo{
		Year:          year,
		NewYear:       dateOf(record.newYear),
		LeapMonth:     record.leapMonth,
		MonthDays:     record.monthDays,
		LeapMonthDays: record.leapDays,
		TotalDays:     record.totalDays,
	}, nil
}

// ValidateSolarDate reports whether year/month/day is a real Gregorian date.
func ValidateSolarDate(year, month, day int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d outside 1-12", ErrInvalidDate, month)
	}
	if limit := DaysInMonth(year, month); day < 1 || day > limit {
		return fmt.Errorf("%w: day %d outside 1-%d for %04d-%02d", ErrInvalidDate, day, limit, year, month)
	}
	return nil
}

// Convert maps a solar date to its lunisolar date.
//
// The date is validated before any table access: impossible dates fail with
// ErrInvalidDate, dates outside 1900-01-31..2100-12-31 with ErrOutOfRange.
func Convert(year, month, day int) (LunarDate, error) {
	if err := ValidateSolarDate(year, month, day); err != nil {
		return LunarDate{}, err
	}
	target := dayNumber(year, month, day)
	if target < firstDay || target > lastDay {
		return LunarDate{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrOutOfRange, year, month, day)
	}

	// Index of the last lunar year starting on or before target.
	index := sort.Search(len(years), func(i int) bool {
		return years[i].newYear > target
	}) - 1
	if index < 0 {
		return LunarDate{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrOutOfRange, year, month, day)
	}

	record := years[index]
	offset := int(target - record.newYear)
	lunarYear := FirstYear + index
	for m := 1; m <= 12; m++ {
		length := record.monthDays[m-1]
		if offset < length {
			return LunarDate{Year: lunarYear, Month: m, Day: offset + 1}, nil
		}
		offset -= length
		if record.leapMonth == m {
			if offset < record.leapDays {
				return LunarDate{Year: lunarYear, Month: m, Day: offset + 1, IsLeapMonth: true}, nil
			}
			offset -= record.leapDays
		}
	}
	// The binary search guarantees target falls inside the year.
	return LunarDate{}, fmt.Errorf("%w: %04d-%02d-%02d past lunar year %d", ErrOutOfRange, year, month, day, lunarYear)
}

// DaysInMonth returns the number of days in a Gregorian month.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// dayNumber returns days since the Unix epoch for a valid date.
func dayNumber(year, month, day int) int64 {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

func dateOf(days int64) time.Time {
	return time.Unix(days*secondsPerDay, 0).UTC()
}

var monthNames = [12]string{"正月", "二月", "三月", "四月", "五月", "六月", "七月", "八月", "九月", "十月", "冬月", "臘月"}

// MonthName returns the traditional name of lunar month 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

var (
	dayDigits = [10]string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九"}
	dayPrefix = [3]string{"初", "十", "廿"}
	roundTens = map[int]string{10: "初十", 20: "二十", 30: "三十"}
)

// DayName returns the traditional name of lunar day 1-30.
func DayName(day int) string {
	if day < 1 || day > 30 {
		return ""
	}
	if name, ok := roundTens[day]; ok {
		return name
	}
	return dayPrefix[day/10] + dayDigits[day%10]
}
