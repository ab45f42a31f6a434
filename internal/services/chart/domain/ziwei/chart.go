package ziwei

import (
	"fmt"

	"github.com/louisbranch/ziwei/internal/services/chart/domain/calendar"
)

// BirthInput is a local wall-clock birth moment.
type BirthInput struct {
	Year  int
	Month int
	Day   int
	// Hour is the wall-clock hour, 0-23.
	Hour int
	Sex  Sex
}

// ChartData is a complete natal chart. Palaces is indexed by Branch.
type ChartData struct {
	Palaces  [branchCount]Palace `json:"palaces"`
	Metadata Metadata            `json:"metadata"`
}

// LifePalace returns the palace flagged as the Life palace.
func (c ChartData) LifePalace() Palace { return c.Palaces[c.Metadata.LifeBranch] }

// BodyPalace returns the palace flagged as the Body palace.
func (c ChartData) BodyPalace() Palace { return c.Palaces[c.Metadata.BodyBranch] }

// Grid returns the palaces ordered by display cell, Si first.
func (c ChartData) Grid() [branchCount]Palace {
	var grid [branchCount]Palace
	for _, palace := range c.Palaces {
		grid[palace.GridIndex] = palace
	}
	return grid
}

// FindStar returns the palace and placement of a star.
func (c ChartData) FindStar(name StarName) (Palace, Star, bool) {
	for _, palace := range c.Palaces {
		for _, star := range palace.Stars {
			if star.Name == name {
				return palace, star, true
			}
		}
	}
	return Palace{}, Star{}, false
}

// EffectiveMonth returns the month used for placement. A leap month counts
// as its own number through day 15 and as the following month from day 16.
func EffectiveMonth(lunar calendar.LunarDate) int {
	if lunar.IsLeapMonth && lunar.Day > 15 {
		return lunar.Month%12 + 1
	}
	return lunar.Month
}

// CalculateChart computes the natal chart for a birth moment. It never returns
// a partial chart: any failure yields the zero ChartData and the first error.
func CalculateChart(in BirthInput) (ChartData, error) {
	if !in.Sex.Valid() {
		return ChartData{}, fmt.Errorf("%w: %q", ErrInvalidSex, string(in.Sex))
	}
	lunar, err := calendar.Convert(in.Year, in.Month, in.Day)
	if err != nil {
		return ChartData{}, err
	}
	hour, err := HourBucket(in.Hour)
	if err != nil {
		return ChartData{}, err
	}

	month := EffectiveMonth(lunar)
	yearStem := YearStem(lunar.Year)
	yearBranch := YearBranch(lunar.Year)

	bureau, err := ResolveBureau(month, int(hour), yearStem)
	if err != nil {
		return ChartData{}, err
	}

	palaces := BuildPalaces(yearStem, bureau.LifeBranch, bureau.BodyBranch)
	err = PlaceStars(PlacementInput{
		Bureau:     bureau.Bureau,
		LunarDay:   lunar.Day,
		LunarMonth: month,
		HourBucket: int(hour),
		YearStem:   yearStem,
		YearBranch: yearBranch,
	}, &palaces)
	if err != nil {
		return ChartData{}, err
	}
	AssignAgeRanges(bureau.Bureau, in.Sex, yearStem, bureau.LifeBranch, &palaces)

	return ChartData{
		Palaces: palaces,
		Metadata: assembleMetadata(metadataInput{
			birth:      in,
			lunar:      lunar,
			effective:  month,
			hour:       hour,
			yearStem:   yearStem,
			yearBranch: yearBranch,
			bureau:     bureau,
		}),
	}, nil
}
