// Package birth parses the wire form of a birth moment and maps engine
// failures to structured application errors.
package birth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
)

// Fields is a birth moment as clients send it.
type Fields struct {
	// Date is "YYYY-MM-DD".
	Date string
	// Time is "HH:MM"; minutes are accepted and ignored.
	Time string
	Sex  string
}

// Normalize trims every field and upper-cases the sex.
func (f Fields) Normalize() Fields {
	return Fields{
		Date: strings.TrimSpace(f.Date),
		Time: strings.TrimSpace(f.Time),
		Sex:  strings.ToUpper(strings.TrimSpace(f.Sex)),
	}
}

// Parse converts wire fields into an engine input. Malformed fields become
// CHART_INVALID_INPUT errors naming the field; calendar and range checks are
// left to the engine.
func Parse(f Fields) (ziwei.BirthInput, error) {
	f = f.Normalize()
	year, month, day, err := parseDate(f.Date)
	if err != nil {
		return ziwei.BirthInput{}, apperrors.InvalidField("birth_date", err)
	}
	hour, err := parseHour(f.Time)
	if err != nil {
		return ziwei.BirthInput{}, apperrors.InvalidField("birth_time", err)
	}
	sex, err := ziwei.ParseSex(f.Sex)
	if err != nil {
		return ziwei.BirthInput{}, apperrors.Wrap(apperrors.CodeChartInvalidSex, err.Error(), err)
	}
	return ziwei.BirthInput{Year: year, Month: month, Day: day, Hour: hour, Sex: sex}, nil
}

// Calculate parses f and computes its chart, mapping every failure to an
// application error.
func Calculate(f Fields) (ziwei.ChartData, error) {
	in, err := Parse(f)
	if err != nil {
		return ziwei.ChartData{}, err
	}
	chart, err := ziwei.CalculateChart(in)
	if err != nil {
		return ziwei.ChartData{}, MapError(err, f.Normalize())
	}
	return chart, nil
}

// MapError converts an engine error into an application error.
func MapError(err error, f Fields) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, ziwei.ErrInvalidDate):
		return apperrors.WrapWithMetadata(apperrors.CodeChartInvalidDate, err.Error(), map[string]string{apperrors.MetaDate: f.Date}, err)
	case errors.Is(err, ziwei.ErrOutOfRange):
		return apperrors.WrapWithMetadata(apperrors.CodeChartOutOfRange, err.Error(), map[string]string{apperrors.MetaDate: f.Date}, err)
	case errors.Is(err, ziwei.ErrInvalidHourBucket):
		return apperrors.WrapWithMetadata(apperrors.CodeChartInvalidHour, err.Error(), map[string]string{apperrors.MetaTime: f.Time}, err)
	case errors.Is(err, ziwei.ErrInvalidSex):
		return apperrors.Wrap(apperrors.CodeChartInvalidSex, err.Error(), err)
	default:
		return apperrors.Wrap(apperrors.CodeChartInternal, err.Error(), err)
	}
}

// Format renders an engine input back to wire fields.
func Format(in ziwei.BirthInput) Fields {
	return Fields{
		Date: fmt.Sprintf("%04d-%02d-%02d", in.Year, in.Month, in.Day),
		Time: fmt.Sprintf("%02d:00", in.Hour),
		Sex:  string(in.Sex),
	}
}

func parseDate(value string) (year, month, day int, err error) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("want YYYY-MM-DD, got %q", value)
	}
	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("want YYYY-MM-DD, got %q", value)
		}
		numbers[i] = n
	}
	return numbers[0], numbers[1], numbers[2], nil
}

// parseHour reads the hour of "HH:MM" or "HH". Out of range hours are
// returned as-is for the engine to reject.
func parseHour(value string) (int, error) {
	hourPart, minutePart, hasMinutes := strings.Cut(value, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", value)
	}
	if hasMinutes {
		minute, err := strconv.Atoi(minutePart)
		if err != nil || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("want HH:MM, got %q", value)
		}
	}
	return hour, nil
}
