// Package domain defines the MCP tools that expose the chart engine.
package domain

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/services/chart/birth"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/calendar"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
)

// ChartInput represents the MCP tool input for a natal chart.
type ChartInput struct {
	BirthDate string `json:"birth_date" jsonschema:"solar birth date, YYYY-MM-DD"`
	BirthTime string `json:"birth_time" jsonschema:"local birth time, HH:MM (minutes are ignored)"`
	Sex       string `json:"sex" jsonschema:"M or F"`
	Locale    string `json:"locale,omitempty" jsonschema:"label locale, zh-TW (default) or en-US"`
}

// ChartResult represents the MCP tool output for a natal chart.
type ChartResult struct {
	BirthDate string           `json:"birth_date" jsonschema:"canonical birth date"`
	BirthTime string           `json:"birth_time" jsonschema:"canonical birth hour"`
	Sex       string           `json:"sex" jsonschema:"M or F"`
	Chart     render.ChartView `json:"chart" jsonschema:"twelve palaces in grid order plus chart metadata"`
	Board     string           `json:"board" jsonschema:"the chart drawn as a 4x4 text board"`
}

// LunarDateInput represents the MCP tool input for a calendar conversion.
type LunarDateInput struct {
	Date   string `json:"date" jsonschema:"solar date, YYYY-MM-DD"`
	Locale string `json:"locale,omitempty" jsonschema:"label locale, zh-TW (default) or en-US"`
}

// LunarDateResult represents the MCP tool output for a calendar conversion.
type LunarDateResult = render.LunarDateView

// CalculateChartTool defines the MCP tool schema for computing a chart.
func CalculateChartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ziwei_calculate_chart",
		Description: "Computes a Zi Wei Dou Shu natal chart from a solar birth date, local birth time and sex",
	}
}

// LunarDateTool defines the MCP tool schema for calendar conversion.
func LunarDateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ziwei_lunar_date",
		Description: "Converts a solar date (1900-01-31 to 2100-12-31) to the Chinese lunisolar calendar",
	}
}

// CalculateChartHandler computes a chart in process.
func CalculateChartHandler(renderer *render.Renderer) mcp.ToolHandlerFor[ChartInput, ChartResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ChartInput) (*mcp.CallToolResult, ChartResult, error) {
		fields := birth.Fields{Date: input.BirthDate, Time: input.BirthTime, Sex: input.Sex}
		in, err := birth.Parse(fields)
		if err != nil {
			return nil, ChartResult{}, toolError(err)
		}
		chart, err := ziwei.CalculateChart(in)
		if err != nil {
			return nil, ChartResult{}, toolError(birth.MapError(err, fields.Normalize()))
		}

		view := renderer.Chart(chart, renderer.Locale(input.Locale))
		var board bytes.Buffer
		if err := renderer.Write(&board, render.FormatText, view); err != nil {
			return nil, ChartResult{}, fmt.Errorf("draw chart: %w", err)
		}
		canonical := birth.Format(in)
		return nil, ChartResult{
			BirthDate: canonical.Date,
			BirthTime: canonical.Time,
			Sex:       canonical.Sex,
			Chart:     view,
			Board:     board.String(),
		}, nil
	}
}

// LunarDateHandler converts a solar date.
func LunarDateHandler(renderer *render.Renderer) mcp.ToolHandlerFor[LunarDateInput, LunarDateResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input LunarDateInput) (*mcp.CallToolResult, LunarDateResult, error) {
		date := strings.TrimSpace(input.Date)
		// Reuse the birth parser for the date; time and sex are placeholders.
		in, err := birth.Parse(birth.Fields{Date: date, Time: "00:00", Sex: "M"})
		if err != nil {
			return nil, LunarDateResult{}, toolError(err)
		}
		lunar, err := calendar.Convert(in.Year, in.Month, in.Day)
		if err != nil {
			return nil, LunarDateResult{}, toolError(birth.MapError(err, birth.Fields{Date: date}))
		}
		return nil, renderer.LunarDate(lunar, renderer.Locale(input.Locale)), nil
	}
}

// toolError flattens an application error into the message an agent sees.
func toolError(err error) error {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		return err
	}
	return fmt.Errorf("%s: %w", code, err)
}
