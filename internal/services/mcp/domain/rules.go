package domain

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
)

// RulesInput represents the MCP tool input for the ruleset description.
type RulesInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"label locale, zh-TW (default) or en-US"`
}

// StarRuleResult describes how one star is placed.
type StarRuleResult struct {
	Key      string `json:"key" jsonschema:"stable star key"`
	Name     string `json:"name" jsonschema:"localized star name"`
	Category string `json:"category" jsonschema:"major, lucky or unlucky"`
	Rule     string `json:"rule" jsonschema:"placement input"`
	// Brightness maps each branch label to a brightness label. Unrated
	// branches are omitted.
	Brightness map[string]string `json:"brightness" jsonschema:"brightness grade by branch"`
}

// ChainOffsetResult is one star of a placement chain.
type ChainOffsetResult struct {
	Key    string `json:"key" jsonschema:"stable star key"`
	Offset int    `json:"offset" jsonschema:"palaces from the chain anchor"`
}

// TransformationRuleResult lists the transformed stars for a year stem.
type TransformationRuleResult struct {
	Stem string `json:"stem" jsonschema:"localized year stem"`
	Lu   string `json:"lu" jsonschema:"star carrying Lu"`
	Quan string `json:"quan" jsonschema:"star carrying Quan"`
	Ke   string `json:"ke" jsonschema:"star carrying Ke"`
	Ji   string `json:"ji" jsonschema:"star carrying Ji"`
}

// RulesResult represents the MCP tool output for the ruleset description.
type RulesResult struct {
	Locale          string                     `json:"locale" jsonschema:"label locale"`
	FirstLunarYear  int                        `json:"first_lunar_year" jsonschema:"first lunar year the calendar covers"`
	LastLunarYear   int                        `json:"last_lunar_year" jsonschema:"last lunar year the calendar covers"`
	FirstSolarDate  string                     `json:"first_solar_date" jsonschema:"earliest accepted birth date, YYYY-MM-DD"`
	LastSolarDate   string                     `json:"last_solar_date" jsonschema:"latest accepted birth date, YYYY-MM-DD"`
	ZiWeiChain      []ChainOffsetResult        `json:"zi_wei_chain" jsonschema:"counter-clockwise offsets from Zi Wei"`
	TianFuChain     []ChainOffsetResult        `json:"tian_fu_chain" jsonschema:"clockwise offsets from Tian Fu"`
	Stars           []StarRuleResult           `json:"stars" jsonschema:"placement and brightness of every star"`
	Transformations []TransformationRuleResult `json:"transformations" jsonschema:"four transformations by year stem"`
}

// RulesTool defines the MCP tool schema for the ruleset description.
func RulesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ziwei_rules",
		Description: "Describes the star placement, brightness and transformation tables the engine uses",
	}
}

// RulesHandler describes the engine tables.
func RulesHandler(renderer *render.Renderer) mcp.ToolHandlerFor[RulesInput, RulesResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RulesInput) (*mcp.CallToolResult, RulesResult, error) {
		locale := renderer.Locale(input.Locale)
		label := func(key string) string { return renderer.Label(key, locale) }
		rules := ziwei.Rules()

		result := RulesResult{
			Locale:          locale,
			FirstLunarYear:  rules.FirstLunarYear,
			LastLunarYear:   rules.LastLunarYear,
			FirstSolarDate:  rules.FirstSolarDate.Format(time.DateOnly),
			LastSolarDate:   rules.LastSolarDate.Format(time.DateOnly),
			ZiWeiChain:      chainResults(rules.ZiWeiChain),
			TianFuChain:     chainResults(rules.TianFuChain),
			Stars:           make([]StarRuleResult, 0, len(rules.Stars)),
			Transformations: make([]TransformationRuleResult, 0, len(rules.Transformations)),
		}
		for _, star := range rules.Stars {
			brightness := map[string]string{}
			for branch, grade := range star.Brightness {
				if grade == ziwei.BrightnessNone {
					continue
				}
				brightness[label(ziwei.Branch(branch).String())] = label(grade.String())
			}
			result.Stars = append(result.Stars, StarRuleResult{
				Key:        star.Star.Pinyin(),
				Name:       label(star.Star.String()),
				Category:   string(star.Category),
				Rule:       star.Rule,
				Brightness: brightness,
			})
		}
		for _, row := range rules.Transformations {
			result.Transformations = append(result.Transformations, TransformationRuleResult{
				Stem: label(row.Stem.String()),
				Lu:   label(row.Lu.String()),
				Quan: label(row.Quan.String()),
				Ke:   label(row.Ke.String()),
				Ji:   label(row.Ji.String()),
			})
		}
		return nil, result, nil
	}
}

func chainResults(chain []ziwei.ChainOffset) []ChainOffsetResult {
	out := make([]ChainOffsetResult, 0, len(chain))
	for _, link := range chain {
		out = append(out, ChainOffsetResult{Key: link.Star.Pinyin(), Offset: link.Offset})
	}
	return out
}
