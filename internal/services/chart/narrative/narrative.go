// Package narrative asks a language model to interpret a computed chart.
//
// The engine never depends on this package: a narrator only reads charts
// after they are built.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/ziwei/internal/platform/i18n"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
)

// ErrUnavailable indicates no narrator is configured or the model gave no text.
var ErrUnavailable = errors.New("narrative unavailable")

// Narrator turns a chart into interpretation prose.
type Narrator interface {
	Interpret(ctx context.Context, chart ziwei.ChartData, locale string) (string, error)
}

// Disabled is the narrator used when no model is configured.
type Disabled struct{}

// Interpret always fails with ErrUnavailable.
func (Disabled) Interpret(context.Context, ziwei.ChartData, string) (string, error) {
	return "", ErrUnavailable
}

// focusRoles are the palaces the reading concentrates on.
var focusRoles = []ziwei.PalaceRole{ziwei.RoleLife, ziwei.RoleWealth, ziwei.RoleCareer}

// Prompt builds the user prompt for a chart. The chart is rendered in
// Traditional Chinese so the model sees classical names; the reply language
// follows locale.
func Prompt(r *render.Renderer, chart ziwei.ChartData, locale string) string {
	view := r.Chart(chart, i18n.LocaleZhTW)
	meta := view.Metadata

	var b strings.Builder
	fmt.Fprintf(&b, "以下是一張紫微斗數命盤。\n")
	fmt.Fprintf(&b, "陽曆：%s\n農曆：%s\n性別：%s\n五行局：%s\n生肖：%s\n命主：%s\n身主：%s\n\n",
		meta.SolarDate, meta.LunarDate, meta.Sex, meta.Bureau, meta.Zodiac, meta.LifeMaster, meta.BodyMaster)

	b.WriteString("十二宮：\n")
	for _, palace := range view.Palaces {
		stars := make([]string, 0, len(palace.Stars))
		for _, star := range palace.Stars {
			stars = append(stars, star.Label)
		}
		flags := ""
		if palace.IsLife {
			flags += "［命］"
		}
		if palace.IsBody {
			flags += "［身］"
		}
		fmt.Fprintf(&b, "- %s%s %s%s（%s）：%s\n", palace.Stem, palace.Branch, palace.Role, flags, palace.AgeRange, strings.Join(stars, "、"))
	}

	focus := make([]string, 0, len(focusRoles))
	for _, role := range focusRoles {
		focus = append(focus, role.String())
	}
	fmt.Fprintf(&b, "\n請著重解析%s的主星、亮度與四化。", strings.Join(focus, "、"))
	if r.Locale(locale) == i18n.LocaleEnUS {
		b.WriteString("\nAnswer in English.")
	} else {
		b.WriteString("請以繁體中文回答。")
	}
	return b.String()
}

// SystemInstruction frames the model as a chart reader.
const SystemInstruction = "You are an experienced Zi Wei Dou Shu astrologer. " +
	"Interpret only the chart you are given, keep the reading under 500 words, " +
	"and do not invent stars or palaces that are not listed."
