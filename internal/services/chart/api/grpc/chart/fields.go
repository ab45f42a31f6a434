package chart

import (
	"errors"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/services/chart/birth"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
	"github.com/louisbranch/ziwei/internal/services/chart/storage"
)

func stringField(in *structpb.Struct, key string) string {
	if in == nil {
		return ""
	}
	value, ok := in.GetFields()[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(value.GetStringValue())
}

func intField(in *structpb.Struct, key string) int {
	if in == nil {
		return 0
	}
	value, ok := in.GetFields()[key]
	if !ok {
		return 0
	}
	return int(value.GetNumberValue())
}

func birthFields(in *structpb.Struct) birth.Fields {
	return birth.Fields{
		Date: stringField(in, "birth_date"),
		Time: stringField(in, "birth_time"),
		Sex:  stringField(in, "sex"),
	}
}

var errRequired = errors.New("required")

func requiredField(in *structpb.Struct, key string) (string, error) {
	value := stringField(in, key)
	if value == "" {
		return "", apperrors.InvalidField(key, errRequired)
	}
	return value, nil
}

func birthToMap(f birth.Fields) map[string]any {
	return map[string]any{
		"birth_date": f.Date,
		"birth_time": f.Time,
		"sex":        f.Sex,
	}
}

func savedChartToMap(record storage.SavedChart) map[string]any {
	return map[string]any{
		"id":         record.ID,
		"user_id":    record.UserID,
		"name":       record.Name,
		"birth_date": record.BirthDate,
		"birth_time": record.BirthTime,
		"sex":        record.Sex,
		"created_at": record.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func savedChartFields(record storage.SavedChart) birth.Fields {
	return birth.Fields{Date: record.BirthDate, Time: record.BirthTime, Sex: record.Sex}
}

func chartViewToMap(view render.ChartView) (map[string]any, error) {
	return render.ToMap(view)
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeChartInternal, "encode response", err)
	}
	return out, nil
}
