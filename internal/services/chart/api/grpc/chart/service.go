// Package chart serves the chart and account gRPC APIs.
package chart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/platform/grpc/pagination"
	"github.com/louisbranch/ziwei/internal/platform/id"
	platformotel "github.com/louisbranch/ziwei/internal/platform/otel"
	"github.com/louisbranch/ziwei/internal/platform/requestctx"
	"github.com/louisbranch/ziwei/internal/platform/timeouts"
	"github.com/louisbranch/ziwei/internal/services/chart/birth"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
	"github.com/louisbranch/ziwei/internal/services/chart/narrative"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
	"github.com/louisbranch/ziwei/internal/services/chart/storage"
)

const (
	resourceChart = "chart"

	defaultListChartsPageSize = 10
	maxListChartsPageSize     = 50
)

var tracer = platformotel.Tracer("github.com/louisbranch/ziwei/chart")

// Service exposes ziwei.chart.v1.ChartService.
type Service struct {
	store            storage.ChartStore
	renderer         *render.Renderer
	narrator         narrative.Narrator
	idGenerator      func() (string, error)
	clock            func() time.Time
	narrativeTimeout time.Duration
}

// NewService creates a chart service. A nil narrator disables
// interpretation.
func NewService(store storage.ChartStore, renderer *render.Renderer, narrator narrative.Narrator) *Service {
	if narrator == nil {
		narrator = narrative.Disabled{}
	}
	return &Service{
		store:            store,
		renderer:         renderer,
		narrator:         narrator,
		idGenerator:      id.NewID,
		clock:            time.Now,
		narrativeTimeout: timeouts.Narrative,
	}
}

var _ ChartServer = (*Service)(nil)

// CalculateChart computes a chart without saving it.
func (s *Service) CalculateChart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := s.locale(in)
	out, err := s.calculateChart(ctx, in, locale)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return out, nil
}

func (s *Service) calculateChart(ctx context.Context, in *structpb.Struct, locale string) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	fields, chart, err := s.compute(ctx, birthFields(in))
	if err != nil {
		return nil, err
	}
	view, err := chartViewToMap(s.renderer.Chart(chart, locale))
	if err != nil {
		return nil, err
	}
	return newStruct(map[string]any{
		"input": birthToMap(fields),
		"chart": view,
	})
}

// SaveChart stores a named birth moment for the caller.
func (s *Service) SaveChart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := s.locale(in)
	out, err := s.saveChart(ctx, in)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return out, nil
}

func (s *Service) saveChart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	name := stringField(in, "name")
	if name == "" {
		return nil, apperrors.New(apperrors.CodeChartNameEmpty, "chart name is required")
	}
	fields, _, err := s.compute(ctx, birthFields(in))
	if err != nil {
		return nil, err
	}
	chartID, err := s.idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate chart id: %w", err)
	}
	now := s.clock().UTC()
	record := storage.SavedChart{
		ID:        chartID,
		UserID:    principal.UserID,
		Name:      name,
		BirthDate: fields.Date,
		BirthTime: fields.Time,
		Sex:       fields.Sex,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateChart(ctx, record); err != nil {
		return nil, storageError(err, "create chart")
	}
	return newStruct(map[string]any{"saved_chart": savedChartToMap(record)})
}

// UpdateChart renames or re-times one of the caller's charts.
func (s *Service) UpdateChart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := s.locale(in)
	out, err := s.updateChart(ctx, in)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return out, nil
}

func (s *Service) updateChart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	record, err := s.owned(ctx, in)
	if err != nil {
		return nil, err
	}
	name := stringField(in, "name")
	if name == "" {
		return nil, apperrors.New(apperrors.CodeChartNameEmpty, "chart name is required")
	}
	fields, _, err := s.compute(ctx, birthFields(in))
	if err != nil {
		return nil, err
	}
	record.Name = name
	record.BirthDate = fields.Date
	record.BirthTime = fields.Time
	record.Sex = fields.Sex
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.UpdateChart(ctx, record); err != nil {
		return nil, storageError(err, "update chart")
	}
	return newStruct(map[string]any{"saved_chart": savedChartToMap(record)})
}

// GetChart returns one of the caller's charts, recomputed.
func (s *Service) GetChart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := s.locale(in)
	out, err := s.getChart(ctx, in, locale)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return out, nil
}

func (s *Service) getChart(ctx context.Context, in *structpb.Struct, locale string) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	record, err := s.owned(ctx, in)
	if err != nil {
		return nil, err
	}
	_, chart, err := s.compute(ctx, savedChartFields(record))
	if err != nil {
		return nil, err
	}
	view, err := chartViewToMap(s.renderer.Chart(chart, locale))
	if err != nil {
		return nil, err
	}
	return newStruct(map[string]any{
		"saved_chart": savedChartToMap(record),
		"chart":       view,
	})
}

// ListCharts returns a page of the caller's charts.
func (s *Service) ListCharts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := s.locale(in)
	out, err := s.listCharts(ctx, in)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return out, nil
}

func (s *Service) listCharts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	pageSize := pagination.ClampPageSize(intField(in, "page_size"), pagination.PageSizeConfig{
		Default: defaultListChartsPageSize,
		Max:     maxListChartsPageSize,
	})
	after, err := pagination.DecodeToken(stringField(in, "page_token"))
	if err != nil {
		return nil, apperrors.InvalidField("page_token", err)
	}
	page, err := s.store.ListCharts(ctx, principal.UserID, pageSize, after)
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}
	charts := make([]any, 0, len(page.Charts))
	for _, record := range page.Charts {
		charts = append(charts, savedChartToMap(record))
	}
	return newStruct(map[string]any{
		"charts":          charts,
		"next_page_token": pagination.EncodeToken(page.NextAfter),
	})
}

// DeleteChart removes one of the caller's charts.
func (s *Service) DeleteChart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := s.locale(in)
	if err := s.deleteChart(ctx, in); err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return &structpb.Struct{}, nil
}

func (s *Service) deleteChart(ctx context.Context, in *structpb.Struct) error {
	if err := s.ready(); err != nil {
		return err
	}
	record, err := s.owned(ctx, in)
	if err != nil {
		return err
	}
	if err := s.store.DeleteChart(ctx, record.ID); err != nil {
		return storageError(err, "delete chart")
	}
	return nil
}

// InterpretChart asks the narrator to read a saved chart, or an unsaved one
// given by birth fields.
func (s *Service) InterpretChart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := s.locale(in)
	out, err := s.interpretChart(ctx, in, locale)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return out, nil
}

func (s *Service) interpretChart(ctx context.Context, in *structpb.Struct, locale string) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	fields := birthFields(in)
	if stringField(in, "id") != "" {
		record, err := s.owned(ctx, in)
		if err != nil {
			return nil, err
		}
		fields = savedChartFields(record)
	}
	_, chart, err := s.compute(ctx, fields)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.narrativeTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "narrative.Interpret")
	defer span.End()
	text, err := s.narrator.Interpret(ctx, chart, locale)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "interpret")
		if errors.Is(err, narrative.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(apperrors.CodeNarrativeUnavailable, err.Error(), err)
		}
		return nil, fmt.Errorf("interpret chart: %w", err)
	}
	return newStruct(map[string]any{
		"locale": locale,
		"text":   text,
	})
}

// compute validates birth fields and runs the engine inside a span. The
// returned fields are canonical.
func (s *Service) compute(ctx context.Context, fields birth.Fields) (birth.Fields, ziwei.ChartData, error) {
	_, span := tracer.Start(ctx, "ziwei.CalculateChart")
	defer span.End()
	span.SetAttributes(
		attribute.String("chart.birth_date", fields.Date),
		attribute.String("chart.birth_time", fields.Time),
	)

	in, err := birth.Parse(fields)
	if err != nil {
		span.SetStatus(otelcodes.Error, "parse")
		return birth.Fields{}, ziwei.ChartData{}, err
	}
	chart, err := ziwei.CalculateChart(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "calculate")
		return birth.Fields{}, ziwei.ChartData{}, birth.MapError(err, fields.Normalize())
	}
	return birth.Format(in), chart, nil
}

// owned loads the chart named by the request id and checks the caller owns
// it.
func (s *Service) owned(ctx context.Context, in *structpb.Struct) (storage.SavedChart, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return storage.SavedChart{}, err
	}
	chartID, err := requiredField(in, "id")
	if err != nil {
		return storage.SavedChart{}, err
	}
	if !id.Valid(chartID) {
		return storage.SavedChart{}, apperrors.NotFound(resourceChart, nil)
	}
	record, err := s.store.GetChart(ctx, chartID)
	if err != nil {
		return storage.SavedChart{}, storageError(err, "get chart")
	}
	if record.UserID != principal.UserID {
		return storage.SavedChart{}, apperrors.New(apperrors.CodePermissionDenied, "chart belongs to another user")
	}
	return record, nil
}

func (s *Service) locale(in *structpb.Struct) string {
	if s == nil || s.renderer == nil {
		return apperrors.DefaultLocale
	}
	return s.renderer.Locale(stringField(in, "locale"))
}

func (s *Service) ready() error {
	if s == nil || s.store == nil || s.renderer == nil {
		return errors.New("chart service is not configured")
	}
	return nil
}

func requirePrincipal(ctx context.Context) (requestctx.Principal, error) {
	principal, ok := requestctx.PrincipalFromContext(ctx)
	if !ok {
		return requestctx.Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	return principal, nil
}

func storageError(err error, op string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFound(resourceChart, fmt.Errorf("%s: %w", op, err))
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperrors.WrapWithMetadata(apperrors.CodeAlreadyExists, op+": already exists", map[string]string{apperrors.MetaResource: resourceChart}, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// bearerToken extracts the token of an "authorization: Bearer ..." value.
func bearerToken(value string) string {
	value = strings.TrimSpace(value)
	scheme, token, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
