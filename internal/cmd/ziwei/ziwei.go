// Package ziwei parses the chart CLI flags and prints one chart, computed
// locally or by a remote chart service.
package ziwei

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	entrypoint "github.com/louisbranch/ziwei/internal/platform/cmd"
	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	platformgrpc "github.com/louisbranch/ziwei/internal/platform/grpc"
	"github.com/louisbranch/ziwei/internal/platform/timeouts"
	"github.com/louisbranch/ziwei/internal/services/chart/api/grpc/chart"
	"github.com/louisbranch/ziwei/internal/services/chart/birth"
	"github.com/louisbranch/ziwei/internal/services/chart/narrative"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
)

// Config holds CLI configuration.
type Config struct {
	Date      string
	Time      string
	Sex       string
	Format    string `env:"FORMAT" envDefault:"text"`
	Lang      string `env:"LANG_LOCALE" envDefault:"zh-TW"`
	Addr      string `env:"CHART_ADDR"`
	Interpret bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Date, "date", "", "solar birth date, YYYY-MM-DD")
	fs.StringVar(&cfg.Time, "time", "", "local birth time, HH:MM")
	fs.StringVar(&cfg.Sex, "sex", "", "M or F")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: text, json or yaml")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "label locale: zh-TW or en-US")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "chart service address; empty computes locally")
	fs.BoolVar(&cfg.Interpret, "interpret", false, "append a Gemini interpretation")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := entrypoint.RequireFlags(fs, "date", "time", "sex"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run computes the chart and writes it to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	options := entrypoint.RunOptions{ShutdownTimeout: timeouts.TelemetryFlush}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceZiwei, options, func(ctx context.Context) error {
		return run(ctx, cfg, out)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer()
	if err != nil {
		return fmt.Errorf("load labels: %w", err)
	}
	locale := renderer.Locale(cfg.Lang)
	fields := birth.Fields{Date: cfg.Date, Time: cfg.Time, Sex: cfg.Sex}

	var source chartSource
	if strings.TrimSpace(cfg.Addr) == "" {
		source = &localSource{renderer: renderer}
	} else {
		remote, err := dialRemote(ctx, cfg.Addr)
		if err != nil {
			return err
		}
		defer remote.Close()
		source = remote
	}

	view, err := source.Chart(ctx, fields, locale)
	if err != nil {
		return userError(err, locale)
	}
	if err := renderer.Write(out, format, view); err != nil {
		return err
	}
	if !cfg.Interpret {
		return nil
	}
	text, err := source.Interpret(ctx, fields, locale)
	if err != nil {
		return userError(err, locale)
	}
	_, err = fmt.Fprintf(out, "\n%s\n", strings.TrimSpace(text))
	return err
}

// chartSource computes and interprets charts.
type chartSource interface {
	Chart(ctx context.Context, fields birth.Fields, locale string) (render.ChartView, error)
	Interpret(ctx context.Context, fields birth.Fields, locale string) (string, error)
}

type localSource struct {
	renderer *render.Renderer
}

func (s *localSource) Chart(_ context.Context, fields birth.Fields, locale string) (render.ChartView, error) {
	chart, err := birth.Calculate(fields)
	if err != nil {
		return render.ChartView{}, err
	}
	return s.renderer.Chart(chart, locale), nil
}

func (s *localSource) Interpret(ctx context.Context, fields birth.Fields, locale string) (string, error) {
	chart, err := birth.Calculate(fields)
	if err != nil {
		return "", err
	}
	cfg, err := narrative.LoadConfig()
	if err != nil {
		return "", err
	}
	narrator, err := narrative.New(ctx, cfg, s.renderer)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Narrative)
	defer cancel()
	text, err := narrator.Interpret(ctx, chart, locale)
	if errors.Is(err, narrative.ErrUnavailable) {
		return "", apperrors.Wrap(apperrors.CodeNarrativeUnavailable, err.Error(), err)
	}
	return text, err
}

type remoteSource struct {
	client *chart.Client
	close  func() error
}

func dialRemote(ctx context.Context, addr string) (*remoteSource, error) {
	conn, err := platformgrpc.Dial(ctx, addr, timeouts.GRPCDial)
	if err != nil {
		return nil, fmt.Errorf("connect to chart service at %s: %w", addr, err)
	}
	return &remoteSource{client: chart.NewClient(conn), close: conn.Close}, nil
}

func (s *remoteSource) Close() {
	if s.close != nil {
		_ = s.close()
	}
}

func (s *remoteSource) Chart(ctx context.Context, fields birth.Fields, locale string) (render.ChartView, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	defer cancel()
	resp, err := s.client.Call(ctx, chart.MethodCalculateChart, request(fields, locale))
	if err != nil {
		return render.ChartView{}, err
	}
	var view render.ChartView
	data, err := json.Marshal(resp["chart"])
	if err != nil {
		return render.ChartView{}, fmt.Errorf("decode chart: %w", err)
	}
	if err := json.Unmarshal(data, &view); err != nil {
		return render.ChartView{}, fmt.Errorf("decode chart: %w", err)
	}
	return view, nil
}

func (s *remoteSource) Interpret(ctx context.Context, fields birth.Fields, locale string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Narrative)
	defer cancel()
	resp, err := s.client.Call(ctx, chart.MethodInterpretChart, request(fields, locale))
	if err != nil {
		return "", err
	}
	text, _ := resp["text"].(string)
	return text, nil
}

func request(fields birth.Fields, locale string) map[string]any {
	return map[string]any{
		"birth_date": fields.Date,
		"birth_time": fields.Time,
		"sex":        fields.Sex,
		"locale":     locale,
	}
}

// userError turns an application or gRPC error into its localized message.
func userError(err error, locale string) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		err = apperrors.HandleError(err, locale)
	}
	return errors.New(apperrors.LocalizedMessage(err))
}
