package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"telemetry-stats-service/internal/reports/core/domain"
	"telemetry-stats-service/internal/reports/core/ports"
)

var (
	ErrUnknownReport       = errors.New("invalid report endpoint")
	ErrMissingDetailParams = errors.New("missing type or key parameter")
)

// QueryParam is one caller-supplied query parameter, in request order.
type QueryParam struct {
	Key   string
	Value string
}

type EventDetailInput struct {
	Type string
	Key  string
}

type GetReportUseCase struct {
	reader ports.ReportReaderPort
}

func NewGetReportUseCase(reader ports.ReportReaderPort) *GetReportUseCase {
	return &GetReportUseCase{reader: reader}
}

// Grouped returns the counts of one dimension, keyed by the report name.
func (uc *GetReportUseCase) Grouped(ctx context.Context, name string) ([]domain.GroupCount, error) {
	r, ok := groupedReports[name]
	if !ok {
		return nil, xerrors.Errorf("%w: %q", ErrUnknownReport, name)
	}

	rows, err := uc.reader.GroupCounts(ctx, r.query)
	if err != nil {
		return nil, xerrors.Errorf("report %s: %w", name, err)
	}

	switch r.part {
	case osNamePart:
		return regroupOS(rows, name, osNamePart), nil
	case osVersionPart:
		return regroupOS(rows, name, osVersionPart), nil
	default:
		return relabel(rows, name), nil
	}
}

// Combined runs every device grouping concurrently. os_combined is queried
// once and split into the os_name and os_version groupings.
func (uc *GetReportUseCase) Combined(ctx context.Context) (*domain.CombinedReport, error) {
	var (
		report  domain.CombinedReport
		osRows  []domain.GroupCount
		pushRaw []domain.GroupCount
	)

	g, ctx := errgroup.WithContext(ctx)
	fetch := func(q ports.GroupQuery, dst *[]domain.GroupCount) {
		g.Go(func() error {
			rows, err := uc.reader.GroupCounts(ctx, q)
			if err != nil {
				return xerrors.Errorf("report %s: %w", q.Column, err)
			}
			*dst = relabel(rows, q.Column)
			return nil
		})
	}

	fetch(osCombinedQuery, &osRows)
	fetch(groupedReports["device_type"].query, &report.DeviceType)
	fetch(groupedReports["device_model"].query, &report.DeviceModel)
	fetch(groupedReports["device_brand"].query, &report.DeviceBrand)
	fetch(groupedReports["network_type"].query, &report.NetworkType)
	fetch(groupedReports["device_language"].query, &report.DeviceLanguage)
	fetch(groupedReports["push_notification_enabled"].query, &pushRaw)
	fetch(groupedReports["install_date"].query, &report.InstallDate)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.OSName = regroupOS(osRows, "os_name", osNamePart)
	report.OSVersion = regroupOS(osRows, "os_version", osVersionPart)
	report.PushNotificationEnabled = make([]domain.PushCount, 0, len(pushRaw))
	for _, r := range pushRaw {
		report.PushNotificationEnabled = append(report.PushNotificationEnabled, domain.PushCount{
			Enabled: asInt(r.Value) == 1,
			Count:   r.Count,
		})
	}
	return &report, nil
}

// EventDetail groups the events of one type by the JSON value stored under
// key in event_data. Rows whose event_data is not a JSON object, or has no
// non-null value under key, are skipped.
func (uc *GetReportUseCase) EventDetail(ctx context.Context, in EventDetailInput) ([]domain.DetailCount, error) {
	if in.Type == "" || in.Key == "" {
		return nil, ErrMissingDetailParams
	}

	rows, err := uc.reader.EventDataCounts(ctx, in.Type)
	if err != nil {
		return nil, xerrors.Errorf("report event_detail: %w", err)
	}

	path := detailPath(in.Key)
	index := make(map[string]int)
	out := make([]domain.DetailCount, 0)
	for _, r := range rows {
		if !gjson.Valid(r.EventData) {
			continue
		}
		doc := gjson.Parse(r.EventData)
		if !doc.IsObject() {
			continue
		}
		v := doc.Get(path)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}

		group := groupKey(v)
		if i, ok := index[group]; ok {
			out[i].Count += r.Count
			continue
		}
		index[group] = len(out)
		out = append(out, domain.DetailCount{Value: detailValue(v), Count: r.Count})
	}
	return out, nil
}

// detailPath turns a dotted key such as "screen.name" into a gjson path
// whose components match literally.
func detailPath(key string) string {
	parts := strings.Split(key, ".")
	for i, p := range parts {
		parts[i] = gjson.Escape(p)
	}
	return strings.Join(parts, ".")
}

// detailValue returns scalars as their JSON value and objects or arrays as
// their compact JSON text.
func detailValue(v gjson.Result) any {
	if v.IsObject() || v.IsArray() {
		return string(pretty.Ugly([]byte(v.Raw)))
	}
	return v.Value()
}

// groupKey identifies equal JSON values: strings by content, everything else
// by its compact text.
func groupKey(v gjson.Result) string {
	if v.Type == gjson.String {
		return "s:" + v.Str
	}
	return "j:" + string(pretty.Ugly([]byte(v.Raw)))
}

func (uc *GetReportUseCase) ListDevices(ctx context.Context, params []QueryParam) ([]domain.DeviceRow, error) {
	filters, ok := buildFilters(params, deviceFilters)
	if !ok {
		return []domain.DeviceRow{}, nil
	}
	rows, err := uc.reader.ListDevices(ctx, filters)
	if err != nil {
		return nil, xerrors.Errorf("report devices: %w", err)
	}
	return rows, nil
}

func (uc *GetReportUseCase) ListEvents(ctx context.Context, params []QueryParam) ([]domain.EventRow, error) {
	filters, ok := buildFilters(params, eventFilters)
	if !ok {
		return []domain.EventRow{}, nil
	}
	rows, err := uc.reader.ListEvents(ctx, filters)
	if err != nil {
		return nil, xerrors.Errorf("report events: %w", err)
	}
	return rows, nil
}

func (uc *GetReportUseCase) ListErrors(ctx context.Context, params []QueryParam) ([]domain.ErrorRow, error) {
	filters, ok := buildFilters(params, errorFilters)
	if !ok {
		return []domain.ErrorRow{}, nil
	}
	rows, err := uc.reader.ListErrors(ctx, filters)
	if err != nil {
		return nil, xerrors.Errorf("report errors: %w", err)
	}
	return rows, nil
}

// buildFilters keeps only parameters named in allowed. Unknown names are
// dropped without error.
func buildFilters(params []QueryParam, allowed map[string]filterFunc) ([]ports.Filter, bool) {
	var filters []ports.Filter
	for _, p := range params {
		fn, ok := allowed[p.Key]
		if !ok {
			continue
		}
		f, ok := fn(p.Value)
		if !ok {
			return nil, false
		}
		filters = append(filters, f...)
	}
	return filters, true
}

func relabel(rows []domain.GroupCount, dimension string) []domain.GroupCount {
	out := make([]domain.GroupCount, len(rows))
	for i, r := range rows {
		r.Dimension = dimension
		out[i] = r
	}
	return out
}

// regroupOS re-aggregates os_combined rows by one half of the split.
func regroupOS(rows []domain.GroupCount, dimension string, part osPart) []domain.GroupCount {
	sums := make(map[string]int64, len(rows))
	for _, r := range rows {
		combined, _ := r.Value.(string)
		name, version := splitOS(combined)
		key := name
		if part == osVersionPart {
			key = version
		}
		sums[key] += r.Count
	}

	out := make([]domain.GroupCount, 0, len(sums))
	for v, n := range sums {
		out = append(out, domain.GroupCount{Dimension: dimension, Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Value.(string) < out[j].Value.(string)
	})
	return out
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
