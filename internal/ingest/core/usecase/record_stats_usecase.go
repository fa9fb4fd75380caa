package usecase

import (
	"context"
	"errors"

	"github.com/coder/quartz"
	"golang.org/x/xerrors"

	"telemetry-stats-service/internal/ingest/core/domain"
	"telemetry-stats-service/internal/ingest/core/ports"
)

var (
	ErrInvalidPayload          = errors.New("invalid payload")
	ErrMissingEventType        = errors.New("missing event_type")
	ErrInvalidInstallTimestamp = errors.New("invalid install_timestamp")
)

const (
	MessageDeviceStatsUpdated = "Device stats updated"
	MessageEventStatsUpdated  = "Event(s) stats updated"
	MessageErrorsLogged       = "Error(s) logged"
)

// Result confirms an applied submission.
type Result struct {
	Message string
	Records int
}

type RecordStatsUseCase struct {
	writer ports.StatsWriterPort
	agents ports.UserAgentParserPort
	clock  quartz.Clock
}

func NewRecordStatsUseCase(writer ports.StatsWriterPort, agents ports.UserAgentParserPort, clock quartz.Clock) *RecordStatsUseCase {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &RecordStatsUseCase{writer: writer, agents: agents, clock: clock}
}

// RecordDevices counts one submission per device record. Records without
// explicit dimensions fall back to what userAgent reveals.
func (uc *RecordStatsUseCase) RecordDevices(ctx context.Context, p Payload, userAgent string) (Result, error) {
	if userAgent == "" {
		userAgent = domain.Unknown
	}

	var ua domain.UserAgentInfo
	if uc.agents != nil {
		ua = uc.agents.Parse(userAgent)
	}

	today := uc.clock.Now()
	devices := make([]domain.DeviceStat, 0, p.Len())
	for i, rec := range p.Records() {
		d, err := normalizeDevice(rec, ua, today)
		if err != nil {
			return Result{}, xerrors.Errorf("device %d: %w", i, err)
		}
		devices = append(devices, d)
	}

	if err := uc.apply(ctx, domain.Batch{Devices: devices}); err != nil {
		return Result{}, err
	}
	return Result{Message: MessageDeviceStatsUpdated, Records: len(devices)}, nil
}

// RecordEvents adds every event's count to its (type, data) counter. A single
// record without event_type rejects the whole submission.
func (uc *RecordStatsUseCase) RecordEvents(ctx context.Context, p Payload) (Result, error) {
	events := make([]domain.EventStat, 0, p.Len())
	for i, rec := range p.Records() {
		e, ok := normalizeEvent(rec)
		if !ok {
			return Result{}, xerrors.Errorf("event %d: %w", i, ErrMissingEventType)
		}
		events = append(events, e)
	}

	if err := uc.apply(ctx, domain.Batch{Events: events}); err != nil {
		return Result{}, err
	}
	return Result{Message: MessageEventStatsUpdated, Records: len(events)}, nil
}

// RecordErrors appends one row per error record. Every field has a default,
// so nothing is rejected.
func (uc *RecordStatsUseCase) RecordErrors(ctx context.Context, p Payload) (Result, error) {
	at := uc.clock.Now()
	appErrors := make([]domain.AppError, 0, p.Len())
	for _, rec := range p.Records() {
		appErrors = append(appErrors, normalizeError(rec, at))
	}

	if err := uc.apply(ctx, domain.Batch{Errors: appErrors}); err != nil {
		return Result{}, err
	}
	return Result{Message: MessageErrorsLogged, Records: len(appErrors)}, nil
}

func (uc *RecordStatsUseCase) apply(ctx context.Context, b domain.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	if err := uc.writer.ApplyBatch(ctx, b); err != nil {
		return xerrors.Errorf("apply batch: %w", err)
	}
	return nil
}
