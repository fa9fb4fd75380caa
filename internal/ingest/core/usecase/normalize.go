package usecase

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/tidwall/gjson"
	"golang.org/x/xerrors"

	"telemetry-stats-service/internal/ingest/core/domain"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z"

	// Largest offset from the epoch, in milliseconds, that clients can encode
	// as a date.
	maxEpochMillis = 8.64e15
)

// Zone-less ISO layouts come first; now's defaults lack them.
var timestampParser = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: append([]string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.000",
	}, now.TimeFormats...),
}

// normalizeDevice fills every device dimension from the record, then from the
// User-Agent, then with "Unknown".
func normalizeDevice(rec Record, ua domain.UserAgentInfo, today time.Time) (domain.DeviceStat, error) {
	osName := rec.Text("os_name", orUnknown(ua.OSName))
	osVersion := rec.Text("os_version", orUnknown(ua.OSVersion))

	installDate := today.UTC().Format(dateLayout)
	if rec.Has("install_timestamp") {
		t, err := parseInstallTimestamp(rec.field("install_timestamp"))
		if err != nil {
			return domain.DeviceStat{}, err
		}
		installDate = t.UTC().Format(dateLayout)
	}

	push := 0
	if rec.Has("push_notification_enabled") {
		push = 1
	}

	return domain.DeviceStat{
		OSCombined:              strings.TrimSpace(osName + " " + osVersion),
		DeviceType:              rec.Text("device_type", orUnknown(ua.DeviceType)),
		DeviceModel:             rec.Text("device_model", orUnknown(ua.DeviceModel)),
		DeviceBrand:             rec.Text("device_brand", orUnknown(ua.DeviceBrand)),
		NetworkType:             rec.Text("network_type", domain.Unknown),
		DeviceLanguage:          rec.Text("device_language", domain.Unknown),
		PushNotificationEnabled: push,
		InstallDate:             installDate,
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}

// parseInstallTimestamp accepts milliseconds since the epoch or a date/time
// string.
func parseInstallTimestamp(v gjson.Result) (time.Time, error) {
	switch v.Type {
	case gjson.Number:
		ms := v.Float()
		if ms > maxEpochMillis || ms < -maxEpochMillis {
			return time.Time{}, xerrors.Errorf("%w: %s is out of range", ErrInvalidInstallTimestamp, v.Raw)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		t, err := timestampParser.Parse(s)
		if err != nil {
			return time.Time{}, xerrors.Errorf("%w: %q", ErrInvalidInstallTimestamp, v.Str)
		}
		return t, nil
	default:
		return time.Time{}, xerrors.Errorf("%w: %s", ErrInvalidInstallTimestamp, v.Raw)
	}
}

// normalizeEvent requires event_type; event_data and count are defaulted.
func normalizeEvent(rec Record) (domain.EventStat, bool) {
	if !rec.Has("event_type") {
		return domain.EventStat{}, false
	}
	return domain.EventStat{
		EventType: rec.Text("event_type", ""),
		EventData: rec.Text("event_data", domain.EmptyEventData),
		Count:     rec.Count("count"),
	}, true
}

func normalizeError(rec Record, at time.Time) domain.AppError {
	return domain.AppError{
		ErrorMessage: rec.Text("error_message", domain.UnknownErrorMessage),
		ErrorCause:   rec.Text("error_cause", domain.UnknownErrorCause),
		ErrorCode:    rec.Text("error_code", domain.Unknown),
		Timestamp:    rec.Text("timestamp", at.UTC().Format(timestampLayout)),
		OSName:       rec.Text("os_name", domain.Unknown),
		OSVersion:    rec.Text("os_version", domain.Unknown),
		DeviceModel:  rec.Text("device_model", domain.Unknown),
		DeviceBrand:  rec.Text("device_brand", domain.Unknown),
		AppVersion:   rec.Text("app_version", domain.Unknown),
		StackTrace:   rec.Text("stack_trace", domain.NoStackTrace),
	}
}
