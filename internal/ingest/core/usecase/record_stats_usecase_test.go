package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"

	"telemetry-stats-service/internal/ingest/core/domain"
)

type fakeStatsWriter struct {
	ApplyFn   func(ctx context.Context, b domain.Batch) error
	Calls     int
	LastBatch domain.Batch
}

func (f *fakeStatsWriter) ApplyBatch(ctx context.Context, b domain.Batch) error {
	f.Calls++
	f.LastBatch = b
	if f.ApplyFn != nil {
		return f.ApplyFn(ctx, b)
	}
	return nil
}

type fakeUserAgentParser struct {
	Info domain.UserAgentInfo
	Last string
}

func (f *fakeUserAgentParser) Parse(ua string) domain.UserAgentInfo {
	f.Last = ua
	return f.Info
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func newTestUseCase(t *testing.T, w *fakeStatsWriter, ua *fakeUserAgentParser) *RecordStatsUseCase {
	t.Helper()
	clock := quartz.NewMock(t)
	clock.Set(fixedNow)
	if ua == nil {
		ua = &fakeUserAgentParser{}
	}
	return NewRecordStatsUseCase(w, ua, clock)
}

func mustPayload(t *testing.T, body, field string) Payload {
	t.Helper()
	p, err := ParsePayload([]byte(body), field)
	if err != nil {
		t.Fatalf("ParsePayload(%s): %v", body, err)
	}
	return p
}

// ------------------------------------------------------------
// DEVICES
// ------------------------------------------------------------

func TestRecordDevices_ExplicitFields(t *testing.T) {
	w := &fakeStatsWriter{}
	uc := newTestUseCase(t, w, nil)

	body := `{
		"os_name": "Android", "os_version": "14",
		"device_type": "mobile", "device_model": "Pixel 8", "device_brand": "Google",
		"network_type": "wifi", "device_language": "en-US",
		"push_notification_enabled": true,
		"install_timestamp": "2024-11-02T23:30:00-02:00"
	}`

	res, err := uc.RecordDevices(context.Background(), mustPayload(t, body, FieldDevices), "ignored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != MessageDeviceStatsUpdated || res.Records != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	want := domain.DeviceStat{
		OSCombined:              "Android 14",
		DeviceType:              "mobile",
		DeviceModel:             "Pixel 8",
		DeviceBrand:             "Google",
		NetworkType:             "wifi",
		DeviceLanguage:          "en-US",
		PushNotificationEnabled: 1,
		InstallDate:             "2024-11-03",
	}
	if got := w.LastBatch.Devices[0]; got != want {
		t.Errorf("device mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRecordDevices_UserAgentFallback(t *testing.T) {
	w := &fakeStatsWriter{}
	ua := &fakeUserAgentParser{Info: domain.UserAgentInfo{
		OSName:      "iOS",
		OSVersion:   "17.2",
		DeviceType:  "mobile",
		DeviceModel: "iPhone",
		DeviceBrand: "Apple",
	}}
	uc := newTestUseCase(t, w, ua)

	_, err := uc.RecordDevices(context.Background(), mustPayload(t, `{"device_model": ""}`, FieldDevices), "Mozilla/5.0 (iPhone)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ua.Last != "Mozilla/5.0 (iPhone)" {
		t.Errorf("expected user agent to be parsed, got %q", ua.Last)
	}

	got := w.LastBatch.Devices[0]
	if got.OSCombined != "iOS 17.2" || got.DeviceModel != "iPhone" || got.DeviceBrand != "Apple" || got.DeviceType != "mobile" {
		t.Errorf("expected user agent values, got %+v", got)
	}
	if got.NetworkType != domain.Unknown || got.DeviceLanguage != domain.Unknown {
		t.Errorf("expected Unknown defaults, got %+v", got)
	}
	if got.PushNotificationEnabled != 0 {
		t.Errorf("expected push 0, got %d", got.PushNotificationEnabled)
	}
	if got.InstallDate != "2025-03-14" {
		t.Errorf("expected install date from clock, got %s", got.InstallDate)
	}
}

func TestRecordDevices_EmptyUserAgentDefaultsToUnknown(t *testing.T) {
	w := &fakeStatsWriter{}
	ua := &fakeUserAgentParser{}
	uc := newTestUseCase(t, w, ua)

	if _, err := uc.RecordDevices(context.Background(), mustPayload(t, `{}`, FieldDevices), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ua.Last != domain.Unknown {
		t.Errorf("expected parser to receive %q, got %q", domain.Unknown, ua.Last)
	}
	if got := w.LastBatch.Devices[0].OSCombined; got != "Unknown Unknown" {
		t.Errorf("expected os_combined 'Unknown Unknown', got %q", got)
	}
}

func TestRecordDevices_InstallTimestampForms(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"epoch millis", `{"install_timestamp": 1700000000000}`, "2023-11-14"},
		{"plain date", `{"install_timestamp": "2024-02-29"}`, "2024-02-29"},
		{"date and time", `{"install_timestamp": "2024-02-29 23:59:59"}`, "2024-02-29"},
		{"iso without zone", `{"install_timestamp": "2024-01-15T10:00:00"}`, "2024-01-15"},
		{"iso millis without zone", `{"install_timestamp": "2024-01-15T10:00:00.250"}`, "2024-01-15"},
		{"slashed date", `{"install_timestamp": "2024/02/29"}`, "2024-02-29"},
		{"falsy zero uses today", `{"install_timestamp": 0}`, "2025-03-14"},
		{"empty string uses today", `{"install_timestamp": ""}`, "2025-03-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeStatsWriter{}
			uc := newTestUseCase(t, w, nil)

			if _, err := uc.RecordDevices(context.Background(), mustPayload(t, tt.body, FieldDevices), ""); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := w.LastBatch.Devices[0].InstallDate; got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRecordDevices_InvalidInstallTimestamp(t *testing.T) {
	for _, body := range []string{
		`{"install_timestamp": "not a date"}`,
		`{"install_timestamp": true}`,
		`{"install_timestamp": 1e300}`,
	} {
		w := &fakeStatsWriter{}
		uc := newTestUseCase(t, w, nil)

		_, err := uc.RecordDevices(context.Background(), mustPayload(t, body, FieldDevices), "")
		if !errors.Is(err, ErrInvalidInstallTimestamp) {
			t.Errorf("%s: expected ErrInvalidInstallTimestamp, got %v", body, err)
		}
		if w.Calls != 0 {
			t.Errorf("%s: writer must not be called", body)
		}
	}
}

func TestRecordDevices_BatchShapes(t *testing.T) {
	w := &fakeStatsWriter{}
	uc := newTestUseCase(t, w, nil)

	body := `{"devices": [{"os_name": "Android"}, {"os_name": "iOS"}]}`
	res, err := uc.RecordDevices(context.Background(), mustPayload(t, body, FieldDevices), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Records != 2 || len(w.LastBatch.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %+v", w.LastBatch.Devices)
	}
	if w.LastBatch.Devices[1].OSCombined != "iOS Unknown" {
		t.Errorf("unexpected os_combined %q", w.LastBatch.Devices[1].OSCombined)
	}
}

// ------------------------------------------------------------
// EVENTS
// ------------------------------------------------------------

func TestRecordEvents_Defaults(t *testing.T) {
	w := &fakeStatsWriter{}
	uc := newTestUseCase(t, w, nil)

	body := `[
		{"event_type": "tab_visit"},
		{"event_type": "tab_visit", "event_data": "{\"tab\":\"home\"}", "count": 3},
		{"event_type": "purchase", "event_data": {"sku": "A1", "qty": 2}, "count": 2.9},
		{"event_type": "scroll", "count": -4},
		{"event_type": "scroll", "count": "7"}
	]`

	res, err := uc.RecordEvents(context.Background(), mustPayload(t, body, FieldEvents))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != MessageEventStatsUpdated || res.Records != 5 {
		t.Fatalf("unexpected result: %+v", res)
	}

	want := []domain.EventStat{
		{EventType: "tab_visit", EventData: "{}", Count: 1},
		{EventType: "tab_visit", EventData: `{"tab":"home"}`, Count: 3},
		{EventType: "purchase", EventData: `{"sku":"A1","qty":2}`, Count: 2},
		{EventType: "scroll", EventData: "{}", Count: 1},
		{EventType: "scroll", EventData: "{}", Count: 1},
	}
	for i, got := range w.LastBatch.Events {
		if got != want[i] {
			t.Errorf("event %d:\n got %+v\nwant %+v", i, got, want[i])
		}
	}
}

func TestRecordEvents_MissingTypeRejectsBatch(t *testing.T) {
	for _, body := range []string{
		`[{"event_type": "a"}, {"event_data": "x"}]`,
		`{"events": [{"event_type": "a"}, {"event_type": ""}]}`,
		`{"event_data": "{}"}`,
		`[{"event_type": "a"}, 42]`,
	} {
		w := &fakeStatsWriter{}
		uc := newTestUseCase(t, w, nil)

		_, err := uc.RecordEvents(context.Background(), mustPayload(t, body, FieldEvents))
		if !errors.Is(err, ErrMissingEventType) {
			t.Errorf("%s: expected ErrMissingEventType, got %v", body, err)
		}
		if w.Calls != 0 {
			t.Errorf("%s: writer must not be called", body)
		}
	}
}

func TestRecordEvents_EmptyArrayWritesNothing(t *testing.T) {
	w := &fakeStatsWriter{}
	uc := newTestUseCase(t, w, nil)

	res, err := uc.RecordEvents(context.Background(), mustPayload(t, `[]`, FieldEvents))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Records != 0 || w.Calls != 0 {
		t.Errorf("expected no write, got %+v calls=%d", res, w.Calls)
	}
}

func TestRecordEvents_StoreError(t *testing.T) {
	storeErr := errors.New("database is locked")
	w := &fakeStatsWriter{
		ApplyFn: func(ctx context.Context, b domain.Batch) error { return storeErr },
	}
	uc := newTestUseCase(t, w, nil)

	_, err := uc.RecordEvents(context.Background(), mustPayload(t, `{"event_type": "a"}`, FieldEvents))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

// ------------------------------------------------------------
// ERRORS
// ------------------------------------------------------------

func TestRecordErrors_EmptyObjectUsesDefaults(t *testing.T) {
	w := &fakeStatsWriter{}
	uc := newTestUseCase(t, w, nil)

	res, err := uc.RecordErrors(context.Background(), mustPayload(t, `{}`, FieldErrors))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != MessageErrorsLogged || res.Records != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	want := domain.AppError{
		ErrorMessage: "Unknown error",
		ErrorCause:   "Unknown cause",
		ErrorCode:    "Unknown",
		Timestamp:    "2025-03-14T09:26:53.589Z",
		OSName:       "Unknown",
		OSVersion:    "Unknown",
		DeviceModel:  "Unknown",
		DeviceBrand:  "Unknown",
		AppVersion:   "Unknown",
		StackTrace:   "No stack trace provided",
	}
	if got := w.LastBatch.Errors[0]; got != want {
		t.Errorf("error mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRecordErrors_NonObjectElementsUseDefaults(t *testing.T) {
	w := &fakeStatsWriter{}
	uc := newTestUseCase(t, w, nil)

	res, err := uc.RecordErrors(context.Background(), mustPayload(t, `[null, 7, {"error_code":"E1"}]`, FieldErrors))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Records != 3 {
		t.Fatalf("expected 3 records, got %d", res.Records)
	}
	for i, e := range w.LastBatch.Errors[:2] {
		if e.ErrorMessage != "Unknown error" || e.ErrorCode != "Unknown" {
			t.Errorf("element %d: expected defaults, got %+v", i, e)
		}
	}
	if code := w.LastBatch.Errors[2].ErrorCode; code != "E1" {
		t.Errorf("expected E1, got %s", code)
	}
}

func TestRecordErrors_WrappedAndScalars(t *testing.T) {
	w := &fakeStatsWriter{}
	uc := newTestUseCase(t, w, nil)

	body := `{"errors": [
		{"error_message": "API timeout", "error_code": 504, "timestamp": "2025-01-01T00:00:00Z"},
		{"error_code": "E1", "app_version": "1.2.0"}
	]}`
	res, err := uc.RecordErrors(context.Background(), mustPayload(t, body, FieldErrors))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Records != 2 {
		t.Fatalf("expected 2 records, got %d", res.Records)
	}

	first := w.LastBatch.Errors[0]
	if first.ErrorMessage != "API timeout" || first.ErrorCode != "504" || first.Timestamp != "2025-01-01T00:00:00Z" {
		t.Errorf("unexpected first error: %+v", first)
	}
	if second := w.LastBatch.Errors[1]; second.AppVersion != "1.2.0" || second.ErrorMessage != "Unknown error" {
		t.Errorf("unexpected second error: %+v", second)
	}
}
