package domain

import (
	"encoding/json"
	"strconv"
)

// GroupCount is one row of a grouped report. It encodes as
// {"<dimension>": value, "count": n}.
type GroupCount struct {
	Dimension string
	Value     any
	Count     int64
}

func (g GroupCount) MarshalJSON() ([]byte, error) {
	key, err := json.Marshal(g.Dimension)
	if err != nil {
		return nil, err
	}
	val, err := json.Marshal(g.Value)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(key)+len(val)+24)
	buf = append(buf, '{')
	buf = append(buf, key...)
	buf = append(buf, ':')
	buf = append(buf, val...)
	buf = append(buf, `,"count":`...)
	buf = strconv.AppendInt(buf, g.Count, 10)
	buf = append(buf, '}')
	return buf, nil
}

// PushCount is the composite-report form of a push_notification_enabled row.
type PushCount struct {
	Enabled bool  `json:"enabled"`
	Count   int64 `json:"count"`
}

// CombinedReport holds every device dimension grouping in one payload.
type CombinedReport struct {
	OSName                  []GroupCount `json:"os_name"`
	OSVersion               []GroupCount `json:"os_version"`
	DeviceType              []GroupCount `json:"device_type"`
	DeviceModel             []GroupCount `json:"device_model"`
	DeviceBrand             []GroupCount `json:"device_brand"`
	NetworkType             []GroupCount `json:"network_type"`
	DeviceLanguage          []GroupCount `json:"device_language"`
	PushNotificationEnabled []PushCount  `json:"push_notification_enabled"`
	InstallDate             []GroupCount `json:"install_date"`
}

// DetailCount groups events by the value found under one key of their
// event_data.
type DetailCount struct {
	Value any   `json:"value"`
	Count int64 `json:"count"`
}

type DeviceRow struct {
	ID                      int64  `json:"id"`
	OSCombined              string `json:"os_combined"`
	DeviceType              string `json:"device_type"`
	DeviceModel             string `json:"device_model"`
	DeviceBrand             string `json:"device_brand"`
	NetworkType             string `json:"network_type"`
	DeviceLanguage          string `json:"device_language"`
	PushNotificationEnabled int    `json:"push_notification_enabled"`
	InstallDate             string `json:"install_date"`
	Count                   int64  `json:"count"`
}

type EventRow struct {
	ID        int64  `json:"id"`
	EventType string `json:"event_type"`
	EventData string `json:"event_data"`
	Count     int64  `json:"count"`
}

type ErrorRow struct {
	ID           int64  `json:"id"`
	ErrorMessage string `json:"error_message"`
	ErrorCause   string `json:"error_cause"`
	ErrorCode    string `json:"error_code"`
	Timestamp    string `json:"timestamp"`
	OSName       string `json:"os_name"`
	OSVersion    string `json:"os_version"`
	DeviceModel  string `json:"device_model"`
	DeviceBrand  string `json:"device_brand"`
	AppVersion   string `json:"app_version"`
	StackTrace   string `json:"stack_trace"`
}
