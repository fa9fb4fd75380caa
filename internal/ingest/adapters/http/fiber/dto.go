package fiber

// DeviceRequest documents the device payload. The endpoint also accepts an
// array of these or {"devices": [...]}.
// @Description Device profile submission
type DeviceRequest struct {
	OSName                  string `json:"os_name" example:"Android"`
	OSVersion               string `json:"os_version" example:"14"`
	DeviceType              string `json:"device_type" example:"mobile"`
	DeviceModel             string `json:"device_model" example:"Pixel 8"`
	DeviceBrand             string `json:"device_brand" example:"Google"`
	NetworkType             string `json:"network_type" example:"wifi"`
	DeviceLanguage          string `json:"device_language" example:"en-US"`
	PushNotificationEnabled bool   `json:"push_notification_enabled" example:"true"`
	InstallTimestamp        string `json:"install_timestamp" example:"2025-01-15T10:00:00Z"`
}

// EventRequest documents one event. The endpoint also accepts an array of
// these or {"events": [...]}.
// @Description Event submission
type EventRequest struct {
	EventType string `json:"event_type" example:"tab_visit"`
	EventData string `json:"event_data" example:"{\"tab\":\"settings\"}"`
	Count     int    `json:"count" example:"1"`
}

// ErrorRequest documents one error report. The endpoint also accepts an
// array of these or {"errors": [...]}.
// @Description Error report submission
type ErrorRequest struct {
	ErrorMessage string `json:"error_message" example:"API timeout"`
	ErrorCause   string `json:"error_cause" example:"Network"`
	ErrorCode    string `json:"error_code" example:"E504"`
	Timestamp    string `json:"timestamp" example:"2025-01-15T10:00:00.000Z"`
	OSName       string `json:"os_name" example:"iOS"`
	OSVersion    string `json:"os_version" example:"17.2"`
	DeviceModel  string `json:"device_model" example:"iPhone"`
	DeviceBrand  string `json:"device_brand" example:"Apple"`
	AppVersion   string `json:"app_version" example:"1.2.0"`
	StackTrace   string `json:"stack_trace"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Event(s) stats updated"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"Missing event_type in one of the events"`
	Details string `json:"details,omitempty" example:"event 1: missing event_type"`
}
