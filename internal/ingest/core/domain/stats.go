package domain

// Fallback values written when a submitted field is absent or falsy.
const (
	Unknown             = "Unknown"
	UnknownErrorMessage = "Unknown error"
	UnknownErrorCause   = "Unknown cause"
	NoStackTrace        = "No stack trace provided"
	EmptyEventData      = "{}"
)

// DeviceStat is one normalized device submission. All eight dimension
// fields together form the counter key.
type DeviceStat struct {
	OSCombined              string
	DeviceType              string
	DeviceModel             string
	DeviceBrand             string
	NetworkType             string
	DeviceLanguage          string
	PushNotificationEnabled int // 0 or 1
	InstallDate             string
}

// EventStat is one normalized event occurrence. Count is how many times the
// client saw it and is added to the stored counter.
type EventStat struct {
	EventType string
	EventData string
	Count     int64
}

// AppError is appended as its own row; errors are never merged.
type AppError struct {
	ErrorMessage string
	ErrorCause   string
	ErrorCode    string
	Timestamp    string
	OSName       string
	OSVersion    string
	DeviceModel  string
	DeviceBrand  string
	AppVersion   string
	StackTrace   string
}

// Batch groups the records of one submission. It is written atomically.
type Batch struct {
	Devices []DeviceStat
	Events  []EventStat
	Errors  []AppError
}

func (b Batch) Len() int {
	return len(b.Devices) + len(b.Events) + len(b.Errors)
}

// UserAgentInfo holds what could be derived from a User-Agent header. Empty
// fields mean "not detected".
type UserAgentInfo struct {
	OSName      string
	OSVersion   string
	DeviceType  string
	DeviceModel string
	DeviceBrand string
}
