package usecase

import (
	"strconv"
	"strings"

	"telemetry-stats-service/internal/reports/core/ports"
)

// Report names that are not plain groupings.
const (
	ReportCombined    = "combined"
	ReportEventDetail = "event_detail"
	ReportDevices     = "devices"
	ReportEvents      = "events"
	ReportErrors      = "errors"
)

type osPart int

const (
	osWhole osPart = iota
	osNamePart
	osVersionPart
)

type groupedReport struct {
	query ports.GroupQuery
	// part selects a half of os_combined; the query then groups by os_combined.
	part osPart
}

func deviceGroup(column string, kind ports.ValueKind) groupedReport {
	return groupedReport{query: ports.GroupQuery{
		Table:     ports.TableDevices,
		Column:    column,
		Kind:      kind,
		Aggregate: ports.AggregateSum,
	}}
}

func errorGroup(column string) groupedReport {
	return groupedReport{query: ports.GroupQuery{
		Table:     ports.TableErrors,
		Column:    column,
		Aggregate: ports.AggregateRows,
	}}
}

var osCombinedQuery = ports.GroupQuery{
	Table:     ports.TableDevices,
	Column:    "os_combined",
	Aggregate: ports.AggregateSum,
}

var groupedReports = map[string]groupedReport{
	"os_name":                   {query: osCombinedQuery, part: osNamePart},
	"os_version":                {query: osCombinedQuery, part: osVersionPart},
	"os_combined":               deviceGroup("os_combined", ports.KindText),
	"device_type":               deviceGroup("device_type", ports.KindText),
	"device_model":              deviceGroup("device_model", ports.KindText),
	"device_brand":              deviceGroup("device_brand", ports.KindText),
	"network_type":              deviceGroup("network_type", ports.KindText),
	"device_language":           deviceGroup("device_language", ports.KindText),
	"push_notification_enabled": deviceGroup("push_notification_enabled", ports.KindInteger),
	"install_date":              deviceGroup("install_date", ports.KindText),

	"event_type": {query: ports.GroupQuery{
		Table:     ports.TableEvents,
		Column:    "event_type",
		Aggregate: ports.AggregateSum,
	}},

	"error_code":    errorGroup("error_code"),
	"error_cause":   errorGroup("error_cause"),
	"app_version":   errorGroup("app_version"),
	"error_message": errorGroup("error_message"),
}

// filterFunc turns one query parameter value into zero or more filters.
// ok=false means the value can never match, so the listing is empty.
type filterFunc func(value string) (f []ports.Filter, ok bool)

func equal(column string) filterFunc {
	return func(value string) ([]ports.Filter, bool) {
		return []ports.Filter{{Column: column, Op: ports.OpEqual, Value: value}}, true
	}
}

// Device listings filter os_name/os_version against os_combined, split at
// its last space.
var deviceFilters = map[string]filterFunc{
	"os_name": func(value string) ([]ports.Filter, bool) {
		return []ports.Filter{{Column: "os_combined", Op: ports.OpLeadingWord, Value: value}}, true
	},
	"os_version": func(value string) ([]ports.Filter, bool) {
		if strings.Contains(value, " ") {
			return nil, false
		}
		return []ports.Filter{{Column: "os_combined", Op: ports.OpTrailingWord, Value: value}}, true
	},
	"os_combined":     equal("os_combined"),
	"device_type":     equal("device_type"),
	"device_model":    equal("device_model"),
	"device_brand":    equal("device_brand"),
	"network_type":    equal("network_type"),
	"device_language": equal("device_language"),
	"push_notification_enabled": func(value string) ([]ports.Filter, bool) {
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, false
		}
		v := 0
		if enabled {
			v = 1
		}
		return []ports.Filter{{Column: "push_notification_enabled", Op: ports.OpEqual, Value: v}}, true
	},
	"install_date": equal("install_date"),
}

var eventFilters = map[string]filterFunc{
	"event_type": equal("event_type"),
	"event_data": equal("event_data"),
}

var errorFilters = map[string]filterFunc{
	"error_message": equal("error_message"),
	"error_cause":   equal("error_cause"),
	"error_code":    equal("error_code"),
	"os_name":       equal("os_name"),
	"os_version":    equal("os_version"),
	"device_model":  equal("device_model"),
	"device_brand":  equal("device_brand"),
	"app_version":   equal("app_version"),
}

// splitOS splits os_combined at its last space. Without a space the whole
// value is the name.
func splitOS(combined string) (name, version string) {
	i := strings.LastIndexByte(combined, ' ')
	if i < 0 {
		return combined, "Unknown"
	}
	return combined[:i], combined[i+1:]
}
