package fiber

// GroupCountResponse documents one grouped-report row. On the wire the
// "dimension" key is the report name, e.g. {"os_name": "Android", "count": 12}.
// @Description Grouped report row
type GroupCountResponse struct {
	Value string `json:"dimension" example:"Android"`
	Count int64  `json:"count" example:"12"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid report endpoint"`
	Details string `json:"details,omitempty" example:"no such table: device_stats"`
}
