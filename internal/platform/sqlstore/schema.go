package sqlstore

import "fmt"

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS device_stats (
    id %[1]s,
    os_combined TEXT NOT NULL,
    device_type TEXT NOT NULL,
    device_model TEXT NOT NULL,
    device_brand TEXT NOT NULL,
    network_type TEXT NOT NULL,
    device_language TEXT NOT NULL,
    push_notification_enabled INTEGER NOT NULL DEFAULT 0,
    install_date TEXT NOT NULL,
    count %[2]s NOT NULL DEFAULT 1,
    UNIQUE (os_combined, device_type, device_model, device_brand, network_type,
            device_language, push_notification_enabled, install_date)
);

CREATE TABLE IF NOT EXISTS event_stats (
    id %[1]s,
    event_type TEXT NOT NULL,
    event_data TEXT NOT NULL DEFAULT '{}',
    count %[2]s NOT NULL DEFAULT 1,
    UNIQUE (event_type, event_data)
);

CREATE TABLE IF NOT EXISTS app_errors (
    id %[1]s,
    error_message TEXT NOT NULL,
    error_cause TEXT NOT NULL,
    error_code TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    os_name TEXT NOT NULL,
    os_version TEXT NOT NULL,
    device_model TEXT NOT NULL,
    device_brand TEXT NOT NULL,
    app_version TEXT NOT NULL,
    stack_trace TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_app_errors_app_version ON app_errors (app_version);
CREATE INDEX IF NOT EXISTS idx_app_errors_error_code ON app_errors (error_code);
`

func schemaFor(driver string) string {
	// sqlite INTEGER is already 64-bit
	id, count := "INTEGER PRIMARY KEY AUTOINCREMENT", "INTEGER"
	if driver == DriverPostgres {
		id, count = "BIGSERIAL PRIMARY KEY", "BIGINT"
	}
	return fmt.Sprintf(schemaTemplate, id, count)
}
