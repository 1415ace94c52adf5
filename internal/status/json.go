package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Mode              string     `json:"mode"`
	Emptying          bool       `json:"emptying"`
	HeaterOn          bool       `json:"heater_on"`
	LastWater         float64    `json:"last_water"`
	LastSteam         float64    `json:"last_steam"`
	PumpFailed        []bool     `json:"pump_failed"`
	CtrlFailed        []bool     `json:"ctrl_failed"`
	WaterSensorFailed bool       `json:"water_sensor_failed"`
	SteamSensorFailed bool       `json:"steam_sensor_failed"`
	PumpCommanded     []bool     `json:"pump_commanded"`
	UptimeSeconds     int64      `json:"uptime_seconds"`
	StartTime         string     `json:"start_time"`
	Timestamp         string     `json:"timestamp"`
	SessionID         string     `json:"session_id"`
	MQTT              MQTTStatus `json:"mqtt"`
	Config            ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	HTTPAddr   string  `json:"http_addr"`
	PeriodSecs float64 `json:"period_secs"`
	WSEnabled  bool    `json:"ws_enabled"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Mode:              snap.Tick.Mode.String(),
		Emptying:          snap.Tick.Emptying,
		HeaterOn:          snap.Tick.HeaterOn,
		LastWater:         snap.Tick.LastWater,
		LastSteam:         snap.Tick.LastSteam,
		PumpFailed:        snap.Tick.PumpFailed,
		CtrlFailed:        snap.Tick.CtrlFailed,
		WaterSensorFailed: snap.Tick.WaterSensorFailed,
		SteamSensorFailed: snap.Tick.SteamSensorFailed,
		PumpCommanded:     snap.Tick.PumpCommanded,
		UptimeSeconds:     int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:         snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:         snap.Now.UTC().Format(time.RFC3339),
		SessionID:         snap.Tick.SessionID.String(),
		MQTT:              MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			HTTPAddr:   snap.Config.HTTPAddr,
			PeriodSecs: snap.Config.PeriodSecs,
			WSEnabled:  snap.Config.WSEnabled,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
