// Package mqttpub publishes controller tick results and system lifecycle
// events to MQTT, with disconnect buffering so a flaky broker connection
// doesn't silently lose ticks.
package mqttpub

import (
	"encoding/json"
	"time"

	"github.com/sweeney/boiler-controller/internal/controller"
)

// Topic is the MQTT topic for controller tick events.
const Topic = "steam/boiler/controller/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "steam/boiler/controller/system"

// Publisher publishes controller output to MQTT.
type Publisher interface {
	// Publish sends a tick result to the broker. Returns an error if
	// publishing fails; callers should not crash the process on failure.
	Publish(tick controller.TickResult) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event such as startup or
// shutdown.
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason    string // e.g. "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool
}

// Payload is the JSON wire shape for a tick event.
type Payload struct {
	Boiler BoilerPayload `json:"boiler"`
}

// BoilerPayload mirrors controller.TickResult for JSON transport.
type BoilerPayload struct {
	Timestamp         string  `json:"timestamp"`
	SessionID         string  `json:"session_id"`
	Mode              string  `json:"mode"`
	Emptying          bool    `json:"emptying"`
	HeaterOn          bool    `json:"heater_on"`
	LastWater         float64 `json:"last_water"`
	LastSteam         float64 `json:"last_steam"`
	PumpFailed        []bool  `json:"pump_failed"`
	CtrlFailed        []bool  `json:"ctrl_failed"`
	WaterSensorFailed bool    `json:"water_sensor_failed"`
	SteamSensorFailed bool    `json:"steam_sensor_failed"`
	PumpCommanded     []bool  `json:"pump_commanded"`
}

// FormatPayload renders a tick result as its JSON wire payload.
func FormatPayload(tick controller.TickResult, at time.Time) ([]byte, error) {
	payload := Payload{
		Boiler: BoilerPayload{
			Timestamp:         at.UTC().Format(time.RFC3339),
			SessionID:         tick.SessionID.String(),
			Mode:              tick.Mode.String(),
			Emptying:          tick.Emptying,
			HeaterOn:          tick.HeaterOn,
			LastWater:         tick.LastWater,
			LastSteam:         tick.LastSteam,
			PumpFailed:        tick.PumpFailed,
			CtrlFailed:        tick.CtrlFailed,
			WaterSensorFailed: tick.WaterSensorFailed,
			SteamSensorFailed: tick.SteamSensorFailed,
			PumpCommanded:     tick.PumpCommanded,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the JSON wire shape for a system event.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload renders a SystemEvent as its JSON wire payload.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
