// Command boiler-controller runs the steam boiler cycle driver: it ticks
// the controller state machine every period, drives pump and valve relays
// to match its commands, and publishes tick results to MQTT and a local
// status page.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/boiler-controller/internal/configfile"
	"github.com/sweeney/boiler-controller/internal/controller"
	"github.com/sweeney/boiler-controller/internal/mailbox"
	"github.com/sweeney/boiler-controller/internal/mqttpub"
	"github.com/sweeney/boiler-controller/internal/relay"
	"github.com/sweeney/boiler-controller/internal/simplant"
	"github.com/sweeney/boiler-controller/internal/status"
	"github.com/sweeney/boiler-controller/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to boiler YAML config (required)")
	period := flag.Duration("period", 0, "Cycle period, overrides the config file's period_secs if set")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker address")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	useRelay := flag.Bool("relay", false, "Drive real GPIO relays (requires Linux + gpiochip0; default is a no-op driver)")
	initialWater := flag.Float64("sim-initial-water", 0, "In-process plant's starting water level (simulation mode only)")

	flag.Parse()

	if *configPath == "" {
		log.Fatal("fatal: -config is required")
	}

	if err := run(*configPath, *period, *broker, *httpAddr, *useRelay, *initialWater); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(configPath string, period time.Duration, broker, httpAddr string, useRelay bool, initialWater float64) error {
	cfg, err := configfile.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if period > 0 {
		cfg.PeriodSecs = period.Seconds()
	}

	driver, err := newDriver(useRelay, cfg.NumPumps())
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}
	defer driver.Close()

	publisher, err := mqttpub.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	sessionID := uuid.New()
	ctl := controller.NewController(cfg, sessionID)
	plant := simplant.NewPlant(cfg, initialWater)

	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:     broker,
		HTTPAddr:   httpAddr,
		PeriodSecs: cfg.Period(),
		WSEnabled:  true,
	})

	snap := tracker.Snapshot()
	startupEvent := mqttpub.SystemEvent{Timestamp: snap.Now, Event: "STARTUP", Retained: true}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event, session=%s", sessionID)
	}

	var srv *web.Server
	if httpAddr != "" {
		srv = web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: period=%v broker=%s pumps=%d", cfg.Period(), broker, cfg.NumPumps())

	ticker := time.NewTicker(time.Duration(cfg.Period() * float64(time.Second)))
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctl, plant, driver, publisher, tracker, srv, ticker.C, sigCh)
}

func newDriver(useRelay bool, numPumps int) (relay.Driver, error) {
	if !useRelay {
		return relay.NoopDriver{}, nil
	}
	return relay.NewRealDriver(numPumps)
}

func runLoop(ctl *controller.Controller, plant *simplant.Plant, driver relay.Driver, publisher mqttpub.Publisher, tracker *status.Tracker, srv *web.Server, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := signalName(s)
			event := mqttpub.SystemEvent{Timestamp: time.Now(), Event: "SHUTDOWN", Reason: signalName, Retained: true}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			in := plant.Sense()
			out := mailbox.NewBuffer()
			ctl.Tick(in, out)
			plant.Apply(out)
			applyToRelay(driver, out, plant.ValveOpen())

			result := ctl.LastTick()
			if err := publisher.Publish(result); err != nil {
				log.Printf("publish error: %v", err)
			}
			tracker.Update(result)
			if rp, ok := publisher.(mqttpub.ConnectionStatus); ok {
				tracker.SetMQTTConnected(rp.IsConnected())
			}
			if srv != nil {
				srv.Broadcast(tracker.Snapshot())
			}
			log.Printf("tick: mode=%s water=%.1f steam=%.1f heater=%v", result.Mode, result.LastWater, result.LastSteam, result.HeaterOn)
		}
	}
}

// applyToRelay mirrors the tick's outbox onto the physical relays, so the
// real hardware tracks exactly what the in-process plant model assumed.
// The valve is a toggle in the wire protocol, so its new state is read
// back from the plant (the one place that already resolved the toggle)
// rather than re-derived here.
func applyToRelay(driver relay.Driver, out mailbox.Mailbox, valveOpen bool) {
	valveChanged := false
	for i := 0; i < out.Size(); i++ {
		m := out.Read(i)
		switch m.Kind {
		case mailbox.OpenPumpN:
			if err := driver.SetPump(m.Int, true); err != nil {
				log.Printf("relay: open pump %d: %v", m.Int, err)
			}
		case mailbox.ClosePumpN:
			if err := driver.SetPump(m.Int, false); err != nil {
				log.Printf("relay: close pump %d: %v", m.Int, err)
			}
		case mailbox.Valve:
			valveChanged = true
		}
	}
	if valveChanged {
		if err := driver.SetValve(valveOpen); err != nil {
			log.Printf("relay: set valve: %v", err)
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}
