// Package service wires configuration into a running set of machine
// monitors sharing one bus publisher.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"toolmonitor/internal/clock"
	"toolmonitor/internal/config"
	"toolmonitor/internal/controller"
	"toolmonitor/internal/controller/focas"
	"toolmonitor/internal/controller/simulated"
	"toolmonitor/internal/monitor"
	"toolmonitor/internal/publisher"
)

// Service coordinates one bus publisher and every configured machine's
// monitor.
type Service struct {
	cfg       config.Config
	publisher *publisher.MQTTPublisher
	monitors  []*monitor.Monitor
}

// New builds a Service from validated configuration. It does not start
// anything; call Run to start and block until ctx is cancelled.
func New(cfg config.Config, tracer trace.Tracer) (*Service, error) {
	if len(cfg.Machines) == 0 {
		return nil, fmt.Errorf("service: no machines configured")
	}

	pub := publisher.NewMQTTPublisher(publisher.MQTTConfig{
		Host:     cfg.MQTT.Host,
		Port:     cfg.MQTT.Port,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		TLS:      cfg.MQTT.TLS,
		ClientID: "toolmonitor",
	})

	s := &Service{cfg: cfg, publisher: pub}

	for _, mc := range cfg.Machines {
		client := newClient(cfg, mc)
		paths := make([]int, 0, len(mc.MonitoredPaths))
		for _, p := range mc.MonitoredPaths {
			paths = append(paths, p.Path)
		}

		mon := monitor.New(monitor.Config{
			MachineID:         mc.MachineID,
			IP:                mc.IP,
			Paths:             paths,
			PollInterval:      cfg.PollInterval(mc),
			Debounce:          cfg.Monitoring.DebounceConsecutiveReads,
			HeartbeatInterval: cfg.Monitoring.HeartbeatInterval(),
			ReconnectMin:      cfg.Monitoring.ReconnectMin(),
			ReconnectMax:      cfg.Monitoring.ReconnectMax(),
			Tracer:            tracer,
		}, client, pub, clock.Real{})

		s.monitors = append(s.monitors, mon)
	}

	return s, nil
}

func newClient(cfg config.Config, mc config.MachineConfig) controller.Client {
	if cfg.IsProduction() {
		slog.Info("using production FOCAS client", "machine", mc.MachineID)
		return focas.New(focas.Config{
			MachineID:    mc.MachineID,
			IP:           mc.IP,
			Port:         mc.Port,
			MacroAddress: cfg.FOCAS.MacroAddress,
			MacroLength:  cfg.FOCAS.MacroLength,
		})
	}
	slog.Info("using simulated FANUC client", "machine", mc.MachineID)
	return simulated.New(mc.MachineID, mc.IP, mc.Port)
}

// Run starts every machine's monitor and blocks until ctx is cancelled,
// then stops them all.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("monitoring service starting",
		"env", s.cfg.Env, "mqtt_host", s.cfg.MQTT.Host, "machines", len(s.monitors))

	for _, m := range s.monitors {
		m.Start(ctx)
	}
	slog.Info("monitoring service started", "machines", len(s.monitors))

	<-ctx.Done()

	slog.Info("monitoring service shutting down")
	for _, m := range s.monitors {
		m.Stop()
	}
	s.publisher.Close()
	slog.Info("monitoring service stopped")
	return nil
}
