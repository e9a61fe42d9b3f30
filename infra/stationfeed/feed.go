// Package stationfeed subscribes to live station occupancy telemetry over
// MQTT and keeps the latest samples per station in memory. The feed is the
// observation source behind the learned side of demand prediction; the
// planner runs unchanged when no broker is reachable.
package stationfeed

import (
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/chargeway/chargeway/core/demand"
	"github.com/chargeway/chargeway/core/logger"
	infralogger "github.com/chargeway/chargeway/infra/logger"
)

// Config defines the connection parameters for the station telemetry feed.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic is the subscription filter; the station ID is the wildcard
	// segment, e.g. "chargeway/stations/+/status".
	Topic string `json:"topic"`
	QoS   byte   `json:"qos"`
	// MaxSamples bounds how many samples are kept per station.
	MaxSamples int `json:"max_samples"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "chargeway-feed"
	}
	if c.Topic == "" {
		c.Topic = "chargeway/stations/+/status"
	}
	if c.MaxSamples == 0 {
		c.MaxSamples = 12
	}
}

// statusMessage is the wire format stations publish.
type statusMessage struct {
	StationID  string    `json:"station_id"`
	Usage      float64   `json:"usage"`
	ReportedAt time.Time `json:"reported_at"`
}

// Feed is an MQTT-backed demand.ObservationSource.
type Feed struct {
	store *Store
	cli   paho.Client
	cfg   Config
	log   logger.Logger
}

var _ demand.ObservationSource = (*Feed)(nil)

// New connects to the broker and subscribes to the status topic.
func New(cfg Config) (*Feed, error) {
	cfg.SetDefaults()
	log := infralogger.New("station-feed")
	f := &Feed{store: NewStore(cfg.MaxSamples), cfg: cfg, log: log}

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("station feed connected to %s", cfg.Broker)
		if token := c.Subscribe(cfg.Topic, cfg.QoS, f.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warnf("station feed connection lost: %v", err)
	}

	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	f.cli = cli
	return f, nil
}

func (f *Feed) onMessage(_ paho.Client, msg paho.Message) {
	var m statusMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		f.log.Warnf("malformed status message on %s: %v", msg.Topic(), err)
		return
	}
	if m.StationID == "" || m.Usage < 0 || m.Usage > 1 {
		f.log.Warnf("dropping out-of-range status for %q", m.StationID)
		return
	}
	if m.ReportedAt.IsZero() {
		m.ReportedAt = time.Now().UTC()
	}
	f.store.Add(m.StationID, demand.Observation{Usage: m.Usage, ReportedAt: m.ReportedAt})
}

// Recent implements demand.ObservationSource.
func (f *Feed) Recent(stationID string) []demand.Observation {
	return f.store.Recent(stationID)
}

// Close disconnects from the broker.
func (f *Feed) Close() {
	if f.cli != nil {
		f.cli.Disconnect(250)
	}
}
