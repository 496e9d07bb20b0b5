// Package platform implements the simulation-platform boundary over MQTT
// using Eclipse Paho: measurement batches arrive on per-load topics, fitted
// models and equipment commands are published back.
package platform

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/zipfit/core/model"
	coreplatform "github.com/kilianp07/zipfit/core/platform"
	"github.com/kilianp07/zipfit/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker           string      `json:"broker"`
	ClientID         string      `json:"client_id"`
	Username         string      `json:"username"`
	Password         string      `json:"password"`
	MeasurementTopic string      `json:"measurement_topic"`
	CommandTopic     string      `json:"command_topic"`
	ModelTopicPrefix string      `json:"model_topic_prefix"`
	QoS              byte        `json:"qos"`
	UseTLS           bool        `json:"use_tls"`
	ClientCert       string      `json:"client_cert"`
	ClientKey        string      `json:"client_key"`
	CABundle         string      `json:"ca_bundle"`
	TLSConfig        *tls.Config `json:"-"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MeasurementTopic == "" {
		c.MeasurementTopic = "loads/+/measurements"
	}
	if c.CommandTopic == "" {
		c.CommandTopic = "simulation/input"
	}
	if c.ModelTopicPrefix == "" {
		c.ModelTopicPrefix = "loads"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// measurement is the wire form of one sample.
type measurement struct {
	V float64 `json:"v"`
	P float64 `json:"p"`
	Q float64 `json:"q"`
}

// PahoClient implements the core platform interfaces over MQTT.
type PahoClient struct {
	cli    pahoClient
	cfg    Config
	logger logger.Logger

	mu   sync.Mutex
	subs map[string]chan model.Sample
}

// NewPahoClient connects to the broker and subscribes to the measurement
// topic.
func NewPahoClient(cfg Config) (*PahoClient, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New("platform_client")
	pc := &PahoClient{
		cfg:    cfg,
		logger: log,
		subs:   make(map[string]chan model.Sample),
	}

	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("platform broker connected")
		if token := c.Subscribe(cfg.MeasurementTopic, cfg.QoS, pc.onMeasurement); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to platform broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	pc.cli = c
	return pc, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

func (p *PahoClient) onMeasurement(_ paho.Client, msg paho.Message) {
	loadID, ok := loadIDFromTopic(msg.Topic())
	if !ok {
		p.logger.Warnf("unexpected measurement topic %s", msg.Topic())
		return
	}
	var m measurement
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		p.logger.Errorf("failed to decode measurement: %v", err)
		return
	}
	p.mu.Lock()
	ch, ok := p.subs[loadID]
	p.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- model.Sample{V: m.V, P: m.P, Q: m.Q}:
	default:
		p.logger.Warnf("measurement buffer full for load %s, dropping sample", loadID)
	}
}

// loadIDFromTopic extracts the load identifier from "loads/<id>/measurements".
func loadIDFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "loads" || parts[2] != "measurements" {
		return "", false
	}
	return parts[1], true
}

// FetchBatch collects samples for loadID until the window elapses or ctx is
// cancelled. Samples published for other loads are unaffected.
func (p *PahoClient) FetchBatch(ctx context.Context, loadID string, window time.Duration) (model.SampleSet, error) {
	ch := make(chan model.Sample, 1024)
	p.mu.Lock()
	p.subs[loadID] = ch
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.subs, loadID)
		p.mu.Unlock()
	}()

	var set model.SampleSet
	timer := time.NewTimer(window)
	defer timer.Stop()
	for {
		select {
		case s := <-ch:
			set = append(set, s)
		case <-timer.C:
			if len(set) == 0 {
				return nil, coreplatform.ErrEmptyBatch
			}
			return set, nil
		case <-ctx.Done():
			if len(set) == 0 {
				return nil, ctx.Err()
			}
			return set, nil
		}
	}
}

// commandMessage is the wire form of a difference-based command batch.
type commandMessage struct {
	CommandID    string                 `json:"command_id"`
	SimulationID string                 `json:"simulation_id"`
	Timestamp    int64                  `json:"timestamp"`
	Differences  []coreplatform.Command `json:"differences"`
}

// SendCommands publishes a difference message for the simulation. The command
// identifier is returned in the message for auditability on the platform side.
func (p *PahoClient) SendCommands(_ context.Context, simulationID string, cmds []coreplatform.Command) error {
	if simulationID == "" {
		return fmt.Errorf("simulation id is required")
	}
	msg := commandMessage{
		CommandID:    uuid.NewString(),
		SimulationID: simulationID,
		Timestamp:    time.Now().UnixMilli(),
		Differences:  cmds,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	p.logger.Debugw("sending command batch", map[string]any{
		"command_id": msg.CommandID,
		"count":      len(cmds),
	})
	token := p.cli.Publish(p.cfg.CommandTopic, p.cfg.QoS, false, payload)
	token.Wait()
	return token.Error()
}

// PublishModel publishes a fitted model on the load's model topic.
func (p *PahoClient) PublishModel(_ context.Context, loadID string, result model.FitResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s/model", p.cfg.ModelTopicPrefix, loadID)
	token := p.cli.Publish(topic, p.cfg.QoS, true, payload)
	token.Wait()
	return token.Error()
}

// Disconnect closes the connection to the broker.
func (p *PahoClient) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
