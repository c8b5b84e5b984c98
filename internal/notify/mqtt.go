package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// DefaultTopic is the MQTT topic root for published events.
const DefaultTopic = "adzanid/prayer"

const publishTimeout = 5 * time.Second

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher publishes trigger and schedule events to a broker so home
// automation can react to prayer times. It is a prayer.Listener.
type MQTTPublisher struct {
	prayer.BaseListener
	client publisher
	topic  string
	log    zerolog.Logger
}

// ConnectMQTT connects to broker and returns a publisher rooted at topic.
func ConnectMQTT(broker, clientID, topic string) (*MQTTPublisher, error) {
	logger := log.Logger.With().Str("component", "mqtt").Logger()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		logger.Info().Str("broker", broker).Msg("Connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15*time.Second) {
		return nil, fmt.Errorf("connecting to MQTT broker %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", broker, err)
	}

	p := newMQTTPublisher(client, topic)
	p.log = logger
	return p, nil
}

func newMQTTPublisher(client publisher, topic string) *MQTTPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTPublisher{client: client, topic: topic, log: log.Logger}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if c, ok := p.client.(mqtt.Client); ok {
		c.Disconnect(250)
	}
}

type triggerPayload struct {
	Event    prayer.TriggerEvent   `json:"event"`
	Dispatch prayer.DispatchResult `json:"dispatch"`
}

type schedulePayload struct {
	Location string            `json:"location"`
	Date     prayer.Date       `json:"date"`
	Times    map[string]string `json:"times"`
}

// OnTrigger publishes to {topic}/triggered.
func (p *MQTTPublisher) OnTrigger(ev prayer.TriggerEvent, res prayer.DispatchResult) {
	p.publish(p.topic+"/triggered", false, triggerPayload{Event: ev, Dispatch: res})
}

// OnScheduleRefreshed publishes the day's times, retained, to {topic}/schedule.
func (p *MQTTPublisher) OnScheduleRefreshed(snap prayer.Snapshot) {
	times := make(map[string]string, len(prayer.Order))
	for _, e := range snap.Schedule.Entries() {
		times[string(e.Name)] = e.Time.String()
	}
	p.publish(p.topic+"/schedule", true, schedulePayload{
		Location: snap.LocationKey,
		Date:     snap.Schedule.Date(),
		Times:    times,
	})
}

func (p *MQTTPublisher) publish(topic string, retained bool, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		p.log.Error().Err(err).Msg("Encoding MQTT payload")
		return
	}
	token := p.client.Publish(topic, 1, retained, payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			p.log.Warn().Str("topic", topic).Msg("MQTT publish timed out")
			return
		}
		if err := token.Error(); err != nil {
			p.log.Warn().Err(err).Str("topic", topic).Msg("MQTT publish failed")
		}
	}()
}
