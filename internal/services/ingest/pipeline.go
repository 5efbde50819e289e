package ingest

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
	"github.com/Jeraldsarte/lehydrosys-server/internal/notify"
)

const alertTitle = "LeHydroSys Alert"

// Publisher re-emits normalized readings onto the transport.
type Publisher interface {
	PublishMessage(message string) error
}

// Pipeline wires Classify → Decode → Validate → {Persist, Evaluate→Notify}
// per inbound message. Stateless across messages except for the republish
// rate limiter.
type Pipeline struct {
	dispatcher *Dispatcher
	evaluator  *Evaluator
	store      Store
	notifier   notify.Notifier
	limiter    *RateLimiter
	publisher  Publisher
	loc        *time.Location

	wg sync.WaitGroup
}

// Options carries the optional collaborators. Notifier nil disables alert
// delivery (alerts are still evaluated and logged); Publisher nil disables
// republishing.
type Options struct {
	Notifier  notify.Notifier
	Publisher Publisher
	Limiter   *RateLimiter
}

func NewPipeline(dispatcher *Dispatcher, evaluator *Evaluator, store Store, loc *time.Location, opts Options) *Pipeline {
	if loc == nil {
		loc = model.Timezone(model.DefaultTimezoneOffset)
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(time.Second)
	}
	return &Pipeline{
		dispatcher: dispatcher,
		evaluator:  evaluator,
		store:      store,
		notifier:   opts.Notifier,
		limiter:    limiter,
		publisher:  opts.Publisher,
		loc:        loc,
	}
}

// Handle is the MQTT consumer entry point. Drops are logged here, not
// returned: a bad payload must not disturb the subscription.
func (p *Pipeline) Handle(topic string, msg mqtt.Message) error {
	p.Process(topic, string(msg.Payload()))
	return nil
}

// Process runs the full chain for one inbound payload.
func (p *Pipeline) Process(topic, payload string) {
	ctx := context.Background()
	now := time.Now().In(p.loc)

	kind := Classify(payload)
	messagesTotal.WithLabelValues(kind.String()).Inc()

	switch kind {
	case DeviceState:
		p.processDeviceState(ctx, payload, now)
	case KeyValueReading:
		p.processReading(ctx, topic, payload, DecodeKeyValue(payload, now))
	case DelimitedReading:
		reading, err := DecodeDelimited(payload, now)
		if err != nil {
			dropsTotal.WithLabelValues(dropMalformedFieldCount).Inc()
			log.Printf("ingest: drop malformed payload %q: %v", payload, err)
			return
		}
		p.processReading(ctx, topic, payload, reading)
	default:
		dropsTotal.WithLabelValues(dropUnrecognized).Inc()
		log.Printf("ingest: drop unrecognized payload %q", payload)
	}
}

func (p *Pipeline) processDeviceState(ctx context.Context, payload string, now time.Time) {
	event := DecodeDeviceState(payload, now)
	if err := ValidateDeviceState(event); err != nil {
		dropsTotal.WithLabelValues(dropInvalidDeviceState).Inc()
		log.Printf("ingest: drop device state %q: %v", payload, err)
		return
	}
	p.dispatcher.WriteDeviceState(ctx, event)
}

func (p *Pipeline) processReading(ctx context.Context, topic, payload string, reading model.Reading) {
	if err := ValidateReading(reading); err != nil {
		dropsTotal.WithLabelValues(dropInvalidReading).Inc()
		log.Printf("ingest: drop reading %q (values %v): %v", payload, reading.Values(), err)
		return
	}

	// Alert delivery runs concurrently with the store write; neither path
	// blocks or aborts the other, and partial failure is accepted.
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.dispatchAlerts(reading)
	}()

	p.dispatcher.WriteReading(ctx, topic, reading)
	p.republish(reading)
}

func (p *Pipeline) dispatchAlerts(reading model.Reading) {
	alerts := p.evaluator.Evaluate(reading)
	if len(alerts) == 0 {
		return
	}
	for _, a := range alerts {
		alertsTotal.WithLabelValues(a.Metric).Inc()
	}

	ctx := context.Background()
	token, err := p.store.LatestToken(ctx)
	if err != nil {
		log.Printf("ingest: recipient token lookup failed: %v", err)
		return
	}
	if token == "" || p.notifier == nil {
		for _, a := range alerts {
			log.Printf("ingest: alert (undelivered): %s", a.Message)
		}
		return
	}

	for _, a := range alerts {
		if err := p.notifier.Send(ctx, token, alertTitle, a.Message); err != nil {
			alertDeliveriesTotal.WithLabelValues("failure").Inc()
			log.Printf("ingest: notification failed for %s: %v", a.Metric, err)
			continue
		}
		alertDeliveriesTotal.WithLabelValues("success").Inc()
	}
}

func (p *Pipeline) republish(reading model.Reading) {
	if p.publisher == nil {
		return
	}
	if !p.limiter.TryEmit(time.Now()) {
		republishTotal.WithLabelValues("denied").Inc()
		return
	}
	republishTotal.WithLabelValues("granted").Inc()
	if err := p.publisher.PublishMessage(encodeKeyValue(reading)); err != nil {
		log.Printf("ingest: republish failed: %v", err)
	}
}

// Drain waits for in-flight alert deliveries; called at shutdown.
func (p *Pipeline) Drain() {
	p.wg.Wait()
}

// encodeKeyValue formats a reading in the inbound key-value wire shape.
func encodeKeyValue(r model.Reading) string {
	values := r.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("field%d=%s", i+1, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return strings.Join(parts, "&")
}
