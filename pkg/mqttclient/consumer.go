package mqttclient

import (
	"context"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one inbound message. A returned error is logged; the
// subscription stays up.
type Handler func(topic string, message mqtt.Message) error

// IConsumer is the subscription contract the services consume through.
type IConsumer interface {
	Consume(ctx context.Context)
	SetHandler(handler Handler)
}

// Consumer subscribes one topic on the shared client and feeds the handler.
type Consumer struct {
	client  mqtt.Client
	topic   string
	qos     byte
	handler Handler
}

func NewConsumer(client mqtt.Client, topic string, qos byte, handler Handler) *Consumer {
	return &Consumer{client: client, topic: topic, qos: qos, handler: handler}
}

func (c *Consumer) SetHandler(handler Handler) { c.handler = handler }

// Consume subscribes and blocks until ctx is cancelled, then unsubscribes.
func (c *Consumer) Consume(ctx context.Context) {
	token := c.client.Subscribe(c.topic, c.qos, func(_ mqtt.Client, message mqtt.Message) {
		if c.handler == nil {
			log.Printf("mqtt: no handler set for topic %s", c.topic)
			return
		}
		if err := c.handler(message.Topic(), message); err != nil {
			log.Printf("mqtt: handler error on %s: %v", message.Topic(), err)
		}
	})

	if token.Wait() && token.Error() != nil {
		log.Printf("mqtt: subscribe error on %s: %v", c.topic, token.Error())
		return
	}
	log.Printf("mqtt: subscribed to %s (qos %d)", c.topic, c.qos)

	<-ctx.Done()

	unsub := c.client.Unsubscribe(c.topic)
	unsub.Wait()
}
