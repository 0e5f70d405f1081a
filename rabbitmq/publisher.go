package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"moviehub/watchlist"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultQueue = "watchlist.events"

	// DialTimeout bounds the TCP connect and AMQP handshake.
	DialTimeout = 5 * time.Second
)

var ErrConnecting = errors.New("rabbitmq: connection attempt in progress")

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func(url string) (channel, io.Closer, error)

func dialAMQP(url string) (channel, io.Closer, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(DialTimeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("channel open: %w", err)
	}
	return ch, conn, nil
}

// Publisher sends watchlist events to a durable queue on the default
// exchange. The connection is opened on first use and reopened after a
// failed publish. Only one dial runs at a time; publishes that arrive
// meanwhile fail fast with ErrConnecting.
type Publisher struct {
	url   string
	queue string
	dial  dialFunc

	mu         sync.Mutex
	conn       io.Closer
	ch         channel
	connecting bool
}

func NewPublisher(url, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{url: url, queue: queue, dial: dialAMQP}
}

func (p *Publisher) Publish(ctx context.Context, e watchlist.Event) error {
	msg, err := newMessage(e)
	if err != nil {
		return err
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != ch {
		return fmt.Errorf("publish %s: connection closed", e.Type)
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// channel returns the open channel, dialing without holding the lock when
// there is none.
func (p *Publisher) channel() (channel, error) {
	p.mu.Lock()
	if p.ch != nil {
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	}
	if p.connecting {
		p.mu.Unlock()
		return nil, ErrConnecting
	}
	p.connecting = true
	p.mu.Unlock()

	ch, conn, err := p.connect()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.connecting = false
	if err != nil {
		return nil, err
	}
	p.ch, p.conn = ch, conn
	return ch, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func (p *Publisher) connect() (channel, io.Closer, error) {
	ch, conn, err := p.dial(p.url)
	if err != nil {
		return nil, nil, err
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("queue declare: %w", err)
	}
	return ch, conn, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

func newMessage(e watchlist.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, err
	}
	ts := e.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         string(e.Type),
		Timestamp:    ts,
		Body:         body,
	}, nil
}
