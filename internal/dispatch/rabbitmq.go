package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

// RabbitQueue publishes jobs to a durable RabbitMQ queue.
type RabbitQueue struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	mu    sync.Mutex
}

// NewRabbitQueue connects to url and declares the durable queue name.
func NewRabbitQueue(url, name string) (*RabbitQueue, error) {
	conn, ch, err := open(url, name)
	if err != nil {
		return nil, err
	}
	return &RabbitQueue{conn: conn, ch: ch, queue: name}, nil
}

func open(url, name string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare queue: %w", err)
	}
	return conn, ch, nil
}

// Submit publishes job as a persistent JSON message.
func (q *RabbitQueue) Submit(ctx context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	q.mu.Lock()
	defer q.mu.Unlock()

	err = q.ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

func (q *RabbitQueue) Close() error {
	return closeAll(q.ch, q.conn)
}

// RabbitConsumer feeds jobs from a RabbitMQ queue into a Handler.
type RabbitConsumer struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	queue         string
	maxConcurrent int
	logger        logger.Logger
}

// NewRabbitConsumer connects to url and sets the prefetch to maxConcurrent.
func NewRabbitConsumer(url, name string, maxConcurrent int, log logger.Logger) (*RabbitConsumer, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	conn, ch, err := open(url, name)
	if err != nil {
		return nil, err
	}
	if err := ch.Qos(maxConcurrent, 0, false); err != nil {
		closeAll(ch, conn)
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &RabbitConsumer{
		conn:          conn,
		ch:            ch,
		queue:         name,
		maxConcurrent: maxConcurrent,
		logger:        log,
	}, nil
}

// Consume runs handler for each delivery until ctx is cancelled or the
// delivery channel closes. A message is acked once handler returns; messages
// that are not valid jobs are rejected without requeue.
func (c *RabbitConsumer) Consume(ctx context.Context, handler Handler) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	c.logger.Info(ctx, "Consuming %s with %d workers", c.queue, c.maxConcurrent)

	var wg sync.WaitGroup
	for range c.maxConcurrent {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range deliveries {
				c.handle(ctx, d, handler)
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("delivery channel closed")
}

func (c *RabbitConsumer) handle(ctx context.Context, d amqp.Delivery, handler Handler) {
	c.logger.Debug(ctx, "Received %d bytes", len(d.Body))

	job, err := DecodeJob(d.Body)
	if err != nil {
		c.logger.Error(ctx, "Dropping malformed job: %v", err)
		if err := d.Reject(false); err != nil {
			c.logger.Warn(ctx, "Reject failed: %v", err)
		}
		return
	}

	// The job must finish even if the consumer is shutting down.
	handler(context.WithoutCancel(ctx), job)

	if err := d.Ack(false); err != nil {
		c.logger.Warn(ctx, "Ack failed for job %s: %v", job.IID, err)
	}
}

func (c *RabbitConsumer) Close() error {
	return closeAll(c.ch, c.conn)
}

func closeAll(ch *amqp.Channel, conn *amqp.Connection) error {
	var firstErr error
	if ch != nil {
		if err := ch.Close(); err != nil && err != amqp.ErrClosed {
			firstErr = err
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil && err != amqp.ErrClosed && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
