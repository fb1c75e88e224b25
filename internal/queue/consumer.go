package queue

// consumer.go contains the background consumer that listens to the order
// event queues and appends structured lines to logs/orders.log.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartOrderConsumer connects to RabbitMQ, declares the order event queues
// (durable), and starts consuming. Each message is appended to
// logs/orders.log in a single-line, human-friendly format. The function
// runs a reconnect loop and never returns under normal operation;
// processing errors are logged and the offending message rejected so the
// server keeps running.
func StartOrderConsumer() error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("order-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("order-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("order-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{OrderPlacedQueue, OrderStatusChangedQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	placed, err := ch.Consume(OrderPlacedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", OrderPlacedQueue, err)
	}
	changed, err := ch.Consume(OrderStatusChangedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", OrderStatusChangedQueue, err)
	}

	for {
		select {
		case d, ok := <-placed:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			ack(d, handlePlaced(d.Body))
		case d, ok := <-changed:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			ack(d, handleStatusChanged(d.Body))
		}
	}
}

func ack(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("order-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func handlePlaced(body []byte) error {
	var ev OrderPlacedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	account := "anonymous"
	if ev.AccountID != nil {
		account = fmt.Sprintf("%d", *ev.AccountID)
	}
	line := fmt.Sprintf("[%s] Order placed | order_id=%d | number=%s | account=%s | items=%d | total=%.2f | customer=%q\n",
		ev.PlacedAt, ev.OrderID, ev.OrderNumber, account, ev.ItemCount, ev.TotalAmount, ev.CustomerName)
	return appendLog(line)
}

func handleStatusChanged(body []byte) error {
	var ev OrderStatusChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Order status changed | order_id=%d | number=%s | %s -> %s | by=%s\n",
		ev.ChangedAt, ev.OrderID, ev.OrderNumber, ev.OldStatus, ev.NewStatus, ev.ChangedBy)
	return appendLog(line)
}

func appendLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "orders.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
