package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/BloggingApp/posts-service/internal/dto"
	amqp "github.com/rabbitmq/amqp091-go"
)

const POST_CREATED_QUEUE = "post.created"

type MQConn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func New(connString string) (*MQConn, error) {
	conn, err := amqp.Dial(connString)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(POST_CREATED_QUEUE, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &MQConn{
		conn: conn,
		ch:   ch,
	}, nil
}

func (mq *MQConn) Publish(ctx context.Context, queue string, body []byte) error {
	return mq.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (mq *MQConn) PublishPostCreated(ctx context.Context, msg dto.MQPostCreatedMsg) error {
	body, err := encodePostCreated(msg)
	if err != nil {
		return err
	}

	return mq.Publish(ctx, POST_CREATED_QUEUE, body)
}

func encodePostCreated(msg dto.MQPostCreatedMsg) ([]byte, error) {
	return json.Marshal(msg)
}

func (mq *MQConn) Close() error {
	if err := mq.ch.Close(); err != nil {
		mq.conn.Close()
		return err
	}

	return mq.conn.Close()
}
