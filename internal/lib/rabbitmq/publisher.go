// Package rabbitmq содержит обвязку для публикации операционных алертов в RabbitMQ.
//
// Гардиан деструктивных операций публикует сюда событие, когда запись
// в журнал аудита не удалась уже после выполненного удаления — такой
// случай требует внимания оператора, но не отменяет саму операцию.
package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// AlertPublisher публикует операционные алерты в exchange "alerts".
type AlertPublisher struct {
	ch *amqp.Channel
}

// NewAlertPublisher создаёт издателя поверх открытого канала.
func NewAlertPublisher(ch *amqp.Channel) *AlertPublisher {
	return &AlertPublisher{ch: ch}
}

// PublishAlert сериализует событие в JSON и публикует его с ключом "operational".
func (p *AlertPublisher) PublishAlert(event any) error {
	const op = "rabbitmq.PublishAlert"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		"alerts",
		"operational",
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
