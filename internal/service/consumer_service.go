package service

import (
	"context"
	"encoding/json"
	"log"

	"cargo-chatbot-be/internal/dto"
	"cargo-chatbot-be/internal/entity"
	"cargo-chatbot-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.InteractionMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal interaction message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	interaction := &entity.Interaction{
		SessionId:               payload.SessionId,
		Question:                payload.Question,
		Answer:                  payload.Answer,
		Category:                payload.Category,
		ContextRelevance:        payload.ContextRelevance,
		ContextSources:          payload.ContextSources,
		HumanAssistanceRequired: payload.HumanAssistanceRequired,
		RefinementPerformed:     payload.RefinementPerformed,
		ResponseTimeMs:          payload.ResponseTimeMs,
		UserAgent:               payload.UserAgent,
		IpAddress:               payload.IpAddress,
		CreatedAt:               payload.Timestamp,
	}

	if err := uow.InteractionRepository().Create(ctx, interaction); err != nil {
		log.Printf("[ERROR] Failed to persist interaction for session %s: %v", payload.SessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
