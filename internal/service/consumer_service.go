package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"b2b-catalog-be/internal/dto"
	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/specification"
	"b2b-catalog-be/internal/repository/unitofwork"
	"b2b-catalog-be/pkg/embedding"
	"b2b-catalog-be/pkg/slots"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
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
	var payload dto.PublishEmbedProductMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing product embedding for ProductId: %s", payload.ProductId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByProductID{ID: payload.ProductId})
	if err != nil {
		log.Printf("[ERROR] Failed to get product %s: %v", payload.ProductId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if product == nil {
		log.Printf("[WARN] Product not found, skipping: %s", payload.ProductId)
		msg.Ack() // Product deleted since publish? Ack.
		return
	}

	document := BuildProductDocument(product)

	log.Printf("[INFO] Generating embedding for product %s (document length: %d)", product.Code, len(document))

	res, err := cs.embeddingProvider.Generate(document, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for product %s: %v", payload.ProductId, err)
		msg.Nack()
		return
	}

	newEmbedding := &entity.ProductEmbedding{
		Id:             uuid.New(),
		Document:       document,
		EmbeddingValue: res.Embedding.Values,
		ProductId:      product.Id,
		CreatedAt:      time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ProductEmbeddingRepository().DeleteByProductId(ctx, product.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embedding: %v", err)
		msg.Nack()
		return
	}

	if err := uow.ProductEmbeddingRepository().Create(ctx, newEmbedding); err != nil {
		log.Printf("[ERROR] Failed to create embedding: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Product embedded: %s (%s)", product.Code, payload.ProductId)
	msg.Ack()
}

// BuildProductDocument renders the text that represents a product in vector
// space. Dimensions and features are spelled out in the same surface forms
// customers use, so query and document land near each other.
func BuildProductDocument(product *entity.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", product.Code, product.Name)
	if product.BrandName != "" {
		fmt.Fprintf(&b, "Marka: %s\n", product.BrandName)
	}
	if product.Category != "" {
		fmt.Fprintf(&b, "Kategori: %s\n", product.Category)
	}
	if product.DiameterMm != nil {
		fmt.Fprintf(&b, "Çap: %s mm\n", trimFloat(*product.DiameterMm))
	}
	if product.StrokeMm != nil {
		fmt.Fprintf(&b, "Strok: %s mm\n", trimFloat(*product.StrokeMm))
	}
	if len(product.Features) > 0 {
		surfaces := make([]string, 0, len(product.Features))
		for _, tag := range product.Features {
			surfaces = append(surfaces, slots.FeatureSurface(tag))
		}
		fmt.Fprintf(&b, "Özellikler: %s\n", strings.Join(surfaces, ", "))
	}
	if product.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", product.Description)
	}

	return strings.TrimRight(b.String(), "\n")
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
