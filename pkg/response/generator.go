package response

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"b2b-catalog-be/pkg/inquiry"
	"b2b-catalog-be/pkg/llm"
	"b2b-catalog-be/pkg/store"
)

// AvailableOptions is what the catalog could offer instead when a search
// comes back empty.
type AvailableOptions struct {
	Diameters []float64
	Strokes   []float64
	Brands    []string
}

// Generator renders the assistant's replies. Every message has a
// deterministic Turkish template; when an LLM provider is configured the
// template is rewritten into friendlier prose, with the template as the
// fallback so the engine never goes silent.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (g *Generator) Greeting() string {
	return "Merhaba! Size nasıl yardımcı olabilirim? Aradığınız ürünün çapını, strokunu veya özelliklerini yazabilirsiniz."
}

func (g *Generator) Goodbye() string {
	return "Teşekkür ederiz, iyi günler dileriz!"
}

func (g *Generator) TechnicalIssue() string {
	return "Şu anda teknik bir sorun yaşıyoruz, lütfen birazdan tekrar deneyin."
}

// AskQuestion asks for the single missing slot; dimension questions list
// what the catalog actually stocks so the customer picks from real values.
func (g *Generator) AskQuestion(q inquiry.Question, slots store.SlotSet, options AvailableOptions) string {
	switch q {
	case inquiry.QuestionSpecs:
		return "Hangi ürünü arıyorsunuz? Çap, strok, marka veya özellik belirtirseniz yardımcı olabilirim."
	case inquiry.QuestionDiameter:
		msg := fmt.Sprintf("%s strok için hangi çapı istiyorsunuz?", trimFloat(*slots.StrokeMm))
		if len(options.Diameters) > 0 {
			msg += fmt.Sprintf(" Mevcut çaplar: %s.", joinFloats(options.Diameters))
		}
		return msg
	case inquiry.QuestionStroke:
		msg := fmt.Sprintf("%s çap için kaç mm strok istiyorsunuz?", trimFloat(*slots.DiameterMm))
		if len(options.Strokes) > 0 {
			msg += fmt.Sprintf(" Mevcut stroklar: %s.", joinFloats(options.Strokes))
		}
		return msg
	case inquiry.QuestionQuantity:
		return "Kaç adet istiyorsunuz?"
	}
	return "Biraz daha detay verebilir misiniz?"
}

func (g *Generator) ClarifyNumber(v float64) string {
	return fmt.Sprintf("%s ile neyi kastettiniz? Çap, strok veya adet olarak belirtir misiniz?", trimFloat(v))
}

func (g *Generator) QuantityPrompt(product store.Product) string {
	return fmt.Sprintf("%s (%s) - birim fiyat %.2f TL. Kaç adet istiyorsunuz?",
		product.Name, product.Code, product.UnitPrice)
}

// Candidates lists the fused results; degraded searches say so instead of
// pretending the list is complete.
func (g *Generator) Candidates(products []store.Product, degraded, relaxed bool) string {
	var b strings.Builder

	if relaxed {
		b.WriteString("Tam eşleşme bulamadım, en yakın ürünler şunlar:\n")
	} else {
		b.WriteString("Şu ürünleri buldum:\n")
	}

	for i, p := range products {
		b.WriteString(fmt.Sprintf("%d. %s (%s)", i+1, p.Name, p.Code))
		if p.Brand != "" {
			b.WriteString(" - " + p.Brand)
		}
		b.WriteString(fmt.Sprintf(" - %.2f TL, stok %s", p.UnitPrice, trimFloat(p.Stock)))
		b.WriteString("\n")
	}

	if len(products) == 1 {
		b.WriteString("Bu ürünle devam edelim mi?")
	} else {
		b.WriteString("Hangisiyle ilgilenirsiniz?")
	}

	if degraded {
		b.WriteString("\nNot: Arama kısmen tamamlandı, liste eksik olabilir.")
	}

	return b.String()
}

// NoResults explains the miss and offers what actually exists nearby.
func (g *Generator) NoResults(slots store.SlotSet, options AvailableOptions) string {
	var b strings.Builder
	b.WriteString("Bu kriterlere uyan ürün bulamadım.")

	if slots.DiameterMm != nil && len(options.Strokes) > 0 {
		b.WriteString(fmt.Sprintf(" %s çap için mevcut stroklar: %s.",
			trimFloat(*slots.DiameterMm), joinFloats(options.Strokes)))
	} else if len(options.Diameters) > 0 {
		b.WriteString(fmt.Sprintf(" Mevcut çaplar: %s.", joinFloats(options.Diameters)))
	}
	if len(options.Brands) > 0 {
		b.WriteString(fmt.Sprintf(" Çalıştığımız markalar: %s.", strings.Join(options.Brands, ", ")))
	}

	b.WriteString(" Başka bir ölçü deneyelim mi?")
	return b.String()
}

func (g *Generator) ConfirmPrompt(draft *store.OrderDraft) string {
	return fmt.Sprintf("%s (%s) - %d adet x %.2f TL = %.2f TL. Siparişi onaylıyor musunuz? (evet/hayır)",
		draft.ProductName, draft.ProductCode, draft.Quantity, draft.UnitPrice, draft.TotalPrice)
}

func (g *Generator) OrderPlaced(orderNumber string, draft *store.OrderDraft) string {
	return fmt.Sprintf("Siparişiniz alındı! Sipariş numaranız: %s. %s - %d adet, toplam %.2f TL.",
		orderNumber, draft.ProductName, draft.Quantity, draft.TotalPrice)
}

func (g *Generator) OrderDiscarded() string {
	return "Sipariş iptal edildi. Başka bir ürüne bakmak ister misiniz?"
}

func (g *Generator) InsufficientStock(requested int, available float64, product store.Product) string {
	return fmt.Sprintf("Maalesef %s için %d adet stokta yok, şu an %s adet mevcut. Bu miktarla devam edelim mi?",
		product.Name, requested, trimFloat(available))
}

// Polish rewrites a deterministic reply into warmer prose. It is strictly
// best-effort: any provider error or timeout returns the template as-is.
func (g *Generator) Polish(ctx context.Context, message string) string {
	if g.llmProvider == nil {
		return message
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(
		"Aşağıdaki satış asistanı mesajını daha doğal ve nazik Türkçeyle yeniden yaz. "+
			"Tüm sayıları, ürün kodlarını ve fiyatları AYNEN koru. Sadece mesajı döndür.\n\n%s",
		message,
	)

	polished, err := g.llmProvider.Generate(pctx, prompt, llm.WithTemperature(0.4))
	if err != nil {
		g.logger.Printf("[RESPONSE] LLM polish failed, using template: %v", err)
		return message
	}
	polished = strings.TrimSpace(polished)
	if polished == "" {
		return message
	}
	return polished
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = trimFloat(v)
	}
	return strings.Join(parts, ", ")
}
