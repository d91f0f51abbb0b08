package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rajat93105-cell/pbl-project/internal/assistant"
	"github.com/rajat93105-cell/pbl-project/internal/database"
	"github.com/rajat93105-cell/pbl-project/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	recentProductsShown = 5
)

// ChatServiceProvider defines the interface for the seller assistant.
type ChatServiceProvider interface {
	Chat(ctx context.Context, user models.User, message string) (models.ChatReply, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]models.ChatRecord, error)
}

// ChatService forwards seller questions to the assistant with a context
// built from the seller's own listings, and logs every exchange.
type ChatService struct {
	db        *database.DB
	products  ProductServiceProvider
	assistant assistant.Completer
	now       func() time.Time
}

// NewChatService creates a new ChatService.
func NewChatService(db *database.DB, products ProductServiceProvider, completer assistant.Completer) *ChatService {
	return &ChatService{db: db, products: products, assistant: completer, now: time.Now}
}

// Chat sends message with the seller's context and stores the exchange.
func (s *ChatService) Chat(ctx context.Context, user models.User, message string) (models.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return models.ChatReply{}, validationError("Message must not be empty")
	}

	products, err := s.products.GetProductsBySeller(ctx, user.ID)
	if err != nil {
		return models.ChatReply{}, fmt.Errorf("failed to load seller products: %w", err)
	}
	system := BuildSellerContext(user.Name, products)

	response, err := s.assistant.Complete(ctx, "muj-marketplace-"+user.ID, system, message)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("AI chat error")
		return models.ChatReply{}, &DetailError{Kind: ErrProvider, Detail: "AI service error: " + err.Error()}
	}

	if err := s.createRecord(ctx, user.ID, message, response); err != nil {
		return models.ChatReply{}, err
	}

	return models.ChatReply{Response: response, Timestamp: s.now().UTC()}, nil
}

// createRecord appends an exchange to the chat log.
func (s *ChatService) createRecord(ctx context.Context, userID, message, response string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_history (id, user_id, user_message, ai_response, created_at) VALUES (?, ?, ?, ?, ?)",
		uuid.New().String(), userID, message, response, database.FormatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to store chat record: %w", err)
	}
	return nil
}

// GetHistory returns the user's latest limit exchanges in chronological order.
func (s *ChatService) GetHistory(ctx context.Context, userID string, limit int) ([]models.ChatRecord, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, validationError("limit must be between 1 and %d", MaxHistoryLimit)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, user_message, ai_response, created_at FROM chat_history WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.ChatRecord{}
	for rows.Next() {
		var rec models.ChatRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.UserMessage, &rec.AIResponse, &createdAt); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func rupees(v float64) string {
	return "₹" + humanize.Comma(int64(math.Round(v)))
}

type categoryTally struct {
	count, sold int
	revenue     float64
}

// BuildSellerContext renders the assistant's system prompt. products are
// expected newest first. The output depends only on its inputs.
func BuildSellerContext(sellerName string, products []models.Product) string {
	var sold int
	var revenue float64
	tallies := map[string]*categoryTally{}
	var order []string
	for _, p := range products {
		t, ok := tallies[p.Category]
		if !ok {
			t = &categoryTally{}
			tallies[p.Category] = t
			order = append(order, p.Category)
		}
		t.count++
		if p.IsSold {
			sold++
			revenue += p.Price
			t.sold++
			t.revenue += p.Price
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI assistant for MUJ Campus Marketplace, helping seller %s.\n\n", sellerName)

	b.WriteString("SELLER'S CURRENT STATS:\n")
	fmt.Fprintf(&b, "- Total Listings: %d\n", len(products))
	fmt.Fprintf(&b, "- Items Sold: %d\n", sold)
	fmt.Fprintf(&b, "- Active Listings: %d\n", len(products)-sold)
	fmt.Fprintf(&b, "- Total Revenue: %s\n\n", rupees(revenue))

	b.WriteString("CATEGORY BREAKDOWN:\n")
	if len(order) == 0 {
		b.WriteString("No listings yet\n")
	}
	for _, cat := range order {
		t := tallies[cat]
		fmt.Fprintf(&b, "- %s: %d listed, %d sold, %s revenue\n", cat, t.count, t.sold, rupees(t.revenue))
	}

	b.WriteString("\nRECENT PRODUCTS:\n")
	if len(products) == 0 {
		b.WriteString("No products listed yet\n")
	}
	for i, p := range products {
		if i == recentProductsShown {
			break
		}
		status := "Active"
		if p.IsSold {
			status = "SOLD"
		}
		fmt.Fprintf(&b, "- %s (%s, %s, %s)\n", p.Name, rupees(p.Price), p.Category, status)
	}

	b.WriteString(marketplaceGuide)
	fmt.Fprint(&b, "\nBe helpful, friendly, and specific. Use the seller's actual data when answering questions.")
	return b.String()
}

const marketplaceGuide = `
MARKETPLACE CATEGORIES:
- Room Essentials (Mattress, Table, Chair, Lamp, Fan, Mirror, Curtains)
- Books & Study Material (Engineering books, notes, calculators)
- Electronics (Laptop, Monitor, Keyboard, Mouse, Earphones, Phone)
- Other Useful Stuff (Cycles, Bags, Water Bottles, Extension Boards)

PRICING GUIDELINES (based on condition):
- New: 70-90% of original price
- Like New: 50-70% of original price
- Used: 30-50% of original price

Help the user with:
1. Listing suggestions and pricing
2. Understanding their sales performance
3. Tips to sell items faster
4. Answering marketplace queries
`
