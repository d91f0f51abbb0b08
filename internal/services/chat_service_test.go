package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rajat93105-cell/pbl-project/internal/models"
)

type fakeCompleter struct {
	reply   string
	err     error
	session string
	system  string
	message string
}

func (f *fakeCompleter) Complete(_ context.Context, sessionID, system, message string) (string, error) {
	f.session, f.system, f.message = sessionID, system, message
	return f.reply, f.err
}

func TestChatForwardsContextAndStoresExchange(t *testing.T) {
	db := newTestDB(t)
	us := NewUserService(db, testDomain)
	ps := NewProductService(db)
	ps.now = fixedClock(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Minute)
	fake := &fakeCompleter{reply: "List it for ₹1,200."}
	cs := NewChatService(db, ps, fake)
	cs.now = fixedClock(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), time.Second)
	ctx := context.Background()

	seller := mustUser(t, us, "chatty")
	in := validInput()
	in.Name = "Gaming Monitor"
	in.Price = 12500
	mustProduct(t, ps, seller, in)

	reply, err := cs.Chat(ctx, seller, "How should I price my monitor?")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Response != fake.reply || reply.Timestamp.IsZero() {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if fake.session != "muj-marketplace-"+seller.ID || fake.message != "How should I price my monitor?" {
		t.Fatalf("provider got session=%q message=%q", fake.session, fake.message)
	}
	if !strings.Contains(fake.system, "Gaming Monitor (₹12,500, Electronics, Active)") {
		t.Fatalf("context missing product line:\n%s", fake.system)
	}

	history, err := cs.GetHistory(ctx, seller.ID, 0)
	if err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	if len(history) != 1 || history[0].UserMessage != "How should I price my monitor?" || history[0].AIResponse != fake.reply {
		t.Fatalf("history not stored: %+v", history)
	}
}

func TestChatProviderFailure(t *testing.T) {
	db := newTestDB(t)
	us := NewUserService(db, testDomain)
	ps := NewProductService(db)
	cs := NewChatService(db, ps, &fakeCompleter{err: errors.New("quota exceeded")})
	ctx := context.Background()
	seller := mustUser(t, us, "unlucky")

	_, err := cs.Chat(ctx, seller, "hello")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if err.Error() != "AI service error: quota exceeded" {
		t.Fatalf("provider message not embedded: %q", err.Error())
	}

	history, _ := cs.GetHistory(ctx, seller.ID, 10)
	if len(history) != 0 {
		t.Fatal("failed exchange must not be stored")
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	db := newTestDB(t)
	cs := NewChatService(db, NewProductService(db), &fakeCompleter{})
	if _, err := cs.Chat(context.Background(), models.User{ID: "u"}, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetHistoryOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	cs := NewChatService(db, NewProductService(db), &fakeCompleter{})
	cs.now = fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three", "four"} {
		if err := cs.createRecord(ctx, "u1", msg, "re: "+msg); err != nil {
			t.Fatalf("createRecord: %v", err)
		}
	}
	if err := cs.createRecord(ctx, "u2", "other", "x"); err != nil {
		t.Fatalf("createRecord: %v", err)
	}

	got, err := cs.GetHistory(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	var msgs []string
	for _, r := range got {
		msgs = append(msgs, r.UserMessage)
	}
	if strings.Join(msgs, ",") != "two,three,four" {
		t.Fatalf("expected latest three in chronological order, got %v", msgs)
	}

	for _, limit := range []int{-1, 101} {
		if _, err := cs.GetHistory(ctx, "u1", limit); !errors.Is(err, ErrValidation) {
			t.Fatalf("limit %d: expected validation error, got %v", limit, err)
		}
	}
}

func TestBuildSellerContext(t *testing.T) {
	products := []models.Product{
		{Name: "Cycle", Category: "Other Useful Stuff", Price: 3499.6, IsSold: true},
		{Name: "Kettle", Category: "Room Essentials", Price: 650},
		{Name: "Fan", Category: "Room Essentials", Price: 1200, IsSold: true},
	}
	ctxText := BuildSellerContext("Asha", products)

	for _, want := range []string{
		"helping seller Asha.",
		"- Total Listings: 3\n",
		"- Items Sold: 2\n",
		"- Active Listings: 1\n",
		"- Total Revenue: ₹4,700\n",
		"- Other Useful Stuff: 1 listed, 1 sold, ₹3,500 revenue\n",
		"- Room Essentials: 2 listed, 1 sold, ₹1,200 revenue\n",
		"- Cycle (₹3,500, Other Useful Stuff, SOLD)\n",
		"- Kettle (₹650, Room Essentials, Active)\n",
		"- Used: 30-50% of original price",
	} {
		if !strings.Contains(ctxText, want) {
			t.Errorf("context missing %q", want)
		}
	}
	if BuildSellerContext("Asha", products) != ctxText {
		t.Fatal("context must be deterministic")
	}

	empty := BuildSellerContext("New", nil)
	if !strings.Contains(empty, "No listings yet") || !strings.Contains(empty, "No products listed yet") {
		t.Fatalf("empty context placeholders missing:\n%s", empty)
	}
}
