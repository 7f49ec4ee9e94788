package faq

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammall/hamra/backend/internal/model/shop"
	"github.com/hammall/hamra/backend/internal/model/tenant"
)

var kampala = time.FixedZone("EAT", 3*60*60)

// 2026-03-10 is a Tuesday.
func fixedResponder() *Responder {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, kampala)
	return NewResponder(
		WithClock(func() time.Time { return now }),
		WithLocation(kampala),
	)
}

func strPtr(s string) *string { return &s }

func sampleShops() []shop.Snapshot {
	return []shop.Snapshot{
		{ID: 1, ShopNumber: "A12", ShopType: "Boutique", FloorNumber: 2, MonthlyRent: 1500000, TotalPaid: 3000000, Balance: 150000, PaymentStatus: "partial", NextDueDate: strPtr("2026-03-15")},
		{ID: 2, ShopNumber: "B03", ShopType: "Electronics", FloorNumber: 1, MonthlyRent: 800000, TotalPaid: 1600000, Balance: 0, PaymentStatus: "paid"},
		{ID: 3, ShopNumber: "C07", ShopType: "Salon", FloorNumber: 3, MonthlyRent: 450000.5, TotalPaid: 920000, Balance: -20000, PaymentStatus: "overpaid", NextDueDate: strPtr("2026-04-30")},
	}
}

func TestRespondBalanceEnumeratesEveryShop(t *testing.T) {
	got := fixedResponder().Respond("What is my current BALANCE?", sampleShops(), nil)

	want := "Here's your balance information:\n\n" +
		"Shop A12: UGX 150,000 (Outstanding)\n" +
		"Shop B03: UGX 0 (Paid Up ✓)\n" +
		"Shop C07: UGX -20,000 (Overpaid)\n" +
		"\nTotal Balance: UGX 130,000" +
		"\n\nWould you like to make a payment now?"
	assert.Equal(t, want, got)
}

func TestRespondBalanceWithoutDebtSkipsPaymentPrompt(t *testing.T) {
	shops := []shop.Snapshot{
		{ShopNumber: "B03", Balance: 0},
		{ShopNumber: "C07", Balance: -5000},
	}
	got := fixedResponder().Respond("how much do i owe", shops, nil)

	assert.True(t, strings.HasSuffix(got, "\nTotal Balance: UGX -5,000"), got)
	assert.Equal(t, 1, strings.Count(got, "Shop B03"))
	assert.Equal(t, 1, strings.Count(got, "Shop C07"))
}

func TestRespondWithoutShops(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"show me my shop details", NoShopsDetailsReply},
		{"what's my balance", NoShopsReply},
		{"what is the due date", NoShopsReply},
		{"how much rent do i pay", NoShopsReply},
		{"show payment history", NoShopsReply},
	}

	r := fixedResponder()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Respond(tt.message, nil, nil))
			assert.Equal(t, tt.want, r.Respond(tt.message, []shop.Snapshot{}, nil))
		})
	}
}

func TestRespondFirstMatchWins(t *testing.T) {
	r := fixedResponder()
	_, intent := r.Answer("what is my balance and the due date", sampleShops(), nil)
	assert.Equal(t, Balance, intent)

	got := r.Respond("due date and balance please", sampleShops(), nil)
	assert.True(t, strings.HasPrefix(got, "Here's your balance information:"), got)
}

func TestClassifyOverlappingTriggers(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"Show me my shop details", ShopDetails},
		{"my shop balance", ShopDetails},
		{"overdue balance", Balance},
		{"how much rent do I pay?", RentAmount},
		{"how much should I pay", RentAmount},
		{"how much is it", Fallback},
		{"I want to pay rent", PaymentProcess},
		{"How do I pay my rent?", PaymentProcess},
		{"total paid so far", PaymentHistory},
		{"which payment methods work", PaymentMethods},
		{"can I use mobile money", PaymentMethods},
		{"I need to edit details", ProfileChange},
		{"help, I forgot password", Password},
		{"contact admin about late payment", Support},
		{"this is overdue", LatePayment},
		{"Good morning", Greeting},
		{"this", Greeting},
		{"I appreciate it", Thanks},
		{"When is my rent due?", Fallback},
		{"", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestRespondDueDateAnnotations(t *testing.T) {
	tests := []struct {
		name string
		due  string
		want string
	}{
		{"seven days out", "2026-03-17", "Shop X1: Tuesday, March 17, 2026 (Due in 7 days)\n"},
		{"eight days out", "2026-03-18", "Shop X1: Wednesday, March 18, 2026\n"},
		{"today", "2026-03-10", "Shop X1: Tuesday, March 10, 2026 (DUE TODAY!)\n"},
		{"yesterday", "2026-03-09", "Shop X1: Monday, March 9, 2026 (OVERDUE by 1 days!)\n"},
		{"timestamp form", "2026-03-11T00:00:00Z", "Shop X1: Wednesday, March 11, 2026 (Due in 1 days)\n"},
	}

	r := fixedResponder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shops := []shop.Snapshot{{ShopNumber: "X1", NextDueDate: strPtr(tt.due)}}
			got := r.Respond("payment deadline?", shops, nil)

			want := "Your rent due dates:\n\n" + tt.want +
				"\n💡 Tip: Pay a few days early to avoid any last-minute issues!"
			assert.Equal(t, want, got)
		})
	}
}

func TestRespondDueDateNotSet(t *testing.T) {
	shops := []shop.Snapshot{
		{ShopNumber: "X1"},
		{ShopNumber: "X2", NextDueDate: strPtr("not a date")},
	}
	got := fixedResponder().Respond("due date", shops, nil)

	assert.Contains(t, got, "Shop X1: Not set\n")
	assert.Contains(t, got, "Shop X2: Not set\n")
}

func TestRespondShopDetails(t *testing.T) {
	shops := sampleShops()[:1]
	got := fixedResponder().Respond("view shop", shops, nil)

	want := "You have 1 shop:\n\n" +
		"📍 Shop A12\n" +
		"   • Type: Boutique\n" +
		"   • Floor: 2\n" +
		"   • Monthly Rent: UGX 1,500,000\n" +
		"   • Balance: UGX 150,000\n" +
		"   • Status: partial\n" +
		"\n\nWould you like to make a payment or view payment history?"
	assert.Equal(t, want, got)

	multi := fixedResponder().Respond("view shop", sampleShops(), nil)
	assert.True(t, strings.HasPrefix(multi, "You have 3 shops:\n\n"))
	assert.Contains(t, multi, "   • Status: partial\n\n📍 Shop B03\n")
}

func TestRespondRentAmountTotals(t *testing.T) {
	got := fixedResponder().Respond("How much is the rent?", sampleShops(), nil)

	want := "Your monthly rent:\n\n" +
		"Shop A12: UGX 1,500,000/month\n" +
		"Shop B03: UGX 800,000/month\n" +
		"Shop C07: UGX 450,000.5/month\n" +
		"\nTotal Monthly Rent: UGX 2,750,000.5"
	assert.Equal(t, want, got)
}

func TestRespondPaymentHistory(t *testing.T) {
	shops := sampleShops()[:1]
	got := fixedResponder().Respond("past payments", shops, nil)

	want := "Your payment summary:\n\n" +
		"Shop A12:\n" +
		"   • Total Paid: UGX 3,000,000\n" +
		"   • Balance: UGX 150,000\n\n" +
		"To view detailed payment history, click the 'Payment History' button in your dashboard."
	assert.Equal(t, want, got)
}

func TestRespondPaymentProcessPluralisesShops(t *testing.T) {
	r := fixedResponder()

	single := r.Respond("make payment", sampleShops()[:1], nil)
	assert.Contains(t, single, "2. Select your shop\n")

	multi := r.Respond("make payment", sampleShops(), nil)
	assert.Contains(t, multi, "2. Select your shop (if you have multiple)\n")
}

func TestRespondGreetingPersonalisation(t *testing.T) {
	r := fixedResponder()

	amina := &tenant.Profile{ID: 7, FullName: "Amina Nakato"}
	assert.True(t, strings.HasPrefix(r.Respond("hello there", nil, amina), "Hello Amina! Welcome"))
	assert.True(t, strings.HasPrefix(r.Respond("hello there", nil, nil), "Hello! Welcome"))
	assert.True(t, strings.HasPrefix(r.Respond("hey", nil, &tenant.Profile{ID: 9}), "Hello! Welcome"))
}

func TestRespondFallbackIgnoresShops(t *testing.T) {
	r := fixedResponder()
	for _, msg := range []string{"xyz", "tell me a joke", "weather tomorrow?"} {
		assert.Equal(t, FallbackReply, r.Respond(msg, nil, nil), msg)
		assert.Equal(t, FallbackReply, r.Respond(msg, sampleShops(), &tenant.Profile{FullName: "Amina"}), msg)
	}
}

func TestRespondIsIdempotent(t *testing.T) {
	r := fixedResponder()
	shops := sampleShops()
	user := &tenant.Profile{ID: 1, FullName: "Amina Nakato"}

	for _, msg := range []string{"balance", "due date", "hi", "how much rent", "???"} {
		first := r.Respond(msg, shops, user)
		second := r.Respond(msg, shops, user)
		require.NotEmpty(t, first)
		assert.Equal(t, first, second, msg)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "UGX 0"},
		{1500000, "UGX 1,500,000"},
		{-20000, "UGX -20,000"},
		{1234.5, "UGX 1,234.5"},
		{0.1 + 0.2, "UGX 0.3"},
		{-0.001, "UGX 0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.amount))
	}
}

func TestWelcome(t *testing.T) {
	assert.Equal(t, "Hello Amina! I'm your HAM Mall Rent Assistant, you can call me HAMRA😊. How can I help you today?",
		Welcome(&tenant.Profile{FullName: "Amina Nakato"}))
	assert.True(t, strings.HasPrefix(Welcome(nil), "Hello! I'm your"))
}

func TestQuickQuestionsRouteToRules(t *testing.T) {
	want := []Intent{PaymentProcess, ShopDetails, Balance, Fallback, PaymentMethods, Support}

	questions := QuickQuestions()
	require.Len(t, questions, len(want))
	for i, q := range questions {
		assert.Equal(t, want[i], Classify(q.Question), q.Question)
	}

	questions[0].Question = "mutated"
	assert.Equal(t, "How do I pay my rent?", QuickQuestions()[0].Question)
}

func TestRulesPreserveOrder(t *testing.T) {
	got := rules
	order := []Intent{ShopDetails, Balance, DueDate, RentAmount, PaymentHistory, PaymentProcess,
		PaymentMethods, ProfileChange, Password, Support, LatePayment, Greeting, Thanks}

	require.Len(t, got, len(order))
	for i, rule := range got {
		assert.Equal(t, order[i], rule.Intent)
		assert.NotEmpty(t, rule.Triggers)
	}
}
