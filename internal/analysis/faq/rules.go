package faq

import (
	"fmt"
	"strings"
	"time"

	"github.com/hammall/hamra/backend/internal/model/shop"
	"github.com/hammall/hamra/backend/internal/model/tenant"
)

// Intent names the topic a message was classified as.
type Intent string

const (
	ShopDetails    Intent = "shop_details"
	Balance        Intent = "balance"
	DueDate        Intent = "due_date"
	RentAmount     Intent = "rent_amount"
	PaymentHistory Intent = "payment_history"
	PaymentProcess Intent = "payment_process"
	PaymentMethods Intent = "payment_methods"
	ProfileChange  Intent = "profile_change"
	Password       Intent = "password"
	Support        Intent = "support"
	LatePayment    Intent = "late_payment"
	Greeting       Intent = "greeting"
	Thanks         Intent = "thanks"
	Fallback       Intent = "fallback"
)

const (
	NoShopsDetailsReply = "You don't have any shops assigned to you yet. Please contact the admin at admin@hammall.com or call 0700 123 456."
	NoShopsReply        = "You don't have any shops assigned yet. Please contact admin."
)

// request carries everything a reply generator may read.
type request struct {
	shops []shop.Snapshot
	user  *tenant.Profile
	now   time.Time
	loc   *time.Location
}

// intentRule pairs trigger substrings with a reply generator. A rule matches
// when any trigger occurs in the lower-cased message, unless match overrides
// that.
type intentRule struct {
	Intent   Intent
	Triggers []string
	match    func(normalized string) bool
	reply    func(req request) string
}

func (r intentRule) matches(normalized string) bool {
	if r.match != nil {
		return r.match(normalized)
	}
	return containsAny(normalized, r.Triggers)
}

// rules is evaluated top to bottom and the first match wins. Triggers overlap
// across rules ("pay", "due", "admin"), so reordering changes replies.
var rules = []intentRule{
	{
		Intent:   ShopDetails,
		Triggers: []string{"shop detail", "my shop", "view shop"},
		reply:    replyShopDetails,
	},
	{
		Intent:   Balance,
		Triggers: []string{"balance", "how much do i owe", "outstanding"},
		reply:    replyBalance,
	},
	{
		Intent:   DueDate,
		Triggers: []string{"due date", "when is rent due", "payment deadline"},
		reply:    replyDueDates,
	},
	{
		// "how much" together with "rent" or "pay".
		Intent:   RentAmount,
		Triggers: []string{"how much", "rent", "pay"},
		match: func(normalized string) bool {
			return strings.Contains(normalized, "how much") &&
				containsAny(normalized, []string{"rent", "pay"})
		},
		reply: replyRentAmount,
	},
	{
		Intent:   PaymentHistory,
		Triggers: []string{"payment history", "past payment", "total paid"},
		reply:    replyPaymentHistory,
	},
	{
		Intent:   PaymentProcess,
		Triggers: []string{"pay rent", "make payment", "how do i pay"},
		reply:    replyPaymentProcess,
	},
	{
		Intent:   PaymentMethods,
		Triggers: []string{"payment method", "how to pay", "mobile money"},
		reply:    fixed(paymentMethodsReply),
	},
	{
		Intent:   ProfileChange,
		Triggers: []string{"change profile", "update information", "edit details"},
		reply:    fixed(profileChangeReply),
	},
	{
		Intent:   Password,
		Triggers: []string{"password", "reset password", "forgot password"},
		reply:    fixed(passwordReply),
	},
	{
		Intent:   Support,
		Triggers: []string{"support", "help", "contact", "admin"},
		reply:    fixed(supportReply),
	},
	{
		Intent:   LatePayment,
		Triggers: []string{"late payment", "missed payment", "overdue"},
		reply:    fixed(latePaymentReply),
	},
	{
		Intent:   Greeting,
		Triggers: []string{"hello", "hi", "hey", "good morning", "good afternoon"},
		reply:    replyGreeting,
	},
	{
		Intent:   Thanks,
		Triggers: []string{"thank", "thanks", "appreciate"},
		reply:    fixed(thanksReply),
	},
}

// Classify returns the intent of the first rule matching message.
func Classify(message string) Intent {
	if rule, ok := firstMatch(normalize(message)); ok {
		return rule.Intent
	}
	return Fallback
}

func firstMatch(normalized string) (intentRule, bool) {
	for _, rule := range rules {
		if rule.matches(normalized) {
			return rule, true
		}
	}
	return intentRule{}, false
}

func normalize(message string) string {
	return strings.ToLower(message)
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func fixed(text string) func(request) string {
	return func(request) string { return text }
}

func replyShopDetails(req request) string {
	if len(req.shops) == 0 {
		return NoShopsDetailsReply
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d %s:\n\n", len(req.shops), plural(len(req.shops), "shop"))
	for i, s := range req.shops {
		fmt.Fprintf(&b, "📍 Shop %s\n", s.ShopNumber)
		fmt.Fprintf(&b, "   • Type: %s\n", s.ShopType)
		fmt.Fprintf(&b, "   • Floor: %d\n", s.FloorNumber)
		fmt.Fprintf(&b, "   • Monthly Rent: %s\n", formatMoney(s.MonthlyRent))
		fmt.Fprintf(&b, "   • Balance: %s\n", formatMoney(s.Balance))
		fmt.Fprintf(&b, "   • Status: %s\n", s.PaymentStatus)
		if i < len(req.shops)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\nWould you like to make a payment or view payment history?")
	return b.String()
}

func replyBalance(req request) string {
	if len(req.shops) == 0 {
		return NoShopsReply
	}

	var b strings.Builder
	b.WriteString("Here's your balance information:\n\n")
	for _, s := range req.shops {
		fmt.Fprintf(&b, "Shop %s: %s", s.ShopNumber, formatMoney(s.Balance))
		switch s.Standing() {
		case shop.Outstanding:
			b.WriteString(" (Outstanding)")
		case shop.PaidUp:
			b.WriteString(" (Paid Up ✓)")
		case shop.Overpaid:
			b.WriteString(" (Overpaid)")
		}
		b.WriteString("\n")
	}

	total := shop.TotalBalance(req.shops)
	fmt.Fprintf(&b, "\nTotal Balance: %s", formatMoney(total))
	if total > 0 {
		b.WriteString("\n\nWould you like to make a payment now?")
	}
	return b.String()
}

func replyDueDates(req request) string {
	if len(req.shops) == 0 {
		return NoShopsReply
	}

	var b strings.Builder
	b.WriteString("Your rent due dates:\n\n")
	for _, s := range req.shops {
		fmt.Fprintf(&b, "Shop %s: ", s.ShopNumber)
		due, ok := s.DueDate(req.loc)
		if !ok {
			b.WriteString("Not set\n")
			continue
		}
		b.WriteString(due.Format(dueDateLayout))
		b.WriteString(dueAnnotation(daysUntil(due, req.now)))
		b.WriteString("\n")
	}
	b.WriteString("\n💡 Tip: Pay a few days early to avoid any last-minute issues!")
	return b.String()
}

func replyRentAmount(req request) string {
	if len(req.shops) == 0 {
		return NoShopsReply
	}

	var b strings.Builder
	b.WriteString("Your monthly rent:\n\n")
	for _, s := range req.shops {
		fmt.Fprintf(&b, "Shop %s: %s/month\n", s.ShopNumber, formatMoney(s.MonthlyRent))
	}
	fmt.Fprintf(&b, "\nTotal Monthly Rent: %s", formatMoney(shop.TotalMonthlyRent(req.shops)))
	return b.String()
}

func replyPaymentHistory(req request) string {
	if len(req.shops) == 0 {
		return NoShopsReply
	}

	var b strings.Builder
	b.WriteString("Your payment summary:\n\n")
	for _, s := range req.shops {
		fmt.Fprintf(&b, "Shop %s:\n", s.ShopNumber)
		fmt.Fprintf(&b, "   • Total Paid: %s\n", formatMoney(s.TotalPaid))
		fmt.Fprintf(&b, "   • Balance: %s\n\n", formatMoney(s.Balance))
	}
	b.WriteString("To view detailed payment history, click the 'Payment History' button in your dashboard.")
	return b.String()
}

func replyPaymentProcess(req request) string {
	multiple := ""
	if len(req.shops) > 1 {
		multiple = " (if you have multiple)"
	}
	return "To pay your rent:\n\n" +
		"1. Click 'Make Payment' from your dashboard\n" +
		"2. Select your shop" + multiple + "\n" +
		"3. Enter payment amount\n" +
		"4. Choose payment method:\n" +
		"   • Mobile Money (MTN, Airtel, Africell)\n" +
		"   • Bank Transfer\n" +
		"   • Cash payment\n" +
		"5. Add reference number (optional)\n" +
		"6. Submit payment\n\n" +
		"You'll receive an instant success or error message! 📱\n\n" +
		"Would you like me to take you to the payment page?"
}

func replyGreeting(req request) string {
	greeting := "Hello!"
	if name := req.user.FirstName(); name != "" {
		greeting = "Hello " + name + "!"
	}
	return greeting + " Welcome to HAM Mall Assistant. I'm here to help you with:\n\n" +
		"• Rent payments\n" +
		"• Shop information\n" +
		"• Account balance\n" +
		"• Due dates\n" +
		"• Payment methods\n" +
		"• Profile changes\n\n" +
		"How can I assist you today?"
}

const paymentMethodsReply = "We accept three payment methods:\n\n" +
	"💳 Mobile Money\n" +
	"   • MTN Mobile Money\n" +
	"   • Airtel Money\n" +
	"   • Africell Money\n\n" +
	"🏦 Bank Transfer\n" +
	"   • Any bank transfer\n" +
	"   • Include your shop number as reference\n\n" +
	"💵 Cash Payment\n" +
	"   • Pay at the mall office\n" +
	"   • Get instant receipt\n\n" +
	"All methods are secure and generate instant receipts!"

const profileChangeReply = "To change your profile information:\n\n" +
	"1. Go to 'Profile' page from dashboard\n" +
	"2. Click 'Request Profile Change'\n" +
	"3. Enter the changes you want\n" +
	"4. Provide a reason\n" +
	"5. Submit request\n\n" +
	"The admin will review and approve within 24-48 hours.\n\n" +
	"Note: You can change your password instantly without approval!"

const passwordReply = "To change your password:\n\n" +
	"1. Go to 'Profile' page\n" +
	"2. Click 'Change Password'\n" +
	"3. Enter current password\n" +
	"4. Enter new password\n" +
	"5. Confirm new password\n" +
	"6. Save changes\n\n" +
	"If you forgot your password:\n" +
	"• Click 'Forgot Password' on login page\n" +
	"• Follow the reset instructions"

const supportReply = "For additional support:\n\n" +
	"📧 Email: admin@hammall.com\n" +
	"📞 Phone: 0700 123 456\n" +
	"📍 Office: Ground Floor, HAM Mall\n" +
	"🕒 Hours: Mon-Fri, 8AM-5PM\n" +
	"          Saturday, 9AM-2PM\n\n" +
	"For urgent issues, visit the mall administration office or call the emergency number."

const latePaymentReply = "If you missed a payment:\n\n" +
	"⚠️ A 5% late fee may apply after grace period\n" +
	"📞 Contact admin immediately: 0700 123 456\n" +
	"💰 Discuss payment plans if needed\n" +
	"⏰ Prolonged non-payment may lead to account suspension\n\n" +
	"💡 Tip: Set up payment reminders on your phone to avoid late fees!"

const thanksReply = "You're welcome! 😊 Is there anything else I can help you with today?"

// FallbackReply is returned when no rule matches.
const FallbackReply = "I'm not sure I understand that question. You can ask me about:\n\n" +
	"• Your shop details\n" +
	"• Current balance\n" +
	"• Due dates\n" +
	"• How to pay rent\n" +
	"• Payment methods\n" +
	"• Payment history\n" +
	"• Profile changes\n" +
	"• Support contact\n\n" +
	"Or contact admin directly at:\n" +
	"📧 admin@hammall.com\n" +
	"📞 0700 123 456"
