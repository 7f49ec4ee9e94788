package faq

// QuickQuestion is a canned prompt offered by the widget.
type QuickQuestion struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

// QuickQuestionsShown is how many quick questions the widget displays.
const QuickQuestionsShown = 3

var quickQuestions = []QuickQuestion{
	{Question: "How do I pay my rent?", Category: "payment"},
	{Question: "Show me my shop details", Category: "shop"},
	{Question: "What is my current balance?", Category: "payment"},
	{Question: "When is my rent due?", Category: "payment"},
	{Question: "What payment methods are accepted?", Category: "payment"},
	{Question: "Who do I contact for support?", Category: "support"},
}

// QuickQuestions returns a copy of the catalog.
func QuickQuestions() []QuickQuestion {
	return append([]QuickQuestion(nil), quickQuestions...)
}
