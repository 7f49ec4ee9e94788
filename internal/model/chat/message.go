package chat

import "time"

// Sender identifies who authored a message in the log.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one immutable entry of a tenant's chat log.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// NextID returns an identifier strictly greater than every id in log.
// Ids follow wall-clock milliseconds when the clock is ahead of the log.
func NextID(log []Message, now time.Time) int64 {
	next := now.UnixMilli()
	if len(log) > 0 {
		if last := log[len(log)-1].ID + 1; last > next {
			next = last
		}
	}
	return next
}
