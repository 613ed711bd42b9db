package bid

import (
	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/logger"
)

const (
	EventBidNew     = "bids.new"
	EventBidUpdated = "bids.updated"
)

// Notifier доставляет события пользователю. Доставка не гарантируется,
// клиенты всё равно периодически опрашивают API.
type Notifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

type NoopNotifier struct{}

func (NoopNotifier) BroadcastToUser(uuid.UUID, string, any) error { return nil }

// BidEvent: полезная нагрузка событий по заявкам.
type BidEvent struct {
	BidID        uuid.UUID `json:"bidId"`
	ProjectID    uuid.UUID `json:"projectId"`
	FreelancerID uuid.UUID `json:"freelancerId"`
	Status       string    `json:"status"`
}

func newBidEvent(b *entity.Bid) BidEvent {
	return BidEvent{
		BidID:        b.ID,
		ProjectID:    b.ProjectID,
		FreelancerID: b.FreelancerID,
		Status:       string(b.Status),
	}
}

func notify(n Notifier, userID uuid.UUID, event string, b *entity.Bid) {
	if n == nil {
		return
	}
	if err := n.BroadcastToUser(userID, event, newBidEvent(b)); err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": userID,
			"bid_id":  b.ID,
			"event":   event,
			"error":   err.Error(),
		}).Warn("bid: не удалось отправить уведомление")
	}
}
