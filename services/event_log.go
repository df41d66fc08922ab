package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"reputation-badge-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventSink receives one record per signal the engine emits. Record is always
// called inside the transaction of the mutation it describes, so a failed
// action leaves no audit rows behind. Tests swap in a capturing sink.
type EventSink interface {
	Record(tx *gorm.DB, event *models.RewardEvent) error
}

// EventService is the production sink: it appends RewardEvent rows and serves
// the per-user SSE stream over them.
type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

func (s *EventService) Record(tx *gorm.DB, event *models.RewardEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return tx.Create(event).Error
}

// RecentEvents returns the newest events for an account, newest first.
func (s *EventService) RecentEvents(account string, limit int) ([]models.RewardEvent, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var events []models.RewardEvent
	err := s.DB.Where("account = ?", account).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// StreamUserEventsSSE streams new reward events for the authenticated user as
// server-sent events, polling the audit table every couple of seconds.
func (s *EventService) StreamUserEventsSSE(c *fiber.Ctx) error {
	account := c.Locals("user_id").(string)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		// Cursor starts at the user's latest event so only new ones stream.
		var lastSeen time.Time
		var latest models.RewardEvent
		if err := s.DB.
			Where("account = ?", account).
			Order("created_at DESC").
			First(&latest).Error; err == nil {
			lastSeen = latest.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for %s: %v", account, err)
		}

		// Initial keepalive comment
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var fresh []models.RewardEvent
				err := s.DB.
					Where("account = ? AND created_at > ?", account, lastSeen).
					Order("created_at ASC").
					Find(&fresh).Error
				if err != nil {
					log.Printf("SSE query error for %s: %v", account, err)
					continue
				}
				if len(fresh) == 0 {
					continue
				}
				lastSeen = fresh[len(fresh)-1].CreatedAt

				for _, ev := range fresh {
					payload, _ := json.Marshal(ev)
					fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, payload)
				}
				if err := w.Flush(); err != nil {
					// client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
