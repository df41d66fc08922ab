// workers/account_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"reputation-badge-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// profileFromIdentity matches the JSON the identity service returns for one
// changed account.
type profileFromIdentity struct {
	ExternalID string     `json:"external_id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

type profileChangesResponse struct {
	Users []profileFromIdentity `json:"users"`
}

// AccountSyncWorker polls the identity service for changed accounts and
// mirrors them into account_mirrors. The reputation tables key on the opaque
// external id; the mirror only supplies display data.
type AccountSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewAccountSyncWorker(db *gorm.DB, identityBaseURL, endpointPath, serviceToken string) *AccountSyncWorker {
	return &AccountSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      identityBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *AccountSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Account Sync Worker (identity service → account_mirrors)…")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	lastSync := time.Time{}
	for {
		select {
		case <-ctx.Done():
			log.Println("Account Sync Worker stopped")
			return
		case <-ticker.C:
			since := lastSync
			lastSync = time.Now().UTC()
			if err := w.syncOnce(ctx, since); err != nil {
				log.Printf("[AccountSync] sync failed: %v", err)
				lastSync = since // retry the same window next tick
			}
		}
	}
}

func (w *AccountSyncWorker) syncOnce(ctx context.Context, since time.Time) error {
	profiles, err := w.fetchChangedProfiles(ctx, since)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}

	for _, p := range profiles {
		if p.DeletedAt != nil {
			if err := w.db.Where("account = ?", p.ExternalID).Delete(&models.AccountMirror{}).Error; err != nil {
				return fmt.Errorf("failed to delete mirror for %s: %w", p.ExternalID, err)
			}
			continue
		}
		mirror := models.AccountMirror{
			ID:        uuid.NewString(),
			Account:   p.ExternalID,
			Username:  p.Username,
			Email:     p.Email,
			AvatarURL: p.AvatarURL,
		}
		err := w.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "avatar_url", "updated_at"}),
		}).Create(&mirror).Error
		if err != nil {
			return fmt.Errorf("failed to upsert mirror for %s: %w", p.ExternalID, err)
		}
	}

	log.Printf("[AccountSync] synced %d changed accounts", len(profiles))
	return nil
}

func (w *AccountSyncWorker) fetchChangedProfiles(ctx context.Context, since time.Time) ([]profileFromIdentity, error) {
	u, err := url.Parse(w.baseURL + w.endpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse identity service URL: %w", err)
	}
	q := u.Query()
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned %d: %s", resp.StatusCode, string(body))
	}

	var out profileChangesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	return out.Users, nil
}
