// workers/user_sync_worker.go
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

	"github.com/stikovich/advent.calendar/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredUserFromProfile matches the JSON response from the sync service.
// Only the fields the calendar needs are decoded; the feed carries more.
type MirroredUserFromProfile struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetUserChangesResponse is the top-level structure of the sync service response.
type GetUserChangesResponse struct {
	Users []MirroredUserFromProfile `json:"users"`
}

// CalendarUserSyncWorker mirrors the profile service into calendar_users so
// the admin review queue can show usernames without a cross-service call.
type CalendarUserSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/profiles"
	serviceToken string
	httpClient   *http.Client
}

func NewCalendarUserSyncWorker(db *gorm.DB, syncServiceBaseURL, endpointPath, serviceToken string) *CalendarUserSyncWorker {
	return &CalendarUserSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      syncServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *CalendarUserSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Calendar User Sync Worker (sync-service → calendar_users)…")
	go w.run(ctx)
}

func (w *CalendarUserSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Incremental: resume from the newest update we already hold
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Calendar User Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from the local table.
func (w *CalendarUserSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM calendar_users WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch fetches user changes from the sync service and upserts them.
func (w *CalendarUserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base sync service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}

	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Printf("[SYNC] ❌ Request to %s failed: %v", finalURL, err)
		return fmt.Errorf("HTTP request to sync service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[SYNC] ❌ Sync service returned %d for %s: %s", resp.StatusCode, finalURL, string(body))
		return fmt.Errorf("sync service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetUserChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode sync service response: %w", err)
	}

	if len(response.Users) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d user(s) from sync service…", len(response.Users))

	var upsertCount, errorCount int
	for _, remoteUser := range response.Users {
		localUser := models.CalendarUser{
			ID:             uuid.NewString(),
			ExternalUserID: remoteUser.ExternalID,
			Username:       remoteUser.Username,
			Email:          remoteUser.Email,
			CreatedAt:      remoteUser.CreatedAt,
			UpdatedAt:      remoteUser.UpdatedAt,
		}

		// is_admin is deliberately not synced: admin rights come from gateway
		// roles, never from the profile feed.
		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "email", "updated_at",
			}),
		}).Create(&localUser).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert calendar_user (external_id=%q, username=%q): %v",
				remoteUser.ExternalID, remoteUser.Username, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d user(s) (%d upserted, %d errors)",
		len(response.Users), upsertCount, errorCount)

	return nil
}
