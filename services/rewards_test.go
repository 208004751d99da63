package services

import (
	"testing"

	"github.com/stikovich/advent.calendar/models"

	"gorm.io/gorm"
)

func userRewardTypes(t *testing.T, rewards *RewardService, userID string) map[string]models.RewardScope {
	t.Helper()
	rows, err := rewards.ListUserRewards(userID)
	if err != nil {
		t.Fatalf("ListUserRewards: %v", err)
	}
	out := make(map[string]models.RewardScope, len(rows))
	for _, r := range rows {
		out[r.RewardType] = r.Scope
	}
	return out
}

func TestPersonalThresholdGrants(t *testing.T) {
	_, _, _, _, points, rewards, _ := newTestStack(t)

	// 554 points: just below the first threshold.
	if _, err := points.AddPoints("user-1", 554, 0); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if got := userRewardTypes(t, rewards, "user-1"); len(got) != 0 {
		t.Fatalf("rewards below threshold = %v, want none", got)
	}

	// One more point crosses 555.
	if _, err := points.AddPoints("user-1", 1, 0); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	got := userRewardTypes(t, rewards, "user-1")
	if scope, ok := got["xalava"]; !ok || scope != models.RewardScopePersonal {
		t.Fatalf("rewards = %v, want personal xalava", got)
	}
}

func TestBigGrantCrossesSeveralThresholds(t *testing.T) {
	_, _, _, _, points, rewards, _ := newTestStack(t)

	// Free cap is 1015, so use paid too: 1015 + 500 = 1515 crosses 555, 1276 and 1444.
	if _, err := points.AddPoints("user-1", 1015, 500); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	got := userRewardTypes(t, rewards, "user-1")
	for _, want := range []string{"xalava", "small", "merch"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing reward %q, have %v", want, got)
		}
	}
	if _, ok := got["medium"]; ok {
		t.Errorf("medium granted at 1515 points, threshold is 1651")
	}
}

func TestRewardsSurviveRevocation(t *testing.T) {
	_, _, _, _, points, rewards, _ := newTestStack(t)

	if _, err := points.AddPoints("user-1", 600, 0); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if _, err := points.RemovePoints("user-1", 600); err != nil {
		t.Fatalf("RemovePoints: %v", err)
	}

	got := userRewardTypes(t, rewards, "user-1")
	if _, ok := got["xalava"]; !ok {
		t.Fatal("xalava should survive the balance dropping back below its threshold")
	}

	// Climbing back over the threshold must not grant it twice.
	if _, err := points.AddPoints("user-1", 600, 0); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	rows, err := rewards.ListUserRewards("user-1")
	if err != nil {
		t.Fatalf("ListUserRewards: %v", err)
	}
	count := 0
	for _, r := range rows {
		if r.RewardType == "xalava" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("xalava granted %d times, want 1", count)
	}
}

func TestGlobalThresholdGrantsOnNextEvaluation(t *testing.T) {
	db, _, _, _, points, rewards, _ := newTestStack(t)

	// Push the shared counter past the first global threshold.
	if _, err := points.AddGlobalPoints(300); err != nil {
		t.Fatalf("AddGlobalPoints: %v", err)
	}

	// The counter move alone grants nothing; users pick it up when their own
	// evaluation next runs.
	if got := userRewardTypes(t, rewards, "user-1"); len(got) != 0 {
		t.Fatalf("rewards before user evaluation = %v, want none", got)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := rewards.EvaluateAndGrant(tx, "user-1")
		return err
	})
	if err != nil {
		t.Fatalf("EvaluateAndGrant: %v", err)
	}
	got := userRewardTypes(t, rewards, "user-1")
	if scope, ok := got["sale"]; !ok || scope != models.RewardScopeGlobal {
		t.Fatalf("rewards = %v, want global sale", got)
	}
}

func TestSharedTypeGrantedOnceAcrossScopes(t *testing.T) {
	_, _, _, _, points, rewards, _ := newTestStack(t)

	// Personal xalava first (555 personal), then push global past its own
	// xalava threshold (777). The type stays granted once.
	if _, err := points.AddPoints("user-1", 600, 0); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if _, err := points.AddGlobalPoints(800); err != nil {
		t.Fatalf("AddGlobalPoints: %v", err)
	}
	if _, err := points.AddPoints("user-1", 1, 0); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	rows, err := rewards.ListUserRewards("user-1")
	if err != nil {
		t.Fatalf("ListUserRewards: %v", err)
	}
	count := 0
	for _, r := range rows {
		if r.RewardType == "xalava" {
			count++
			if r.Scope != models.RewardScopePersonal {
				t.Errorf("xalava scope = %s, want personal (granted first)", r.Scope)
			}
		}
	}
	if count != 1 {
		t.Errorf("xalava granted %d times, want exactly 1 across scopes", count)
	}
}
