package services

import (
	"errors"
	"testing"

	"github.com/stikovich/advent.calendar/models"
)

// seedTask inserts a published task on day 11, which is "today" for the
// test season (start is 10 days back).
func seedTask(t *testing.T, tasks *TaskService, task models.Task) models.Task {
	t.Helper()
	if task.Day == 0 {
		task.Day = 11
	}
	if task.Title == "" {
		task.Title = "Test Door"
	}
	if task.ResponseType == "" {
		task.ResponseType = models.ResponseTypeText
	}
	if task.CreditBucket == "" {
		task.CreditBucket = models.CreditBucketFree
	}
	if err := tasks.DB.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func TestSubmitAndDuplicate(t *testing.T) {
	_, _, _, tasks, _, _, subs := newTestStack(t)
	seedTask(t, tasks, models.Task{IsPublished: true, PointsFree: 30, PointsGlobal: 5})

	sub, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "my answer"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != models.SubmissionPending {
		t.Errorf("status = %s, want pending", sub.Status)
	}

	// Second submit for the same door hits the unique index.
	_, err = subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "again"})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second Submit err = %v, want ErrAlreadySubmitted", err)
	}

	// A different user on the same day is fine.
	if _, err := subs.Submit(SubmitInput{UserID: "user-2", Day: 11, TextResponse: "hello"}); err != nil {
		t.Fatalf("Submit for second user: %v", err)
	}
}

func TestSubmitValidations(t *testing.T) {
	_, _, _, tasks, _, _, subs := newTestStack(t)
	seedTask(t, tasks, models.Task{Day: 10, IsPublished: true, ResponseType: models.ResponseTypeText})
	seedTask(t, tasks, models.Task{Day: 9, IsPublished: true, ResponseType: models.ResponseTypeFile})
	seedTask(t, tasks, models.Task{Day: 8, IsPublished: false, ResponseType: models.ResponseTypeText})

	cases := []struct {
		name string
		in   SubmitInput
		want error
	}{
		{"blank text", SubmitInput{UserID: "u", Day: 10, TextResponse: "   "}, ErrEmptyResponse},
		{"missing file", SubmitInput{UserID: "u", Day: 9}, ErrMissingFile},
		{"unpublished task", SubmitInput{UserID: "u", Day: 8, TextResponse: "x"}, ErrTaskNotPublished},
		{"future door", SubmitInput{UserID: "u", Day: 21, TextResponse: "x"}, ErrDayClosed},
		{"day out of range", SubmitInput{UserID: "u", Day: 99, TextResponse: "x"}, ErrDayClosed},
		{"no task for open day", SubmitInput{UserID: "u", Day: 7, TextResponse: "x"}, ErrTaskNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := subs.Submit(tc.in); !errors.Is(err, tc.want) {
				t.Errorf("Submit err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSubmitDropsMismatchedPayload(t *testing.T) {
	_, _, _, tasks, _, _, subs := newTestStack(t)
	seedTask(t, tasks, models.Task{IsPublished: true, ResponseType: models.ResponseTypeText})

	// A stray file reference on a text task must not be recorded.
	sub, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "answer", FileURL: "/uploads/whatever.png"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.FileURL != "" {
		t.Errorf("FileURL = %q, want empty on a text task", sub.FileURL)
	}
}

func TestApproveCreditsOnce(t *testing.T) {
	_, _, _, tasks, points, _, subs := newTestStack(t)
	seedTask(t, tasks, models.Task{IsPublished: true, PointsFree: 30, PointsGlobal: 5})

	sub, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "answer"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	approved, err := subs.Approve(sub.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.SubmissionApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}
	if approved.ReviewedAt == nil {
		t.Error("ReviewedAt not set")
	}

	pts, err := points.GetPoints("user-1")
	if err != nil {
		t.Fatalf("GetPoints: %v", err)
	}
	if pts.FreePoints != 30 || pts.PaidPoints != 0 {
		t.Errorf("balances = %d/%d, want 30/0", pts.FreePoints, pts.PaidPoints)
	}
	global, err := points.GetGlobal()
	if err != nil {
		t.Fatalf("GetGlobal: %v", err)
	}
	if global != 5 {
		t.Errorf("global = %d, want 5", global)
	}

	opened, err := subs.OpenedDays("user-1")
	if err != nil {
		t.Fatalf("OpenedDays: %v", err)
	}
	if len(opened) != 1 || opened[0] != 11 {
		t.Errorf("opened days = %v, want [11]", opened)
	}

	// Second approve is refused and credits nothing.
	if _, err := subs.Approve(sub.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second Approve err = %v, want ErrAlreadyProcessed", err)
	}
	pts, _ = points.GetPoints("user-1")
	if pts.FreePoints != 30 {
		t.Errorf("free after double approve = %d, want 30", pts.FreePoints)
	}
	global, _ = points.GetGlobal()
	if global != 5 {
		t.Errorf("global after double approve = %d, want 5", global)
	}
}

func TestApproveRoutesPaidBucket(t *testing.T) {
	_, _, _, tasks, points, _, subs := newTestStack(t)
	seedTask(t, tasks, models.Task{IsPublished: true, PointsFree: 100, PointsGlobal: 5, CreditBucket: models.CreditBucketPaid})

	sub, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "receipt text"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := subs.Approve(sub.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	pts, err := points.GetPoints("user-1")
	if err != nil {
		t.Fatalf("GetPoints: %v", err)
	}
	if pts.FreePoints != 0 || pts.PaidPoints != 100 {
		t.Errorf("balances = %d/%d, want 0/100", pts.FreePoints, pts.PaidPoints)
	}
}

func TestApproveGrantsRewards(t *testing.T) {
	_, _, _, tasks, _, rewards, subs := newTestStack(t)
	// One approval pushes the user straight past the first personal threshold.
	seedTask(t, tasks, models.Task{IsPublished: true, PointsFree: 600, PointsGlobal: 5})

	sub, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "answer"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := subs.Approve(sub.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	got := userRewardTypes(t, rewards, "user-1")
	if _, ok := got["xalava"]; !ok {
		t.Fatalf("rewards after approval = %v, want xalava", got)
	}
}

func TestReject(t *testing.T) {
	_, _, _, tasks, points, _, subs := newTestStack(t)
	seedTask(t, tasks, models.Task{IsPublished: true, PointsFree: 30, PointsGlobal: 5})

	sub, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "answer"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	rejected, err := subs.Reject(sub.ID, "wrong screenshot")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != models.SubmissionRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if rejected.ReviewNote != "wrong screenshot" {
		t.Errorf("note = %q", rejected.ReviewNote)
	}

	// Nothing was credited.
	pts, _ := points.GetPoints("user-1")
	if pts.Total() != 0 {
		t.Errorf("total after reject = %d, want 0", pts.Total())
	}

	// Terminal: no approve afterwards, no resubmit either.
	if _, err := subs.Approve(sub.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("Approve after reject err = %v, want ErrAlreadyProcessed", err)
	}
	if _, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "retry"}); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("resubmit after reject err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestReviewUnknownSubmission(t *testing.T) {
	_, _, _, _, _, _, subs := newTestStack(t)

	if _, err := subs.Approve("00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("Approve err = %v, want ErrSubmissionNotFound", err)
	}
	if _, err := subs.Reject("00000000-0000-0000-0000-000000000000", ""); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("Reject err = %v, want ErrSubmissionNotFound", err)
	}
}

func TestListSubmissionsFilters(t *testing.T) {
	db, _, _, tasks, _, _, subs := newTestStack(t)
	seedTask(t, tasks, models.Task{IsPublished: true, PointsFree: 30, PointsGlobal: 5})
	seedTask(t, tasks, models.Task{Day: 10, IsPublished: true, PointsFree: 20, PointsGlobal: 5})

	if err := db.Create(&models.CalendarUser{ID: "local-1", ExternalUserID: "user-1", Username: "alice"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	s1, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 11, TextResponse: "a"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := subs.Submit(SubmitInput{UserID: "user-1", Day: 10, TextResponse: "b"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := subs.Approve(s1.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	pending, err := subs.ListSubmissions(models.SubmissionPending)
	if err != nil {
		t.Fatalf("ListSubmissions(pending): %v", err)
	}
	if len(pending) != 1 || pending[0].Day != 10 {
		t.Fatalf("pending = %+v, want single day-10 row", pending)
	}
	if pending[0].Username != "alice" {
		t.Errorf("username = %q, want alice", pending[0].Username)
	}
	if pending[0].PointsFree != 20 {
		t.Errorf("points_free = %d, want 20", pending[0].PointsFree)
	}

	all, err := subs.ListSubmissions("")
	if err != nil {
		t.Fatalf("ListSubmissions(all): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d rows, want 2", len(all))
	}
}
