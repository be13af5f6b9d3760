package service

import (
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usemytime/internal/domain"
)

// finish drives every task of the project to done through the state machine.
func (f *fixture) finish(t *testing.T, owner domain.User, d ProjectDetail) {
	t.Helper()
	for _, task := range d.Tasks {
		_, err := f.svc.StartTimer(f.ctx, owner.ID, d.Project.ID)
		require.NoError(t, err)
		_, err = f.svc.AdvanceTask(f.ctx, owner.ID, task.ID)
		require.NoError(t, err)
		f.clock.Advance(2 * time.Minute)
		_, err = f.svc.AdvanceTask(f.ctx, owner.ID, task.ID)
		require.NoError(t, err)
	}
}

func TestSubmitForReview_Gates(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner, "a")
	id := d.Project.ID

	_, err := f.svc.SubmitForReview(f.ctx, owner.ID, id, "done", nil)
	assert.ErrorIs(t, err, ErrTasksIncomplete)

	f.finish(t, owner, d)

	_, err = f.svc.StartTimer(f.ctx, owner.ID, id)
	require.NoError(t, err)
	_, err = f.svc.SubmitForReview(f.ctx, owner.ID, id, "done", nil)
	assert.ErrorIs(t, err, ErrTimerRunning)
	_, err = f.svc.StopTimer(f.ctx, owner.ID, id)
	require.NoError(t, err)

	_, err = f.svc.SubmitForReview(f.ctx, owner.ID, id, "   ", nil)
	assert.ErrorIs(t, err, ErrSubmitEmpty)

	p, err := f.svc.SubmitForReview(f.ctx, owner.ID, id, "all done", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewPending, p.ReviewStatus)
	assert.Equal(t, "all done", p.SubmitComment)
	require.NotNil(t, p.ReviewSubmittedBy)
	assert.Equal(t, owner.ID, *p.ReviewSubmittedBy)

	_, err = f.svc.SubmitForReview(f.ctx, owner.ID, id, "again", nil)
	assert.ErrorIs(t, err, ErrReviewState)

	// Locked projects refuse timers and uploads.
	_, err = f.svc.StartTimer(f.ctx, owner.ID, id)
	assert.ErrorIs(t, err, ErrProjectLocked)
	_, err = f.svc.UploadAttachment(f.ctx, owner.ID, id, Upload{Name: "late.txt", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrProjectLocked)
}

func TestSubmitForReview_WithFiles(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner)

	_, err := f.svc.SubmitForReview(f.ctx, owner.ID, d.Project.ID, "", []Upload{
		{Name: "result.txt", Body: strings.NewReader("result")},
	})
	require.NoError(t, err)

	detail, err := f.svc.ProjectDetail(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	require.Len(t, detail.Attachments, 1)
	assert.Equal(t, "result.txt", detail.Attachments[0].Name)
	assert.Equal(t, int64(6), detail.Attachments[0].Size)
}

func TestSubmitForReview_ExistingAttachmentCounts(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner)

	_, err := f.svc.UploadAttachment(f.ctx, owner.ID, d.Project.ID, Upload{Name: "spec.txt", Body: strings.NewReader("s")})
	require.NoError(t, err)

	p, err := f.svc.SubmitForReview(f.ctx, owner.ID, d.Project.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewPending, p.ReviewStatus)
}

func TestReviewDecisions(t *testing.T) {
	f := newFixture(t)
	boss := f.user(t, "boss", domain.RoleManager, nil)
	otherBoss := f.user(t, "other", domain.RoleManager, nil)
	director := f.user(t, "dir", domain.RoleDirector, nil)
	sub := f.user(t, "sub", domain.RoleEmployee, &boss)

	d := f.project(t, sub)
	id := d.Project.ID

	_, err := f.svc.ApproveProject(f.ctx, boss.ID, id)
	assert.ErrorIs(t, err, ErrReviewState)

	_, err = f.svc.SubmitForReview(f.ctx, sub.ID, id, "please", nil)
	require.NoError(t, err)

	_, err = f.svc.ApproveProject(f.ctx, sub.ID, id)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.ApproveProject(f.ctx, director.ID, id)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.ApproveProject(f.ctx, otherBoss.ID, id)
	assert.ErrorIs(t, err, ErrNotSubordinate)

	p, err := f.svc.RejectProject(f.ctx, boss.ID, id, " needs tests ")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewRejected, p.ReviewStatus)
	assert.Equal(t, "needs tests", p.ReviewComment)
	require.NotNil(t, p.ReviewedBy)
	assert.Equal(t, boss.ID, *p.ReviewedBy)

	_, err = f.svc.SubmitForReview(f.ctx, sub.ID, id, "fixed", nil)
	require.NoError(t, err)

	p, err = f.svc.ApproveProject(f.ctx, boss.ID, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, p.ReviewStatus)
	assert.True(t, p.Archived)
	require.NotNil(t, p.ReviewedAt)
}

func TestApproveProject_SelfReview(t *testing.T) {
	f := newFixture(t)
	boss := f.user(t, "boss", domain.RoleManager, nil)
	d := f.project(t, boss)

	_, err := f.svc.SubmitForReview(f.ctx, boss.ID, d.Project.ID, "mine", nil)
	require.NoError(t, err)

	_, err = f.svc.ApproveProject(f.ctx, boss.ID, d.Project.ID)
	assert.ErrorIs(t, err, ErrSelfReview)
}

func TestReviewQueueAndCount(t *testing.T) {
	f := newFixture(t)
	boss := f.user(t, "boss", domain.RoleManager, nil)
	director := f.user(t, "dir", domain.RoleDirector, nil)
	sub := f.user(t, "sub", domain.RoleEmployee, &boss)
	f.user(t, "deputy", domain.RoleManager, &director)

	pending := f.project(t, sub)
	f.project(t, sub)
	_, err := f.svc.SubmitForReview(f.ctx, sub.ID, pending.Project.ID, "ok", nil)
	require.NoError(t, err)

	queue, err := f.svc.ReviewQueue(f.ctx, boss.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, pending.Project.ID, queue[0].Project.ID)
	assert.Equal(t, "sub", queue[0].Owner.Username)

	n, err := f.svc.ReviewCount(f.ctx, boss.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.svc.ReviewCount(f.ctx, director.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	queue, err = f.svc.ReviewQueue(f.ctx, sub.ID)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestOpenAttachment_Access(t *testing.T) {
	f := newFixture(t)
	boss := f.user(t, "boss", domain.RoleManager, nil)
	sub := f.user(t, "sub", domain.RoleEmployee, &boss)
	peer := f.user(t, "peer", domain.RoleEmployee, nil)
	director := f.user(t, "dir", domain.RoleDirector, nil)

	root := domain.User{Username: "root", Superuser: true}
	root, err := f.store.CreateUser(f.ctx, root)
	require.NoError(t, err)

	d := f.project(t, sub)
	a, err := f.svc.UploadAttachment(f.ctx, sub.ID, d.Project.ID, Upload{Name: "dir/report.txt", Body: strings.NewReader("report")})
	require.NoError(t, err)
	assert.Equal(t, "report.txt", a.Name)

	for _, viewer := range []domain.User{sub, boss, director, root} {
		got, rc, err := f.svc.OpenAttachment(f.ctx, viewer.ID, d.Project.ID, a.ID)
		require.NoError(t, err, viewer.Username)
		body, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, "report", string(body))
		assert.Equal(t, a.ID, got.ID)
	}

	_, _, err = f.svc.OpenAttachment(f.ctx, peer.ID, d.Project.ID, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	other := f.project(t, sub)
	_, _, err = f.svc.OpenAttachment(f.ctx, sub.ID, other.Project.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadAttachment_InvalidName(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner)

	_, err := f.svc.UploadAttachment(f.ctx, owner.ID, d.Project.ID, Upload{Name: "", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitForReview_RollbackRemovesSavedFiles(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner)

	_, err := f.svc.SubmitForReview(f.ctx, owner.ID, d.Project.ID, "done", []Upload{
		{Name: "report.txt", Body: strings.NewReader("ok")},
		{Name: "", Body: strings.NewReader("bad")},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	atts, err := f.store.ListAttachments(f.ctx, d.Project.ID)
	require.NoError(t, err)
	assert.Empty(t, atts)

	var files []string
	err = filepath.WalkDir(f.root, func(path string, e fs.DirEntry, err error) error {
		if err == nil && e.Type().IsRegular() {
			files = append(files, path)
		}
		return err
	})
	require.NoError(t, err)
	assert.Empty(t, files)

	p, err := f.store.GetProject(f.ctx, d.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewNone, p.ReviewStatus)
}
