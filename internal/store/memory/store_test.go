package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

func TestStore_CreateAndGetUser(t *testing.T) {
	st := New()
	ctx := context.Background()

	created, err := st.CreateUser(ctx, domain.User{
		Username: "ivanov",
		Email:    "ivanov@example.com",
		Profile:  domain.Profile{Role: domain.RoleEmployee},
	})
	if err != nil {
		t.Fatalf("CreateUser() err = %v, want nil", err)
	}
	if created.ID <= 0 {
		t.Fatalf("CreateUser() id = %d, want > 0", created.ID)
	}

	got, err := st.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser() err = %v, want nil", err)
	}
	if got.Username != "ivanov" || got.Profile.Role != domain.RoleEmployee {
		t.Fatalf("GetUser() returned unexpected user: %+v", got)
	}
}

func TestStore_CreateUser_DuplicateUsername(t *testing.T) {
	st := New()
	ctx := context.Background()

	_, _ = st.CreateUser(ctx, domain.User{Username: "a"})
	_, err := st.CreateUser(ctx, domain.User{Username: "a"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("CreateUser() err = %v, want %v", err, store.ErrConflict)
	}
}

func TestStore_GetProject_NotFound(t *testing.T) {
	st := New()

	_, err := st.GetProject(context.Background(), 9999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetProject() err = %v, want %v", err, store.ErrNotFound)
	}
}

func TestStore_ListUsers_ByManager(t *testing.T) {
	st := New()
	ctx := context.Background()

	boss, _ := st.CreateUser(ctx, domain.User{Username: "boss"})
	_, _ = st.CreateUser(ctx, domain.User{Username: "a", Profile: domain.Profile{ManagerID: &boss.ID}})
	_, _ = st.CreateUser(ctx, domain.User{Username: "b", Profile: domain.Profile{ManagerID: &boss.ID}})
	_, _ = st.CreateUser(ctx, domain.User{Username: "c"})

	subs, err := st.ListUsers(ctx, store.UserFilter{ManagerID: &boss.ID})
	if err != nil {
		t.Fatalf("ListUsers() err = %v, want nil", err)
	}
	if len(subs) != 2 || subs[0].Username != "a" || subs[1].Username != "b" {
		t.Fatalf("ListUsers() = %+v, want users a and b", subs)
	}

	none, _ := st.ListUsers(ctx, store.UserFilter{IDs: []int64{}})
	if len(none) != 0 {
		t.Fatalf("ListUsers(empty ids) len = %d, want 0", len(none))
	}
}

func TestStore_Atomic_RollsBackOnError(t *testing.T) {
	st := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.Atomic(ctx, func(r store.Repository) error {
		if _, err := r.CreateProject(ctx, domain.Project{Title: "p"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Atomic() err = %v, want %v", err, boom)
	}

	list, _ := st.ListProjects(ctx, store.ProjectFilter{})
	if len(list) != 0 {
		t.Fatalf("ListProjects() len = %d after rollback, want 0", len(list))
	}
}

func TestStore_Atomic_Commits(t *testing.T) {
	st := New()
	ctx := context.Background()

	var projectID int64
	err := st.Atomic(ctx, func(r store.Repository) error {
		p, err := r.CreateProject(ctx, domain.Project{Title: "p", ReviewStatus: domain.ReviewNone})
		if err != nil {
			return err
		}
		projectID = p.ID
		_, err = r.CreateTask(ctx, domain.Task{ProjectID: p.ID, Text: "t", Status: domain.TaskNew})
		return err
	})
	if err != nil {
		t.Fatalf("Atomic() err = %v, want nil", err)
	}

	tasks, _ := st.ListTasks(ctx, store.TaskFilter{ProjectIDs: []int64{projectID}})
	if len(tasks) != 1 {
		t.Fatalf("ListTasks() len = %d, want 1", len(tasks))
	}
}

func TestStore_SaveTimer_UniquePerUserProject(t *testing.T) {
	st := New()
	ctx := context.Background()

	p, _ := st.CreateProject(ctx, domain.Project{Title: "p"})
	first, err := st.SaveTimer(ctx, domain.ProjectTimer{UserID: 1, ProjectID: p.ID})
	if err != nil {
		t.Fatalf("SaveTimer() err = %v, want nil", err)
	}

	_, err = st.SaveTimer(ctx, domain.ProjectTimer{UserID: 1, ProjectID: p.ID})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("SaveTimer() err = %v, want %v", err, store.ErrConflict)
	}

	now := time.Now()
	first.Running = true
	first.LastStartedAt = &now
	if _, err := st.SaveTimer(ctx, first); err != nil {
		t.Fatalf("SaveTimer(update) err = %v, want nil", err)
	}

	running, _ := st.ListTimers(ctx, store.TimerFilter{UserID: 1, Running: store.Bool(true)})
	if len(running) != 1 {
		t.Fatalf("ListTimers(running) len = %d, want 1", len(running))
	}
}

func TestStore_DeleteTask_UnlinksTimerAndEntries(t *testing.T) {
	st := New()
	ctx := context.Background()

	p, _ := st.CreateProject(ctx, domain.Project{Title: "p"})
	task, _ := st.CreateTask(ctx, domain.Task{ProjectID: p.ID, Text: "t"})
	_, _ = st.SaveTimer(ctx, domain.ProjectTimer{UserID: 1, ProjectID: p.ID, CurrentTaskID: &task.ID})
	_, _ = st.CreateTimeEntry(ctx, domain.TimeEntry{UserID: 1, ProjectID: p.ID, TaskID: &task.ID, Seconds: 5})

	if err := st.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask() err = %v, want nil", err)
	}

	timer, _ := st.GetTimer(ctx, 1, p.ID)
	if timer.CurrentTaskID != nil {
		t.Fatalf("timer.CurrentTaskID = %v, want nil", *timer.CurrentTaskID)
	}
	entries, _ := st.ListTimeEntries(ctx, store.TimeEntryFilter{ProjectID: p.ID})
	if len(entries) != 1 || entries[0].TaskID != nil {
		t.Fatalf("entries = %+v, want one entry without task", entries)
	}
}

func TestStore_DeleteProject_Cascades(t *testing.T) {
	st := New()
	ctx := context.Background()

	p, _ := st.CreateProject(ctx, domain.Project{Title: "p"})
	_, _ = st.CreateTask(ctx, domain.Task{ProjectID: p.ID, Text: "t"})
	_, _ = st.SaveTimer(ctx, domain.ProjectTimer{UserID: 1, ProjectID: p.ID})

	if err := st.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject() err = %v, want nil", err)
	}

	tasks, _ := st.ListTasks(ctx, store.TaskFilter{})
	timers, _ := st.ListTimers(ctx, store.TimerFilter{})
	if len(tasks) != 0 || len(timers) != 0 {
		t.Fatalf("after delete tasks=%d timers=%d, want 0 and 0", len(tasks), len(timers))
	}
}

func TestStore_ConcurrentCreate(t *testing.T) {
	st := New()
	ctx := context.Background()

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = st.CreateProject(ctx, domain.Project{Title: "x"})
		}()
	}

	wg.Wait()

	list, err := st.ListProjects(ctx, store.ProjectFilter{})
	if err != nil {
		t.Fatalf("ListProjects() err = %v, want nil", err)
	}
	if len(list) != n {
		t.Fatalf("ListProjects() len = %d, want %d", len(list), n)
	}
}

func TestStore_Closed(t *testing.T) {
	st := New()
	if err := st.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() err = %v", err)
	}
	_ = st.Close()

	if err := st.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Ping() err = %v, want %v", err, ErrClosed)
	}

	err := st.Atomic(context.Background(), func(store.Repository) error { return nil })
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Atomic() err = %v, want %v", err, ErrClosed)
	}
}
