package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin  = Caller{UserID: 1, Role: model.RoleAdmin}
	member = Caller{UserID: 2, Role: model.RoleUser}
)

// spyStore 记录调用次数，可注入错误
type spyStore struct {
	CourseStore
	calls int
	err   error
}

func (s *spyStore) Create(ctx context.Context, c *model.Course) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return s.CourseStore.Create(ctx, c)
}

func (s *spyStore) FindAll(ctx context.Context) ([]model.Course, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.CourseStore.FindAll(ctx)
}

func (s *spyStore) FindByID(ctx context.Context, id string) (*model.Course, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.CourseStore.FindByID(ctx, id)
}

func (s *spyStore) Update(ctx context.Context, c *model.Course) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return s.CourseStore.Update(ctx, c)
}

func (s *spyStore) Delete(ctx context.Context, id string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return s.CourseStore.Delete(ctx, id)
}

func newCourseService(t *testing.T) (*CourseService, *spyStore) {
	spy := &spyStore{CourseStore: repository.NewCourseRepository(testutil.NewDB(t))}
	return NewCourseService(spy), spy
}

func draftOf(title string) CourseDraft {
	c := testutil.SampleCourse(title)
	return CourseDraft{
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Difficulty:  c.Difficulty,
		Sections:    c.Sections,
	}
}

func TestCourseServiceCreate(t *testing.T) {
	svc, _ := newCourseService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, draftOf("Go"), admin)
	require.NoError(t, err)
	second, err := svc.Create(ctx, draftOf("Go"), admin)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, admin.UserID, first.CreatedBy)
	assert.False(t, first.CreatedAt.IsZero())

	stored, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Title, stored.Title)
	assert.Equal(t, []model.Section(first.Sections), []model.Section(stored.Sections))
}

func TestCourseServiceCreateRequiresAdmin(t *testing.T) {
	svc, spy := newCourseService(t)

	_, err := svc.Create(context.Background(), draftOf("Go"), member)
	assert.ErrorIs(t, err, util.ErrForbidden)
	assert.Zero(t, spy.calls)

	_, err = svc.Create(context.Background(), draftOf("Go"), Caller{})
	assert.ErrorIs(t, err, util.ErrForbidden)
	assert.Zero(t, spy.calls)
}

func TestCourseServiceCreateRequiresTitle(t *testing.T) {
	svc, spy := newCourseService(t)

	_, err := svc.Create(context.Background(), draftOf("   "), admin)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.EqualError(t, err, "invalid input: Title is required")
	assert.Zero(t, spy.calls)
}

func TestCourseServiceCreateNormalizesSections(t *testing.T) {
	svc, _ := newCourseService(t)

	draft := CourseDraft{
		Title:    "Empty",
		Sections: []model.Section{{Title: "Only"}},
	}
	course, err := svc.Create(context.Background(), draft, admin)
	require.NoError(t, err)
	require.Len(t, course.Sections, 1)
	assert.NotNil(t, course.Sections[0].Lessons)

	bare, err := svc.Create(context.Background(), CourseDraft{Title: "Bare"}, admin)
	require.NoError(t, err)
	assert.NotNil(t, bare.Sections)
	assert.Equal(t, 0, bare.TotalLessons())
}

func TestCourseServiceGetByID(t *testing.T) {
	svc, spy := newCourseService(t)

	_, err := svc.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Zero(t, spy.calls)

	_, err = svc.GetByID(context.Background(), model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCourseServiceSearch(t *testing.T) {
	svc, _ := newCourseService(t)
	ctx := context.Background()

	for _, title := range []string{"React", "Redux", "SQL"} {
		_, err := svc.Create(ctx, draftOf(title), admin)
		require.NoError(t, err)
	}

	upper, err := svc.Search(ctx, "REACT")
	require.NoError(t, err)
	lower, err := svc.Search(ctx, "react")
	require.NoError(t, err)
	require.Len(t, upper, 1)
	assert.Equal(t, upper[0].ID, lower[0].ID)

	all, err := svc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCourseServiceUpdateShallowMerge(t *testing.T) {
	svc, _ := newCourseService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, draftOf("Go"), admin)
	require.NoError(t, err)

	title := "Go in depth"
	sections := []model.Section{{Title: "Only section", Lessons: []model.Lesson{{Title: "One"}}}}
	updated, err := svc.Update(ctx, course.ID, CoursePatch{Title: &title, Sections: &sections}, admin)
	require.NoError(t, err)

	assert.Equal(t, "Go in depth", updated.Title)
	assert.Equal(t, course.Description, updated.Description)
	assert.Equal(t, course.Category, updated.Category)
	assert.Equal(t, course.CreatedBy, updated.CreatedBy)
	assert.Equal(t, 1, updated.TotalLessons())

	stored, err := svc.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go in depth", stored.Title)
	assert.Equal(t, course.Description, stored.Description)
	require.Len(t, stored.Sections, 1)
	assert.Equal(t, "One", stored.Sections[0].Lessons[0].Title)
}

func TestCourseServiceUpdateErrors(t *testing.T) {
	svc, spy := newCourseService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, draftOf("Go"), admin)
	require.NoError(t, err)
	spy.calls = 0

	title := "New"
	_, err = svc.Update(ctx, course.ID, CoursePatch{Title: &title}, member)
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = svc.Update(ctx, "bad", CoursePatch{Title: &title}, admin)
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	empty := ""
	_, err = svc.Update(ctx, course.ID, CoursePatch{Title: &empty}, admin)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Zero(t, spy.calls)

	_, err = svc.Update(ctx, model.GenerateUUID(), CoursePatch{Title: &title}, admin)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCourseServiceDelete(t *testing.T) {
	svc, _ := newCourseService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, draftOf("Go"), admin)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, course.ID, member), util.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, course.ID, admin))

	_, err = svc.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, course.ID, admin), util.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "bad", admin), util.ErrInvalidInput)
}

func TestCourseServiceBulkDelete(t *testing.T) {
	svc, spy := newCourseService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, draftOf("A"), admin)
	require.NoError(t, err)
	b, err := svc.Create(ctx, draftOf("B"), admin)
	require.NoError(t, err)
	c, err := svc.Create(ctx, draftOf("C"), admin)
	require.NoError(t, err)
	spy.calls = 0

	// 任一 ID 格式错误则不删除任何课程
	_, err = svc.BulkDelete(ctx, []string{a.ID, "bad"}, admin)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Zero(t, spy.calls)

	_, err = svc.BulkDelete(ctx, []string{a.ID}, member)
	assert.ErrorIs(t, err, util.ErrForbidden)

	missing := model.GenerateUUID()
	deleted, err := svc.BulkDelete(ctx, []string{a.ID, missing, c.ID}, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID}, deleted)

	rest, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, b.ID, rest[0].ID)
}

func TestCourseServiceStoreFailure(t *testing.T) {
	svc, spy := newCourseService(t)
	spy.err = errors.New("connection refused")

	_, err := svc.GetAll(context.Background())
	assert.ErrorIs(t, err, util.ErrStore)

	_, err = svc.Create(context.Background(), draftOf("Go"), admin)
	assert.ErrorIs(t, err, util.ErrStore)
}
