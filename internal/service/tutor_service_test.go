package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	reply string
	err   error
	last  CompletionRequest
	calls int
}

func (f *fakeGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.calls++
	f.last = req
	return f.reply, f.err
}

func newTutor(t *testing.T, gw *fakeGateway) (*TutorService, *CourseService) {
	courses, _ := newCourseService(t)
	return NewTutorService(gw, courses), courses
}

func TestTutorExplain(t *testing.T) {
	gw := &fakeGateway{reply: "A closure captures variables."}
	tutor, _ := newTutor(t, gw)

	out, err := tutor.Explain(context.Background(), "  closures ")
	require.NoError(t, err)
	assert.Equal(t, "A closure captures variables.", out)
	assert.Equal(t, "Explain the concept of: closures", gw.last.Prompt)
	assert.False(t, gw.last.JSON)
}

func TestTutorExplainRequiresConcept(t *testing.T) {
	gw := &fakeGateway{}
	tutor, _ := newTutor(t, gw)

	_, err := tutor.Explain(context.Background(), " ")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Zero(t, gw.calls)
}

func TestTutorGenerateQuiz(t *testing.T) {
	gw := &fakeGateway{reply: `{"questions":[{"question":"Q?","options":["a","b","c","d"],"correctAnswer":"A"}]}`}
	tutor, courses := newTutor(t, gw)

	course, err := courses.Create(context.Background(), draftOf("Go"), admin)
	require.NoError(t, err)

	quiz, err := tutor.GenerateQuiz(context.Background(), course.ID, 0, 1)
	require.NoError(t, err)
	assert.JSONEq(t, gw.reply, string(quiz))
	assert.True(t, gw.last.JSON)
	assert.Contains(t, gw.last.Prompt, "if, for and switch")
}

func TestTutorGenerateQuizFallsBackToTitle(t *testing.T) {
	gw := &fakeGateway{reply: `[]`}
	tutor, courses := newTutor(t, gw)

	draft := CourseDraft{
		Title: "Sparse",
		Sections: []model.Section{{Lessons: []model.Lesson{
			{Title: "Only a title"},
			{},
		}}},
	}
	course, err := courses.Create(context.Background(), draft, admin)
	require.NoError(t, err)

	_, err = tutor.GenerateQuiz(context.Background(), course.ID, 0, 0)
	require.NoError(t, err)
	assert.Contains(t, gw.last.Prompt, "Only a title")

	_, err = tutor.GenerateQuiz(context.Background(), course.ID, 0, 1)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.EqualError(t, err, "invalid input: Lesson content is empty, cannot generate quiz.")
}

func TestTutorGenerateQuizNotFound(t *testing.T) {
	gw := &fakeGateway{reply: `{}`}
	tutor, courses := newTutor(t, gw)

	course, err := courses.Create(context.Background(), draftOf("Go"), admin)
	require.NoError(t, err)

	_, err = tutor.GenerateQuiz(context.Background(), model.GenerateUUID(), 0, 0)
	assert.EqualError(t, err, "not found: Course not found.")

	for _, addr := range [][2]int{{2, 0}, {0, 2}, {-1, 0}, {0, -1}} {
		_, err = tutor.GenerateQuiz(context.Background(), course.ID, addr[0], addr[1])
		assert.EqualError(t, err, "not found: Lesson not found.", fmt.Sprint(addr))
	}

	_, err = tutor.GenerateQuiz(context.Background(), "nope", 0, 0)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Zero(t, gw.calls)
}

func TestTutorGenerateQuizUpstream(t *testing.T) {
	gw := &fakeGateway{reply: "Sure! Here is your quiz:"}
	tutor, courses := newTutor(t, gw)

	course, err := courses.Create(context.Background(), draftOf("Go"), admin)
	require.NoError(t, err)

	_, err = tutor.GenerateQuiz(context.Background(), course.ID, 0, 0)
	assert.ErrorIs(t, err, util.ErrUpstream)

	gw.err = fmt.Errorf("%w: timeout", util.ErrUpstream)
	_, err = tutor.GenerateQuiz(context.Background(), course.ID, 0, 0)
	assert.True(t, errors.Is(err, util.ErrUpstream))
}
