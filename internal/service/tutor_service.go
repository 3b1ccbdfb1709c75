package service

import (
	"context"
	"coursehub_backend/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	explainSystemPrompt = "You are a helpful assistant that explains concepts clearly and concisely."
	quizSystemPrompt    = "You are a helpful assistant that generates quizzes based on provided text."

	quizPromptTemplate = `Generate a multiple-choice quiz with 3-5 questions based on the following content. ` +
		`For each question, provide 4 options (A, B, C, D) and clearly indicate the correct answer. ` +
		`Format the output as a JSON array of objects, where each object has 'question', 'options' (an array of strings), ` +
		`and 'correctAnswer' (the letter A, B, C, or D). Ensure the questions are directly answerable from the provided text. ` +
		`Content: """%s""".`
)

// TutorService 概念讲解和课时测验，模型输出原样转发
type TutorService struct {
	Gateway CompletionGateway
	Courses *CourseService
}

func NewTutorService(gateway CompletionGateway, courses *CourseService) *TutorService {
	return &TutorService{Gateway: gateway, Courses: courses}
}

func (s *TutorService) Explain(ctx context.Context, concept string) (string, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return "", fmt.Errorf("%w: Concept is required", util.ErrInvalidInput)
	}

	return s.Gateway.Complete(ctx, CompletionRequest{
		Operation: "explain",
		System:    explainSystemPrompt,
		Prompt:    "Explain the concept of: " + concept,
	})
}

// GenerateQuiz 按 (sectionIndex, lessonIndex) 定位课时并生成测验
func (s *TutorService) GenerateQuiz(ctx context.Context, courseID string, sectionIndex, lessonIndex int) (json.RawMessage, error) {
	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: Course not found.", util.ErrNotFound)
		}
		return nil, err
	}

	lesson, ok := course.LessonAt(sectionIndex, lessonIndex)
	if !ok {
		return nil, fmt.Errorf("%w: Lesson not found.", util.ErrNotFound)
	}

	content := firstNonEmpty(lesson.Content, lesson.Description, lesson.Title)
	if content == "" {
		return nil, fmt.Errorf("%w: Lesson content is empty, cannot generate quiz.", util.ErrInvalidInput)
	}

	raw, err := s.Gateway.Complete(ctx, CompletionRequest{
		Operation: "quiz",
		System:    quizSystemPrompt,
		Prompt:    fmt.Sprintf(quizPromptTemplate, content),
		JSON:      true,
	})
	if err != nil {
		return nil, err
	}

	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%w: model returned invalid JSON", util.ErrUpstream)
	}
	return json.RawMessage(raw), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
