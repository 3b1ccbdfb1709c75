package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TutorController struct {
	TutorService *service.TutorService
}

func NewTutorController(tutorService *service.TutorService) *TutorController {
	return &TutorController{TutorService: tutorService}
}

// swagger:model ExplainRequest
type ExplainRequest struct {
	Concept string `json:"concept"`
}

// Explain godoc
// @Summary 概念讲解
// @Tags AI
// @Accept json
// @Produce json
// @Param body body ExplainRequest true "概念"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /explain [post]
func (c *TutorController) Explain(ctx *gin.Context) {
	var req ExplainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Concept is required")
		return
	}

	explanation, err := c.TutorService.Explain(ctx.Request.Context(), req.Concept)
	if err != nil {
		util.HandleError(ctx, err, "Error fetching explanation from AI.")
		return
	}
	util.Success(ctx, gin.H{"explanation": explanation})
}

// swagger:model QuizRequest
type QuizRequest struct {
	CourseID     string `json:"courseId"`
	SectionIndex *int   `json:"sectionIndex"`
	LessonIndex  *int   `json:"lessonIndex"`
}

// GenerateQuiz godoc
// @Summary 根据课时内容生成测验
// @Description 模型返回的 JSON 原样转发
// @Tags AI
// @Accept json
// @Produce json
// @Param body body QuizRequest true "课时地址"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /generate-quiz [post]
func (c *TutorController) GenerateQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.CourseID == "" || req.SectionIndex == nil || req.LessonIndex == nil {
		util.BadRequest(ctx, "Course ID, section index, and lesson index are required.")
		return
	}

	quiz, err := c.TutorService.GenerateQuiz(ctx.Request.Context(), req.CourseID, *req.SectionIndex, *req.LessonIndex)
	if err != nil {
		util.HandleError(ctx, err, "Error generating quiz from AI.")
		return
	}
	util.Success(ctx, quiz)
}
