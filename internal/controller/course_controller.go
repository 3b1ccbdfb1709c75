package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService  *service.CourseService
	StorageService *service.StorageService
}

func NewCourseController(courseService *service.CourseService, storageService *service.StorageService) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		StorageService: storageService,
	}
}

func caller(ctx *gin.Context) service.Caller {
	return service.CallerFromClaims(util.GetUserFromContext(ctx))
}

// GetCourses godoc
// @Summary 课程列表
// @Description 返回全部课程，不分页
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Failure 500 {object} util.Response
// @Router /courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	courses, err := c.CourseService.GetAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// SearchCourses godoc
// @Summary 搜索课程
// @Description 标题或描述包含关键字，不区分大小写
// @Tags 课程
// @Produce json
// @Param term path string true "关键字"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Failure 500 {object} util.Response
// @Router /courses/search/{term} [get]
func (c *CourseController) SearchCourses(ctx *gin.Context) {
	courses, err := c.CourseService.Search(ctx.Request.Context(), ctx.Param("term"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response "ID 格式错误"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CourseDraft true "课程内容"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var draft service.CourseDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(ctx.Request.Context(), draft, caller(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Description 浅合并，提供的字段整体替换
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param body body service.CoursePatch true "需要更新的字段"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var patch service.CoursePatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), ctx.Param("id"), patch, caller(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.CourseService.Delete(ctx.Request.Context(), id, caller(ctx)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Deleted successfully", gin.H{"id": id})
}

// swagger:model BulkDeleteRequest
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// BulkDeleteCourses godoc
// @Summary 批量删除课程
// @Description 先校验全部 ID，已不存在的跳过，返回实际删除的 ID
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body BulkDeleteRequest true "课程ID列表"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /courses/bulk-delete [post]
func (c *CourseController) BulkDeleteCourses(ctx *gin.Context) {
	var req BulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	deleted, err := c.CourseService.BulkDelete(ctx.Request.Context(), req.IDs, caller(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Deleted successfully", gin.H{"deleted": deleted})
}

// UploadThumbnail godoc
// @Summary 上传课程封面
// @Tags 课程
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /courses/thumbnail [post]
func (c *CourseController) UploadThumbnail(ctx *gin.Context) {
	if !caller(ctx).IsAdmin() {
		util.Forbidden(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.StorageService.UploadThumbnail(ctx.Request.Context(), file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url})
}
