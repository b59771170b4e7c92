package controller

import (
	"project_assistant_backend/internal/service"
	"project_assistant_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProjectController struct {
	ProjectService *service.ProjectService
}

func NewProjectController(projectService *service.ProjectService) *ProjectController {
	return &ProjectController{ProjectService: projectService}
}

// AddProject godoc
// @Summary 记录项目
// @Tags 项目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProjectInput true "项目信息"
// @Success 201 {object} util.Response{data=model.ProjectHistory} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/projects [post]
func (c *ProjectController) AddProject(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProjectInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	project, err := c.ProjectService.Add(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, project)
}

// ListProjects godoc
// @Summary 项目记录
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ProjectHistory} "成功"
// @Router /api/projects [get]
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	projects, err := c.ProjectService.List(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"projects": projects})
}

// Checklist godoc
// @Summary 项目完成度检查
// @Description 出错时返回全部未完成、分数 0
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ChecklistResult} "成功"
// @Router /api/projects/checklist [get]
func (c *ProjectController) Checklist(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, c.ProjectService.Checklist(user.UserID))
}
