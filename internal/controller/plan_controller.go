package controller

import (
	"fmt"

	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/planner"
	"project_assistant_backend/internal/service"
	"project_assistant_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	PlanService *service.PlanService
	Storage     *service.StorageService
}

func NewPlanController(planService *service.PlanService, storage *service.StorageService) *PlanController {
	return &PlanController{PlanService: planService, Storage: storage}
}

// PlanRequest 数值字段不做范围校验，越界值在 planner.NewProjectContext 中收敛。
// hours_per_week 缺省为 10，显式传 0 时保留。
// title 去掉首尾空白后不能为空。
// swagger:model PlanRequest
type PlanRequest struct {
	Title        string           `json:"title" binding:"required,max=200"`
	Description  string           `json:"description"`
	Weeks        int              `json:"weeks"`
	TeamSize     int              `json:"team_size"`
	SkillLevel   model.SkillLevel `json:"skill_level" binding:"omitempty,skill_level"`
	HoursPerWeek *int             `json:"hours_per_week"`
}

const errEmptyTitle = "project title is required"

func (r PlanRequest) context() planner.ProjectContext {
	hours := planner.DefaultHoursPerWeek
	if r.HoursPerWeek != nil {
		hours = *r.HoursPerWeek
	}
	return planner.NewProjectContext(r.Title, r.Description, r.Weeks, r.TeamSize, hours, r.SkillLevel)
}

// GeneratePlan godoc
// @Summary 生成项目周计划
// @Description 依次尝试规划服务、大模型和本地算法，source 字段标明实际来源
// @Tags 项目计划
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body PlanRequest true "项目信息"
// @Success 200 {object} util.Response{data=service.PlanResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/plan [post]
func (c *PlanController) GeneratePlan(ctx *gin.Context) {
	var req PlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pc := req.context()
	if pc.Title == "" {
		util.BadRequest(ctx, errEmptyTitle)
		return
	}

	result, err := c.PlanService.Build(ctx.Request.Context(), pc)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// DownloadPlan godoc
// @Summary 下载项目计划
// @Description 返回纯文本附件，同时保存一份到文件存储
// @Tags 项目计划
// @Accept  json
// @Produce  plain
// @Security ApiKeyAuth
// @Param   body body PlanRequest true "项目信息"
// @Success 200 {string} string "计划文本"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/plan/download [post]
func (c *PlanController) DownloadPlan(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pc := req.context()
	if pc.Title == "" {
		util.BadRequest(ctx, errEmptyTitle)
		return
	}

	result, err := c.PlanService.Build(ctx.Request.Context(), pc)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := planner.PlanFilename(pc.Title)
	c.Storage.SaveArtifact(ctx.Request.Context(), "plans", user.UserID, filename, result.Text, util.MimeText)

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("X-Plan-Source", result.Source)
	ctx.Data(200, util.MimeText, []byte(result.Text))
}
