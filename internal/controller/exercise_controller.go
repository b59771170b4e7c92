package controller

import (
	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/service"
	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExerciseController struct {
	ExerciseService *service.ExerciseService
}

func NewExerciseController(exerciseService *service.ExerciseService) *ExerciseController {
	return &ExerciseController{ExerciseService: exerciseService}
}

// swagger:model ExerciseRequest
type ExerciseRequest struct {
	SkillLevel model.SkillLevel `json:"skill_level" binding:"omitempty,skill_level"`
	Interests  string           `json:"interests"`
}

// Recommend godoc
// @Summary 推荐技能练习
// @Description 模型结果按用户、等级和兴趣缓存 7 天
// @Tags 技能练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ExerciseRequest true "技能等级与兴趣"
// @Success 200 {object} util.Response{data=service.ExercisesResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/exercises [post]
func (c *ExerciseController) Recommend(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, c.ExerciseService.Recommend(ctx.Request.Context(), user.UserID, string(req.SkillLevel), req.Interests))
}

// Assigned godoc
// @Summary 已分配的练习
// @Tags 技能练习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.AssignedExercise} "成功"
// @Router /api/exercises/assigned [get]
func (c *ExerciseController) Assigned(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exercises, err := c.ExerciseService.Assigned(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"exercises": exercises})
}

// Complete godoc
// @Summary 标记练习完成
// @Description 不存在的练习类型同样返回成功
// @Tags 技能练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   type path string true "练习类型"
// @Success 200 {object} util.Response "成功"
// @Router /api/exercises/{type}/complete [post]
func (c *ExerciseController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exerciseType := ctx.Param("type")
	updated, err := c.ExerciseService.Complete(user.UserID, exerciseType)
	if err != nil {
		logger.Log.Warn("failed to complete exercise",
			zap.Uint("user_id", user.UserID),
			zap.String("exercise_type", exerciseType),
			zap.Error(err))
	}

	message := "Exercise completed successfully"
	if !updated {
		message = "Exercise completion noted"
	}
	util.Success(ctx, gin.H{"message": message, "updated": updated})
}

// swagger:model SkillPlanRequest
type SkillPlanRequest struct {
	Skill        string           `json:"skill" binding:"required"`
	Level        model.SkillLevel `json:"level" binding:"omitempty,skill_level"`
	HoursPerWeek int              `json:"hours_per_week" binding:"omitempty,min=0,max=40"`
}

// SkillPlan godoc
// @Summary 四周技能提升计划
// @Tags 技能练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SkillPlanRequest true "目标技能"
// @Success 200 {object} util.Response{data=service.SkillPlanResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/skill-plan [post]
func (c *ExerciseController) SkillPlan(ctx *gin.Context) {
	var req SkillPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	level := req.Level
	if level == "" {
		level = model.Beginner
	}

	util.Success(ctx, c.ExerciseService.SkillPlan(ctx.Request.Context(), req.Skill, level, req.HoursPerWeek))
}
