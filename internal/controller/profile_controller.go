package controller

import (
	"errors"

	"project_assistant_backend/internal/service"
	"project_assistant_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// SaveProfile godoc
// @Summary 保存学生档案
// @Description 新建或更新；首次创建时按技能等级分配三道初始练习
// @Tags 档案
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProfileInput true "档案信息"
// @Success 200 {object} util.Response{data=model.StudentProfile} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/profile [post]
func (c *ProfileController) SaveProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.Save(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// GetProfile godoc
// @Summary 获取学生档案
// @Tags 档案
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.StudentProfile} "成功"
// @Failure 404 {object} util.Response "档案不存在"
// @Router /api/profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.ProfileService.Get(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrProfileNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, profile)
}
