package controller

import (
	"errors"

	"project_assistant_backend/internal/service"
	"project_assistant_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type VersionControlController struct {
	VersionControlService *service.VersionControlService
}

func NewVersionControlController(vcService *service.VersionControlService) *VersionControlController {
	return &VersionControlController{VersionControlService: vcService}
}

// swagger:model VersionControlRequest
type VersionControlRequest struct {
	Request string `json:"request" binding:"required"`
}

// Help godoc
// @Summary 版本控制命令助手
// @Description 只回答 git/docker 等命令问题，要代码的请求返回 400
// @Tags 版本控制
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body VersionControlRequest true "问题描述"
// @Success 200 {object} util.Response{data=service.VersionControlResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误或请求代码"
// @Router /api/version-control [post]
func (c *VersionControlController) Help(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req VersionControlRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.VersionControlService.Help(ctx.Request.Context(), user.UserID, req.Request)
	if err != nil {
		if errors.Is(err, util.ErrCodeRequestRejected) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// History godoc
// @Summary 版本控制问答记录
// @Tags 版本控制
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "条数，默认 10"
// @Success 200 {object} util.Response{data=[]model.VersionControlHistory} "成功"
// @Router /api/version-control/history [get]
func (c *VersionControlController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := util.ParseLimit(ctx.Query("limit"), defaultHistoryLimit, maxHistoryLimit)
	history, err := c.VersionControlService.History(user.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"history": history})
}
