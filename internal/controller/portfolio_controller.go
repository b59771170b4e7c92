package controller

import (
	"errors"

	"project_assistant_backend/internal/service"
	"project_assistant_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PortfolioController struct {
	PortfolioService *service.PortfolioService
}

func NewPortfolioController(portfolioService *service.PortfolioService) *PortfolioController {
	return &PortfolioController{PortfolioService: portfolioService}
}

// GeneratePortfolio godoc
// @Summary 生成作品集页面
// @Description 保存输入数据并上传生成的 HTML
// @Tags 作品集
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.PortfolioInput true "作品集信息"
// @Success 200 {object} util.Response{data=service.PortfolioResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/portfolio [post]
func (c *PortfolioController) GeneratePortfolio(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PortfolioInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PortfolioService.Generate(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetPortfolio godoc
// @Summary 获取作品集数据
// @Tags 作品集
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.PortfolioInput} "成功"
// @Failure 404 {object} util.Response "尚未生成"
// @Router /api/portfolio [get]
func (c *PortfolioController) GetPortfolio(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	data, err := c.PortfolioService.Get(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPortfolioNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, data)
}
