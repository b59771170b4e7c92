package controller

import (
	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/service"
	"project_assistant_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AssistantController 项目创意、文档和代码片段等生成类工具
type AssistantController struct {
	IdeaService          *service.IdeaService
	DocumentationService *service.DocumentationService
	CodeSnippetService   *service.CodeSnippetService
}

func NewAssistantController(ideas *service.IdeaService, docs *service.DocumentationService, snippets *service.CodeSnippetService) *AssistantController {
	return &AssistantController{
		IdeaService:          ideas,
		DocumentationService: docs,
		CodeSnippetService:   snippets,
	}
}

// swagger:model IdeasRequest
type IdeasRequest struct {
	Domain     string           `json:"domain" binding:"required,max=50"`
	SkillLevel model.SkillLevel `json:"skill_level" binding:"omitempty,skill_level"`
	Count      int              `json:"count" binding:"omitempty,min=0"`
}

// GenerateIdeas godoc
// @Summary 生成项目创意
// @Description 模型不可用时返回内置的示例项目
// @Tags 生成工具
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body IdeasRequest true "领域与技能等级"
// @Success 200 {object} util.Response{data=service.IdeasResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/ideas [post]
func (c *AssistantController) GenerateIdeas(ctx *gin.Context) {
	var req IdeasRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	level := string(req.SkillLevel)
	if level == "" {
		level = string(model.Beginner)
	}

	util.Success(ctx, c.IdeaService.Generate(ctx.Request.Context(), req.Domain, level, req.Count))
}

// swagger:model DocumentationRequest
type DocumentationRequest struct {
	ProjectDetails string `json:"project_details" binding:"required"`
}

// GenerateDocumentation godoc
// @Summary 生成项目文档
// @Description 生成后同时上传到文件存储
// @Tags 生成工具
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body DocumentationRequest true "项目描述"
// @Success 200 {object} util.Response{data=service.DocumentationResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/documentation [post]
func (c *AssistantController) GenerateDocumentation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req DocumentationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, c.DocumentationService.Generate(ctx.Request.Context(), user.UserID, req.ProjectDetails))
}

// swagger:model CodeSnippetRequest
type CodeSnippetRequest struct {
	Language   string `json:"language" binding:"required,max=30"`
	Prompt     string `json:"prompt" binding:"required"`
	Complexity string `json:"complexity" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// GenerateCodeSnippet godoc
// @Summary 生成代码片段
// @Tags 生成工具
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CodeSnippetRequest true "语言与需求"
// @Success 200 {object} util.Response{data=service.CodeSnippetResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/code-snippet [post]
func (c *AssistantController) GenerateCodeSnippet(ctx *gin.Context) {
	var req CodeSnippetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, c.CodeSnippetService.Generate(ctx.Request.Context(), req.Language, req.Prompt, req.Complexity))
}

// EvaluateProject godoc
// @Summary 项目评估（暂停）
// @Description 功能关闭，返回固定内容
// @Tags 生成工具
// @Produce  json
// @Success 200 {object} util.Response "成功"
// @Router /api/evaluate [post]
func (c *AssistantController) EvaluateProject(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"message": "Project evaluation feature is temporarily disabled",
		"evaluation": gin.H{
			"score":                     0,
			"strengths":                 []string{"Feature disabled"},
			"weaknesses":                []string{"Evaluation not available"},
			"missing_elements":          []string{"N/A"},
			"improvement_suggestions":   []string{"Please check back later"},
			"technical_recommendations": []string{"Feature coming soon"},
			"overall_feedback":          "Project evaluation is currently unavailable.",
			"estimated_timeline":        "N/A",
		},
	})
}
