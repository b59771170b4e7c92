package controller

import (
	"strings"

	"project_assistant_backend/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 注册自定义 binding 标签，路由初始化时调用一次
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("skill_level", func(fl validator.FieldLevel) bool {
		return model.SkillLevel(strings.ToLower(fl.Field().String())).Valid()
	})
}
