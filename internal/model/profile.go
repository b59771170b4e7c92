package model

type SkillLevel string

const (
	Beginner     SkillLevel = "beginner"
	Intermediate SkillLevel = "intermediate"
	Advanced     SkillLevel = "advanced"
)

func (l SkillLevel) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// StudentProfile 每个用户一份
// swagger:model StudentProfile
type StudentProfile struct {
	BaseModel
	UserID          uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	CollegeName     string     `gorm:"size:200" json:"college_name"`
	Branch          string     `gorm:"size:100" json:"branch"`
	Semester        string     `gorm:"size:20" json:"semester"`
	SkillLevel      SkillLevel `gorm:"size:20;default:'beginner'" json:"skill_level"`
	CurrentProjects string     `gorm:"type:text" json:"current_projects"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
