package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/planner"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ToolExercises = "exercises"
	ToolSkillPlan = "skill_plan"

	exerciseCacheTTL = 7 * 24 * time.Hour
	youtubeSearchURL = "https://www.youtube.com/results?search_query="
)

type Exercise struct {
	ExerciseType    FlexString  `json:"exercise_type,omitempty"`
	Title           FlexString  `json:"title"`
	Description     FlexString  `json:"description"`
	LearningOutcome FlexString  `json:"learning_outcome,omitempty"`
	Difficulty      FlexString  `json:"difficulty"`
	EstimatedTime   FlexString  `json:"estimated_time"`
	VideoURL        string      `json:"video_url,omitempty"`
	VideoResources  FlexStrings `json:"video_resources,omitempty"`
	Prerequisites   FlexString  `json:"prerequisites,omitempty"`
	SuccessCriteria FlexString  `json:"success_criteria,omitempty"`
	PracticeTasks   FlexStrings `json:"practice_tasks,omitempty"`
}

type ExercisesResult struct {
	Exercises []Exercise `json:"exercises"`
	Source    string     `json:"source"`
}

// AssignedExercise 已分配给用户的练习
type AssignedExercise struct {
	ExerciseType    string     `json:"exercise_type"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Completed       bool       `json:"completed"`
	DateAssigned    time.Time  `json:"date_assigned"`
	DateCompleted   *time.Time `json:"date_completed,omitempty"`
	VideoURL        string     `json:"video_url"`
	Difficulty      string     `json:"difficulty"`
	EstimatedTime   string     `json:"estimated_time"`
	LearningOutcome string     `json:"learning_outcome"`
}

type SkillPlanResult struct {
	Plan   planner.SkillPlan `json:"plan"`
	Source string            `json:"source"`
}

type ExerciseService struct {
	Repo  *repository.SkillExerciseRepository
	AI    *AIService
	Redis *redis.Client
}

func NewExerciseService(repo *repository.SkillExerciseRepository, ai *AIService, rdb *redis.Client) *ExerciseService {
	return &ExerciseService{Repo: repo, AI: ai, Redis: rdb}
}

type initialExercise struct {
	exerciseType, description, videoURL, difficulty, estimatedTime string
}

var initialExercises = map[model.SkillLevel][]initialExercise{
	model.Beginner: {
		{"form_validation", "Add form validation to login page", "https://youtube.com/form-validation", "Easy", "2 hours"},
		{"error_handling", "Implement proper error messages", "https://youtube.com/error-handling", "Easy", "1 hour"},
		{"responsive_design", "Make the UI responsive for mobile", "https://youtube.com/responsive-design", "Medium", "3 hours"},
	},
	model.Intermediate: {
		{"jwt_auth", "Implement JWT authentication", "https://youtube.com/jwt-auth", "Medium", "4 hours"},
		{"api_integration", "Integrate with external API", "https://youtube.com/api-integration", "Medium", "3 hours"},
		{"database_optimization", "Optimize database queries", "https://youtube.com/database-optimization", "Hard", "5 hours"},
	},
	model.Advanced: {
		{"websockets", "Add real-time features with WebSockets", "https://youtube.com/websockets", "Hard", "6 hours"},
		{"caching", "Implement Redis caching", "https://youtube.com/redis-caching", "Hard", "4 hours"},
		{"testing", "Write unit tests for all endpoints", "https://youtube.com/unit-testing", "Medium", "3 hours"},
	},
}

// AssignInitial 首次保存档案时按等级分配三道练习，未知等级按初学者处理
func (s *ExerciseService) AssignInitial(userID uint, level model.SkillLevel) error {
	list, ok := initialExercises[level]
	if !ok {
		list = initialExercises[model.Beginner]
	}

	exercises := make([]model.SkillExercise, 0, len(list))
	for _, e := range list {
		exercises = append(exercises, model.SkillExercise{
			UserID:        userID,
			ExerciseType:  e.exerciseType,
			Description:   e.description,
			VideoURL:      e.videoURL,
			Difficulty:    e.difficulty,
			EstimatedTime: e.estimatedTime,
		})
	}
	return s.Repo.CreateBatch(exercises)
}

func (s *ExerciseService) Assigned(userID uint) ([]AssignedExercise, error) {
	rows, err := s.Repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	out := make([]AssignedExercise, 0, len(rows))
	for _, r := range rows {
		title, _, _ := strings.Cut(r.Description, ":")
		firstWord := ""
		if fields := strings.Fields(r.Description); len(fields) > 0 {
			firstWord = fields[0]
		}
		out = append(out, AssignedExercise{
			ExerciseType:    r.ExerciseType,
			Title:           title,
			Description:     r.Description,
			Completed:       r.Completed,
			DateAssigned:    r.CreatedAt,
			DateCompleted:   r.DateCompleted,
			VideoURL:        r.VideoURL,
			Difficulty:      firstNonEmpty(r.Difficulty, "Medium"),
			EstimatedTime:   firstNonEmpty(r.EstimatedTime, "2 hours"),
			LearningOutcome: "Practice " + firstWord + " skills",
		})
	}
	return out, nil
}

// Complete 返回是否有练习被标记
func (s *ExerciseService) Complete(userID uint, exerciseType string) (bool, error) {
	n, err := s.Repo.MarkCompleted(userID, exerciseType, time.Now())
	return n > 0, err
}

// Recommend 模型结果按 (用户, 等级, 兴趣) 缓存 7 天
func (s *ExerciseService) Recommend(ctx context.Context, userID uint, level, interests string) ExercisesResult {
	if level == "" {
		level = string(model.Beginner)
	}
	key := exerciseCacheKey(userID, level, interests)

	if cached, ok := s.cached(ctx, key); ok {
		monitoring.RecordGeneration(ToolExercises, util.SourceCache)
		return ExercisesResult{Exercises: cached, Source: util.SourceCache}
	}

	exercises, err := s.fromAI(ctx, level, interests)
	if err == nil && len(exercises) > 0 {
		exercises = withVideoURLs(exercises)
		s.store(ctx, key, exercises)
		monitoring.RecordGeneration(ToolExercises, util.SourceAI)
		return ExercisesResult{Exercises: exercises, Source: util.SourceAI}
	}
	if err != nil && !errors.Is(err, util.ErrAIUnavailable) {
		logger.Log.Warn("AI exercise generation failed, using defaults", zap.Error(err))
	}

	monitoring.RecordGeneration(ToolExercises, util.SourceFallback)
	return ExercisesResult{Exercises: DefaultExercises(level), Source: util.SourceFallback}
}

func (s *ExerciseService) fromAI(ctx context.Context, level, interests string) ([]Exercise, error) {
	content, err := s.AI.Chat(ctx, exercisesPrompt(level, interests), true)
	if err != nil {
		return nil, err
	}
	raw, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var list []Exercise
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Exercises       []Exercise `json:"exercises"`
		Recommendations []Exercise `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.Exercises) > 0 {
		return wrapped.Exercises, nil
	}
	return wrapped.Recommendations, nil
}

func (s *ExerciseService) cached(ctx context.Context, key string) ([]Exercise, bool) {
	if s.Redis == nil {
		return nil, false
	}
	data, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("exercise cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var exercises []Exercise
	if err := json.Unmarshal(data, &exercises); err != nil || len(exercises) == 0 {
		return nil, false
	}
	return exercises, true
}

func (s *ExerciseService) store(ctx context.Context, key string, exercises []Exercise) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(exercises)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, data, exerciseCacheTTL).Err(); err != nil {
		logger.Log.Warn("exercise cache write failed", zap.Error(err))
	}
}

func exerciseCacheKey(userID uint, level, interests string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(interests))))
	return fmt.Sprintf("exercises:%d:%s:%s", userID, level, hex.EncodeToString(sum[:8]))
}

// withVideoURLs 没有视频链接的练习补一个 YouTube 搜索链接
func withVideoURLs(exercises []Exercise) []Exercise {
	for i := range exercises {
		if exercises[i].VideoURL != "" {
			continue
		}
		title := firstNonEmpty(string(exercises[i].Title), string(exercises[i].Description))
		if title == "" {
			continue
		}
		exercises[i].VideoURL = youtubeSearchURL + strings.ReplaceAll(title, " ", "+") + "+tutorial"
	}
	return exercises
}

// DefaultExercises 中级有独立列表，其余等级（包括高级）使用初学者列表
func DefaultExercises(level string) []Exercise {
	if level == string(model.Intermediate) {
		return []Exercise{
			{
				ExerciseType:    "api_development",
				Title:           "API Development",
				Description:     "Build REST APIs with a web framework",
				LearningOutcome: "Create and consume RESTful APIs",
				Difficulty:      "intermediate",
				EstimatedTime:   "4-6 hours",
				VideoURL:        youtubeSearchURL + "rest+api+tutorial",
				Prerequisites:   "Python basics",
				SuccessCriteria: "Build a functional API with endpoints",
			},
			{
				ExerciseType:    "database_design",
				Title:           "Database Design",
				Description:     "Design and implement database schemas",
				LearningOutcome: "Master database modeling and queries",
				Difficulty:      "intermediate",
				EstimatedTime:   "3-5 hours",
				VideoURL:        youtubeSearchURL + "sql+database+design",
				Prerequisites:   "Basic programming knowledge",
				SuccessCriteria: "Design and implement a database schema",
			},
		}
	}

	return []Exercise{
		{
			ExerciseType:    "html_css_basics",
			Title:           "HTML/CSS Fundamentals",
			Description:     "Build a responsive webpage with HTML5 and CSS3",
			LearningOutcome: "Master webpage structure and styling",
			Difficulty:      "beginner",
			EstimatedTime:   "2-3 hours",
			VideoURL:        youtubeSearchURL + "html+css+tutorial+beginners",
			Prerequisites:   "Basic computer knowledge",
			SuccessCriteria: "Create a functional webpage that works on all devices",
		},
		{
			ExerciseType:    "javascript_basics",
			Title:           "JavaScript Basics",
			Description:     "Learn variables, functions, and DOM manipulation",
			LearningOutcome: "Understand JavaScript fundamentals",
			Difficulty:      "beginner",
			EstimatedTime:   "3-4 hours",
			VideoURL:        youtubeSearchURL + "javascript+tutorial+beginners",
			Prerequisites:   "Basic HTML/CSS",
			SuccessCriteria: "Create an interactive web page",
		},
		{
			ExerciseType:    "python_fundamentals",
			Title:           "Python Programming",
			Description:     "Learn Python syntax and basic programming concepts",
			LearningOutcome: "Write basic Python programs",
			Difficulty:      "beginner",
			EstimatedTime:   "4-5 hours",
			VideoURL:        youtubeSearchURL + "python+tutorial+beginners",
			Prerequisites:   "None",
			SuccessCriteria: "Write a simple Python application",
		},
	}
}

// SkillPlan 四周技能提升计划，模型结果不可用时用本地模板
func (s *ExerciseService) SkillPlan(ctx context.Context, skill string, level model.SkillLevel, hoursPerWeek int) SkillPlanResult {
	var plan planner.SkillPlan
	err := s.AI.ChatJSON(ctx, skillPlanPrompt(skill, level, hoursPerWeek), &plan)
	if err == nil && plan.Usable() {
		monitoring.RecordGeneration(ToolSkillPlan, util.SourceAI)
		return SkillPlanResult{Plan: plan, Source: util.SourceAI}
	}
	if err != nil && !errors.Is(err, util.ErrAIUnavailable) {
		logger.Log.Warn("AI skill plan failed, using template", zap.Error(err))
	}

	monitoring.RecordGeneration(ToolSkillPlan, util.SourceLocal)
	return SkillPlanResult{Plan: planner.GenerateSkillPlan(skill, level, hoursPerWeek), Source: util.SourceLocal}
}

func exercisesPrompt(level, interests string) string {
	field := interests
	if field == "" {
		field = "software development"
	}
	return fmt.Sprintf(`Create 5 practical skill enhancement exercises for a %s level %s student.

For each exercise, provide:
1. title: Exercise name
2. description: What to do
3. learning_outcome: What they'll learn
4. difficulty: Easy/Medium/Hard
5. estimated_time: Hours to complete
6. video_resources: Array of YouTube tutorial links
7. practice_tasks: Array of hands-on tasks
8. prerequisites: What they need to know
9. success_criteria: How to know they succeeded

Return {"exercises": [...]}.`, level, field)
}

func skillPlanPrompt(skill string, level model.SkillLevel, hours int) string {
	return fmt.Sprintf(`Create a personalized skill enhancement plan for a %s level student who wants to: "%s"

Available time: %d hours per week

Provide a 4 week plan. Return as JSON with: weekly_plan (objects with week, focus, hours, objectives, exercises, projects), resources (video_tutorials, documentation, practice_platforms), success_criteria, estimated_timeline`, level, skill, hours)
}
