package service

import (
	"context"
	"testing"

	"project_assistant_backend/internal/model"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseService_AssignAndComplete(t *testing.T) {
	db := newTestDB(t)
	svc := NewExerciseService(repository.NewSkillExerciseRepository(db), disabledAI(), nil)

	require.NoError(t, svc.AssignInitial(1, model.Intermediate))
	require.NoError(t, svc.AssignInitial(2, model.SkillLevel("expert")))

	assigned, err := svc.Assigned(1)
	require.NoError(t, err)
	require.Len(t, assigned, 3)
	assert.Equal(t, "jwt_auth", assigned[0].ExerciseType)
	assert.Equal(t, "Implement JWT authentication", assigned[0].Title)
	assert.Equal(t, "Practice Implement skills", assigned[0].LearningOutcome)
	assert.Equal(t, "Medium", assigned[0].Difficulty)
	assert.False(t, assigned[0].Completed)

	unknown, err := svc.Assigned(2)
	require.NoError(t, err)
	require.Len(t, unknown, 3)
	assert.Equal(t, "form_validation", unknown[0].ExerciseType)

	done, err := svc.Complete(1, "jwt_auth")
	require.NoError(t, err)
	assert.True(t, done)

	again, err := svc.Complete(1, "jwt_auth")
	require.NoError(t, err)
	assert.False(t, again)

	missing, err := svc.Complete(1, "nope")
	require.NoError(t, err)
	assert.False(t, missing)

	assigned, err = svc.Assigned(1)
	require.NoError(t, err)
	assert.True(t, assigned[0].Completed)
	assert.NotNil(t, assigned[0].DateCompleted)
}

func TestExerciseService_Recommend(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewSkillExerciseRepository(db)

	t.Run("ai result is cached", func(t *testing.T) {
		rdb, mr := newTestRedis(t)
		ai, llm := newFakeLLM(t, replyWith(`{"recommendations": [
			{"title": "Build a CLI", "description": "Small tool", "difficulty": "Easy", "estimated_time": 3},
			{"title": "Has video", "description": "x", "video_url": "https://v"}
		]}`))
		svc := NewExerciseService(repo, ai, rdb)

		first := svc.Recommend(context.Background(), 1, "beginner", "Go tools")
		assert.Equal(t, util.SourceAI, first.Source)
		require.Len(t, first.Exercises, 2)
		assert.Equal(t, "https://www.youtube.com/results?search_query=Build+a+CLI+tutorial", first.Exercises[0].VideoURL)
		assert.Equal(t, "https://v", first.Exercises[1].VideoURL)
		assert.Equal(t, FlexString("3"), first.Exercises[0].EstimatedTime)

		key := exerciseCacheKey(1, "beginner", "Go tools")
		assert.True(t, mr.Exists(key))
		assert.Equal(t, exerciseCacheTTL, mr.TTL(key))

		second := svc.Recommend(context.Background(), 1, "beginner", "  go TOOLS ")
		assert.Equal(t, util.SourceCache, second.Source)
		assert.Equal(t, first.Exercises, second.Exercises)
		assert.Equal(t, int32(1), llm.calls.Load())

		other := svc.Recommend(context.Background(), 2, "beginner", "Go tools")
		assert.Equal(t, util.SourceAI, other.Source)
		assert.Equal(t, int32(2), llm.calls.Load())
	})

	t.Run("bare array", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith(`[{"title": "One", "description": "d"}]`))
		result := NewExerciseService(repo, ai, nil).Recommend(context.Background(), 1, "advanced", "")
		assert.Equal(t, util.SourceAI, result.Source)
		require.Len(t, result.Exercises, 1)
	})

	t.Run("defaults per level", func(t *testing.T) {
		svc := NewExerciseService(repo, disabledAI(), nil)

		beginner := svc.Recommend(context.Background(), 1, "", "")
		assert.Equal(t, util.SourceFallback, beginner.Source)
		assert.Len(t, beginner.Exercises, 3)

		assert.Len(t, svc.Recommend(context.Background(), 1, "intermediate", "").Exercises, 2)
		assert.Equal(t, DefaultExercises("beginner"), svc.Recommend(context.Background(), 1, "advanced", "").Exercises)
	})

	t.Run("empty ai list falls back and is not cached", func(t *testing.T) {
		rdb, mr := newTestRedis(t)
		ai, _ := newFakeLLM(t, replyWith(`{"exercises": []}`))
		result := NewExerciseService(repo, ai, rdb).Recommend(context.Background(), 1, "beginner", "x")
		assert.Equal(t, util.SourceFallback, result.Source)
		assert.Empty(t, mr.Keys())
	})
}

func TestExerciseService_SkillPlan(t *testing.T) {
	t.Run("ai plan", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith(`{"weekly_plan": [{"week": 1, "focus": "Basics", "hours": 6}], "estimated_timeline": "1 week"}`))
		result := NewExerciseService(nil, ai, nil).SkillPlan(context.Background(), "Learn Go", model.Beginner, 6)
		assert.Equal(t, util.SourceAI, result.Source)
		require.Len(t, result.Plan.WeeklyPlan, 1)
		assert.Equal(t, "Basics", result.Plan.WeeklyPlan[0].Focus)
	})

	t.Run("local plan when ai has no weeks", func(t *testing.T) {
		ai, _ := newFakeLLM(t, replyWith(`{"resources": {}}`))
		result := NewExerciseService(nil, ai, nil).SkillPlan(context.Background(), "python basics", model.Intermediate, 8)
		assert.Equal(t, util.SourceLocal, result.Source)
		require.Len(t, result.Plan.WeeklyPlan, 4)
		assert.Equal(t, 8, result.Plan.WeeklyPlan[0].Hours)
		assert.Equal(t, "4 weeks (8 hours/week)", result.Plan.EstimatedTimeline)
	})
}
