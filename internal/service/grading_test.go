package service

import (
	"testing"

	"school_hub_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAllTestsPassed(t *testing.T) {
	assert.False(t, allTestsPassed(nil), "空结果集不算通过")
	assert.False(t, allTestsPassed([]model.TestResult{}))

	assert.True(t, allTestsPassed([]model.TestResult{
		{Name: "case1", Passed: true},
		{Name: "case2", Passed: true},
	}))

	assert.False(t, allTestsPassed([]model.TestResult{
		{Name: "case1", Passed: true},
		{Name: "case2", Passed: false},
	}), "一个失败即整体失败，无部分得分")
}

func questions(n int) []model.QuizQuestion {
	qs := make([]model.QuizQuestion, n)
	for i := range qs {
		qs[i].ID = uint(i + 1)
		qs[i].CorrectOption = 1
	}
	return qs
}

func TestScoreQuizAllCorrect(t *testing.T) {
	score, maxScore, passed := scoreQuiz(questions(3), map[uint]int{1: 1, 2: 1, 3: 1})
	assert.Equal(t, 3, score)
	assert.Equal(t, 3, maxScore)
	assert.True(t, passed)
}

func TestScoreQuizOneOfTwoFails(t *testing.T) {
	// 2题答对1题: 50% < ceil(0.7*2)=2题
	score, _, passed := scoreQuiz(questions(2), map[uint]int{1: 1, 2: 0})
	assert.Equal(t, 1, score)
	assert.False(t, passed)
}

func TestScoreQuizSevenOfTenPasses(t *testing.T) {
	answers := map[uint]int{}
	for i := uint(1); i <= 7; i++ {
		answers[i] = 1
	}
	score, _, passed := scoreQuiz(questions(10), answers)
	assert.Equal(t, 7, score)
	assert.True(t, passed)

	delete(answers, 7)
	score, _, passed = scoreQuiz(questions(10), answers)
	assert.Equal(t, 6, score)
	assert.False(t, passed)
}

func TestScoreQuizUnmatchedAnswersScoredWrong(t *testing.T) {
	// 未作答、未知题号、越界下标都按答错处理，不报错
	score, maxScore, passed := scoreQuiz(questions(3), map[uint]int{
		1:  1,
		99: 1,
		2:  -7,
	})
	assert.Equal(t, 1, score)
	assert.Equal(t, 3, maxScore)
	assert.False(t, passed)
}

func TestScoreQuizEmptyQuizNeverPasses(t *testing.T) {
	score, maxScore, passed := scoreQuiz(nil, map[uint]int{1: 0})
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, maxScore)
	assert.False(t, passed)
}

func TestPassThreshold(t *testing.T) {
	assert.Equal(t, 1, passThreshold(1))
	assert.Equal(t, 2, passThreshold(2))
	assert.Equal(t, 3, passThreshold(4))
	assert.Equal(t, 7, passThreshold(10))
}

func TestCoursePercent(t *testing.T) {
	assert.Equal(t, 0, coursePercent(0, 0), "无已发布课时时为0，不除零")
	assert.Equal(t, 0, coursePercent(3, 0))
	assert.Equal(t, 50, coursePercent(1, 2))
	assert.Equal(t, 33, coursePercent(1, 3))
	assert.Equal(t, 100, coursePercent(4, 4))
}
