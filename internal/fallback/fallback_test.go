package fallback

import (
	"strings"
	"testing"

	"career-hero-practice/internal/config"
	"career-hero-practice/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferRole(t *testing.T) {
	tests := []struct {
		name    string
		jobText string
		want    string
	}{
		{"роль до запятой", "Backend Engineer, must know caching", "Backend Engineer"},
		{"роль до перевода строки", "Go разработчик\nТребования: опыт 3 года", "Go разработчик"},
		{"пустой текст", "   ", "специалист"},
		{"роль до двоеточия", "Аналитик данных: SQL, Python", "Аналитик данных"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferRole(tt.jobText))
		})
	}
}

func TestQuestionsDefaultSetIsFixed(t *testing.T) {
	cfg := config.Default()
	questions := Questions(cfg, "Backend Engineer, must know caching")

	// Три фиксированных вопроса: самопрезентация, разбор проекта, план 90 дней
	require.Len(t, questions, 3)
	assert.Equal(t, "self_intro", questions[0].Category)
	assert.Equal(t, "project_depth", questions[1].Category)
	assert.Equal(t, "ramp_up", questions[2].Category)
	assert.Contains(t, questions[0].Prompt, "Backend Engineer")
	for i, q := range questions {
		assert.Equal(t, i, q.Position)
		assert.NotEmpty(t, q.Tips)
	}
}

func TestQuestionsAreDeterministic(t *testing.T) {
	cfg := config.Default()
	first := Questions(cfg, "Backend Engineer, must know caching")
	second := Questions(cfg, "Backend Engineer, must know caching")
	assert.Equal(t, first, second)
}

func TestQuestionsExtendedWithKeywords(t *testing.T) {
	cfg := config.Default()
	cfg.QuestionCount = 7
	questions := Questions(cfg, "Backend Engineer, must know caching kubernetes")

	require.Len(t, questions, 7)
	assert.Equal(t, "jd_gap", questions[3].Category)
	joined := questions[3].Prompt + questions[4].Prompt + questions[5].Prompt
	assert.Contains(t, joined, "caching")
	// последний слот добирается кейсом про инцидент
	assert.Equal(t, "pressure_case", questions[6].Category)
}

func TestReviewScoreFormula(t *testing.T) {
	tests := []struct {
		name      string
		answered  int
		avgLength int
		wantScore int
	}{
		{"три подробных ответа", 3, 90, 93},
		{"без ответов", 0, 0, 45},
		{"один короткий ответ", 1, 40, 57},
		{"верхняя граница", 5, 200, 95},
		{"бонус за глубину", 2, 150, 93},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := Review("Backend Engineer", tt.answered, tt.avgLength)
			require.NotNil(t, review.Score)
			assert.Equal(t, tt.wantScore, *review.Score)
			assert.NotEmpty(t, review.Strengths)
			assert.NotEmpty(t, review.Improvements)
			assert.Contains(t, review.Summary, "Backend Engineer")
		})
	}
}

func TestReviewIsPure(t *testing.T) {
	first := Review("Go разработчик", 2, 100)
	second := Review("Go разработчик", 2, 100)
	assert.Equal(t, first, second)
}

func TestAverageAnswerLength(t *testing.T) {
	s := session.New("Go разработчик", "")
	s.Questions = []session.Question{{ID: "q1"}, {ID: "q2"}, {ID: "q3"}}
	s.Answers["q1"] = strings.Repeat("а", 100)
	s.Answers["q2"] = strings.Repeat("б", 50)
	s.Answers["q3"] = ""

	assert.Equal(t, 75, AverageAnswerLength(s))

	empty := session.New("Go разработчик", "")
	assert.Equal(t, 0, AverageAnswerLength(empty))
}
