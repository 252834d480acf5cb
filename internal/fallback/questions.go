package fallback

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"career-hero-practice/internal/config"
	"career-hero-practice/internal/session"
)

// Пакет fallback содержит локальные детерминированные генераторы.
// Обе функции чистые: без I/O и без случайности, поэтому один и тот же
// вход всегда дает один и тот же результат.

const defaultRole = "специалист"

// стоп-слова, которые не считаются ключевыми навыками из описания вакансии
var keywordStopWords = map[string]bool{
	"опыт": true, "знание": true, "работа": true, "требуется": true,
	"обязательно": true, "желательно": true, "лет": true, "года": true,
	"must": true, "know": true, "with": true, "and": true, "the": true,
	"experience": true, "required": true, "strong": true, "skills": true,
}

// InferRole извлекает название роли из текста вакансии.
// Берется первая строка до первого разделителя; пустой текст дает
// нейтральную роль.
func InferRole(jobText string) string {
	line := jobText
	if idx := strings.IndexAny(line, "\n\r"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.IndexAny(line, ",;:.("); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultRole
	}
	if utf8.RuneCountInString(line) > 60 {
		runes := []rune(line)
		line = strings.TrimSpace(string(runes[:60]))
	}
	return line
}

// Questions строит локальный набор вопросов по шаблонам конфигурации.
// Набор детерминирован и зависит только от текста вакансии: сначала идут
// фиксированные шаблоны (самопрезентация, разбор проекта, план выхода),
// затем, если question_count больше числа шаблонов, вопросы по ключевым
// словам вакансии и кейс про работу под давлением.
func Questions(cfg *config.PracticeConfig, jobText string) []session.Question {
	role := InferRole(jobText)

	questions := make([]session.Question, 0, cfg.QuestionCount)
	for _, tpl := range cfg.Templates {
		if len(questions) >= cfg.QuestionCount {
			break
		}
		prompt := tpl.Prompt
		if strings.Contains(prompt, "%s") {
			prompt = fmt.Sprintf(prompt, role)
		}
		questions = append(questions, session.Question{
			ID:       fmt.Sprintf("local-q%d", len(questions)+1),
			Prompt:   prompt,
			Tips:     tpl.Tips,
			Category: tpl.Category,
			Focus:    tpl.Focus,
			Position: len(questions),
		})
	}

	// Дополнительные вопросы по ключевым словам вакансии
	for _, kw := range jobKeywords(jobText) {
		if len(questions) >= cfg.QuestionCount {
			break
		}
		questions = append(questions, session.Question{
			ID:       fmt.Sprintf("local-q%d", len(questions)+1),
			Prompt:   fmt.Sprintf("В вакансии упоминается «%s». Расскажите на реальном примере, как вы применяли это на практике.", kw),
			Tips:     "Один конкретный случай полезнее общего перечисления технологий.",
			Category: "jd_gap",
			Focus:    fmt.Sprintf("Ключевое требование: %s", kw),
			Position: len(questions),
		})
	}

	if len(questions) < cfg.QuestionCount {
		questions = append(questions, session.Question{
			ID:       fmt.Sprintf("local-q%d", len(questions)+1),
			Prompt:   "Вспомните серьезную проблему в работе: как вы ее локализовали, кого подключили и что изменили после разбора?",
			Tips:     "Важен не масштаб проблемы, а системность ваших действий.",
			Category: "pressure_case",
			Focus:    "Разбор инцидента и устойчивость",
			Position: len(questions),
		})
	}

	return questions
}

// jobKeywords выбирает до трех значимых слов из текста вакансии,
// в порядке появления, без повторов
func jobKeywords(jobText string) []string {
	fields := strings.FieldsFunc(strings.ToLower(jobText), func(r rune) bool {
		return !(r == '-' || r == '+' || r == '#' ||
			('a' <= r && r <= 'z') || ('0' <= r && r <= '9') ||
			('а' <= r && r <= 'я') || r == 'ё')
	})

	var keywords []string
	seen := map[string]bool{}
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 4 || keywordStopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		keywords = append(keywords, f)
		if len(keywords) == 3 {
			break
		}
	}
	return keywords
}
