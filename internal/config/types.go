package config

// PracticeConfig представляет конфигурацию тренировочного интервью
type PracticeConfig struct {
	QuestionCount int                `yaml:"question_count"`
	Templates     []QuestionTemplate `yaml:"templates"`
}

// QuestionTemplate представляет шаблон локального вопроса.
// Используется генератором вопросов, когда сервер недоступен.
type QuestionTemplate struct {
	Category string `yaml:"category"`
	Focus    string `yaml:"focus"`
	Prompt   string `yaml:"prompt"`
	Tips     string `yaml:"tips"`
}

// GetQuestionCount возвращает целевое число вопросов на сессию
func (c *PracticeConfig) GetQuestionCount() int {
	return c.QuestionCount
}

// Default возвращает встроенную конфигурацию тренировки.
// Шаблоны содержат плейсхолдер %s, куда подставляется название роли.
func Default() *PracticeConfig {
	return &PracticeConfig{
		QuestionCount: 3,
		Templates: []QuestionTemplate{
			{
				Category: "self_intro",
				Focus:    "Соответствие роли и ключевые сильные стороны",
				Prompt:   "Представьтесь за 60 секунд и назовите два пункта, по которым вы лучше всего подходите на роль «%s».",
				Tips:     "Структура: кто вы, главный результат, почему эта роль. Без пересказа резюме.",
			},
			{
				Category: "project_depth",
				Focus:    "Глубина проекта и технические решения",
				Prompt:   "Выберите проект, который лучше всего показывает ваш уровень как «%s»: какие ключевые решения вы приняли и каким был результат?",
				Tips:     "Используйте схему STAR: ситуация, задача, действия, результат с цифрами.",
			},
			{
				Category: "ramp_up",
				Focus:    "План выхода на полную продуктивность",
				Prompt:   "Опишите ваш план первых 90 дней в роли «%s»: что сделаете в первые 30, 60 и 90 дней?",
				Tips:     "Покажите баланс: изучение контекста, быстрые победы, долгосрочные улучшения.",
			},
		},
	}
}
