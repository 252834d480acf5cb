package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию тренировки из YAML файла
func Load(filename string) (*PracticeConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	var config PracticeConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	// Валидация конфигурации
	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// LoadOrDefault загружает конфигурацию из файла, а при его отсутствии
// возвращает встроенные значения
func LoadOrDefault(filename string) *PracticeConfig {
	if filename == "" {
		return Default()
	}
	cfg, err := Load(filename)
	if err != nil {
		return Default()
	}
	return cfg
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *PracticeConfig) error {
	if config.QuestionCount <= 0 {
		return fmt.Errorf("question_count должно быть больше 0")
	}

	if len(config.Templates) == 0 {
		return fmt.Errorf("templates не может быть пустым")
	}

	for i, tpl := range config.Templates {
		if strings.TrimSpace(tpl.Category) == "" {
			return fmt.Errorf("шаблон %d должен иметь category", i)
		}

		if strings.TrimSpace(tpl.Prompt) == "" {
			return fmt.Errorf("шаблон %d должен иметь prompt", i)
		}
	}

	return nil
}
