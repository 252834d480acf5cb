package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"career-hero-practice/internal/api"
	"career-hero-practice/internal/auth"
	"career-hero-practice/internal/config"
	"career-hero-practice/internal/engine"
	"career-hero-practice/internal/metrics"
	"career-hero-practice/internal/session"
	"career-hero-practice/internal/store"
	"career-hero-practice/internal/summary"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("🚀 Запуск Career Hero: тренировочное интервью...")

	// Загружаем переменные окружения
	err := godotenv.Load()
	if err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	appCfg := config.LoadAppConfig()
	practiceCfg := config.LoadOrDefault(appCfg.Practice.Path)

	// Инициализируем сервисы
	fmt.Println("🔧 Инициализация сервисов...")

	m := metrics.NewMetrics()
	apiClient := api.NewClient(appCfg.API.BaseURL, appCfg.API.Timeout)

	authClient, err := auth.NewClient(apiClient, appCfg.Storage.Dir, m)
	if err != nil {
		log.Fatalf("Ошибка инициализации авторизации: %v", err)
	}
	fmt.Println("✅ Авторизация инициализирована")

	storeSvc, err := store.New(appCfg.Storage.Dir, appCfg.Storage.HistoryLimit)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}
	fmt.Println("✅ Хранилище инициализировано")

	eng := engine.New(apiClient, authClient, storeSvc, practiceCfg, m)
	summarySvc := summary.New(storeSvc)

	// Вход по учетным данным из окружения; без них работаем гостем
	username := os.Getenv("CAREER_HERO_USERNAME")
	password := os.Getenv("CAREER_HERO_PASSWORD")
	if username != "" && password != "" {
		if _, err := authClient.Login(username, password); err != nil {
			log.Printf("⚠️ Вход не выполнен, продолжаем гостем: %v", err)
		} else {
			fmt.Printf("✅ Вход выполнен: %s\n", authClient.Current().DisplayName)
		}
	}

	// Выводим информацию о конфигурации
	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Сервер: %s\n", appCfg.API.BaseURL)
	fmt.Printf("• Вопросов в тренировке: %d\n", practiceCfg.GetQuestionCount())
	fmt.Printf("• Пользователь: %s\n", authClient.Current().DisplayName)

	// Подтягиваем историю с сервера, если он доступен
	if err := eng.SyncHistory(); err != nil {
		log.Printf("⚠️ История с сервера недоступна: %v", err)
	}
	if completed := summarySvc.Completed(); len(completed) > 0 {
		fmt.Printf("• Завершенных тренировок: %d\n", len(completed))
	}

	runPractice(eng, summarySvc, m)
}

// runPractice ведет одну тренировку в терминале от начала до отчета
func runPractice(eng *engine.Engine, summarySvc *summary.Service, m *metrics.Metrics) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	fmt.Println("\n🎯 Вставьте текст вакансии (пустая строка — конец ввода):")
	jobText := readBlock(scanner)

	fmt.Println("📄 Кратко опишите ваш опыт (пустая строка — пропустить):")
	backgroundText := readBlock(scanner)

	sess, err := eng.Start(jobText, backgroundText)
	if err != nil {
		log.Fatalf("Ошибка старта тренировки: %v", err)
	}

	if sess.Mode == session.ModeLocal {
		fmt.Println("⚠️ Сервер недоступен, тренировка идет в локальном режиме")
	}
	fmt.Printf("\n🤖 Тренировка начата, вопросов: %d\n", sess.TotalCount)
	fmt.Println("Команды: /pause, /resume, /skip, /finish")

	for !sess.Status.Terminal() {
		question := sess.CurrentQuestion()
		if question == nil {
			break
		}

		fmt.Printf("\n📝 Вопрос %d/%d: %s\n", sess.CurrentIndex+1, sess.TotalCount, question.Prompt)
		if question.Tips != "" {
			fmt.Printf("💡 Подсказка: %s\n", question.Tips)
		}
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "/finish":
			sess = finishOrDie(eng, sess.ID)
		case "/pause":
			if _, err := eng.Pause(sess.ID); err != nil {
				log.Printf("Ошибка постановки на паузу: %v", err)
				continue
			}
			fmt.Println("⏸ Тренировка на паузе, введите /resume для продолжения")
			sess = waitForResume(eng, scanner, sess.ID)
		case "/skip", "":
			advanced, err := eng.Advance(sess.ID)
			if err != nil {
				log.Printf("Ошибка перехода к следующему вопросу: %v", err)
				continue
			}
			sess = advanced
		default:
			answered, err := eng.SubmitAnswer(sess.ID, question.ID, input)
			if err != nil {
				log.Printf("Ошибка записи ответа: %v", err)
				continue
			}
			sess = answered
			if sess.Status.Terminal() {
				// сервер завершил сессию сам вместе с последним ответом
				continue
			}
			if sess.AnsweredCount >= sess.TotalCount {
				sess = finishOrDie(eng, sess.ID)
			} else if advanced, err := eng.Advance(sess.ID); err == nil {
				sess = advanced
			} else {
				log.Printf("Ошибка перехода к следующему вопросу: %v", err)
			}
		}

		if sess.StateAt(sess.CurrentIndex) == session.QuestionAnswered && sess.Status == session.StatusInProgress {
			// все оставшиеся вопросы уже отвечены
			sess = finishOrDie(eng, sess.ID)
		}
	}

	printResult(summarySvc, sess.ID)
	printMetrics(m)
}

// readBlock читает многострочный ввод до пустой строки
func readBlock(scanner *bufio.Scanner) string {
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// waitForResume держит сессию на паузе до команды /resume или /finish
func waitForResume(eng *engine.Engine, scanner *bufio.Scanner, id string) *session.InterviewSession {
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return finishOrDie(eng, id)
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "/resume":
			sess, err := eng.Resume(id)
			if err != nil {
				log.Printf("Ошибка снятия с паузы: %v", err)
				continue
			}
			fmt.Println("▶️ Тренировка продолжается")
			return sess
		case "/finish":
			return finishOrDie(eng, id)
		default:
			fmt.Println("Тренировка на паузе: доступны /resume и /finish")
		}
	}
}

func finishOrDie(eng *engine.Engine, id string) *session.InterviewSession {
	sess, err := eng.Finish(id)
	if err != nil {
		log.Fatalf("Ошибка завершения тренировки: %v", err)
	}
	return sess
}

func printResult(summarySvc *summary.Service, id string) {
	fmt.Println("\n✅ Тренировка завершена!")

	text, err := summarySvc.Render(id)
	if err != nil {
		log.Printf("Ошибка построения отчета: %v", err)
		return
	}
	fmt.Println()
	fmt.Println(text)
}

func printMetrics(m *metrics.Metrics) {
	snapshot := m.GetSnapshot()
	fmt.Println("📊 Статистика запуска:")
	fmt.Printf("• Ответов записано: %d\n", snapshot.AnswersSubmitted)
	fmt.Printf("• Обращений к серверу: %d (ошибок: %d)\n", snapshot.RemoteCallsTotal, snapshot.RemoteCallsFailed)
	fmt.Printf("• Переходов в локальный режим: %d\n", snapshot.FallbackDowngrades)
}
