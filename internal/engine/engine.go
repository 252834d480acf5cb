package engine

import (
	"fmt"
	"log"
	"strings"

	"career-hero-practice/internal/api"
	"career-hero-practice/internal/auth"
	"career-hero-practice/internal/config"
	"career-hero-practice/internal/fallback"
	"career-hero-practice/internal/metrics"
	"career-hero-practice/internal/session"
	"career-hero-practice/internal/store"

	"github.com/google/uuid"
)

// Engine — движок жизненного цикла тренировочного интервью.
//
// Каждая операция сначала пробует удаленный сервис, а при любой
// транспортной ошибке или отказе сервера переводит сессию в локальный
// режим и выполняет тот же переход детерминированно. Перевод в
// локальный режим необратим для сессии: ее остаток выполняется без
// сети, чтобы не получить рассогласованный порядок вопросов.
//
// Движок не сериализует параллельные переходы по одной сессии:
// вызывающая сторона не должна начинать новый переход, пока предыдущий
// не завершился. Чтение истории можно выполнять параллельно.
type Engine struct {
	api      *api.Client
	auth     *auth.Client
	store    *store.Service
	practice *config.PracticeConfig
	metrics  *metrics.Metrics
}

// New создает движок жизненного цикла
func New(apiClient *api.Client, authClient *auth.Client, storeSvc *store.Service, practice *config.PracticeConfig, m *metrics.Metrics) *Engine {
	return &Engine{
		api:      apiClient,
		auth:     authClient,
		store:    storeSvc,
		practice: practice,
		metrics:  m,
	}
}

// Start начинает новую сессию интервью.
// Пустой текст вакансии отклоняется до любого сетевого вызова.
// Недоступность сервера не мешает старту: вопросы генерируются локально.
func (e *Engine) Start(jobText, backgroundText string) (*session.InterviewSession, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, session.NewValidationError("start", "текст вакансии не может быть пустым")
	}

	sess := session.New(jobText, backgroundText)

	var env *api.SessionEnvelope
	err := e.remote(func(cred api.Credential) error {
		var callErr error
		env, callErr = e.api.CreateSession(cred, jobText, backgroundText, e.practice.GetQuestionCount())
		return callErr
	})
	if err == nil {
		e.reconcile(sess, env)
	} else {
		e.downgrade(sess, "start", err)
		sess.Questions = fallback.Questions(e.practice, jobText)
		sess.CurrentIndex = 0
	}

	sess.Recalculate()
	sess.Touch()
	if saveErr := e.store.Save(sess); saveErr != nil {
		return nil, saveErr
	}

	e.metrics.IncrementSessionsStarted()
	return sess, nil
}

// SubmitAnswer записывает ответ на вопрос.
// Ответ сначала сохраняется локально, затем отправляется на сервер;
// неудачная отправка переводит сессию в локальный режим, но не
// отменяет уже записанный ответ.
func (e *Engine) SubmitAnswer(id, questionID, text string) (*session.InterviewSession, error) {
	sess, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if sess.Status != session.StatusInProgress {
		return nil, session.NewValidationError("submit_answer",
			"ответ можно дать только в активной сессии, текущий статус: %s", sess.Status)
	}
	if strings.TrimSpace(text) == "" {
		return nil, session.NewValidationError("submit_answer", "текст ответа не может быть пустым")
	}

	question := sess.QuestionByID(questionID)
	if question == nil {
		return nil, session.NewValidationError("submit_answer", "вопрос %s не найден в сессии", questionID)
	}

	// серверный индекс авторитетен: в удаленном режиме отвечать можно
	// только на текущий вопрос, возврат к пропущенным есть лишь локально
	if sess.Mode == session.ModeRemote && question.Position != sess.CurrentIndex {
		return nil, session.NewValidationError("submit_answer",
			"в удаленном режиме ответ принимается только на текущий вопрос %d, получен %d",
			sess.CurrentIndex, question.Position)
	}

	// оптимистичная локальная запись — до сетевого вызова
	sess.Answers[question.ID] = text
	sess.Recalculate()

	if sess.Mode == session.ModeRemote && sess.RemoteID != 0 {
		questionIndex := question.Position
		var env *api.SessionEnvelope
		err = e.remote(func(cred api.Credential) error {
			var callErr error
			env, callErr = e.api.SubmitAnswer(cred, sess.RemoteID, questionIndex, text)
			return callErr
		})
		if err == nil {
			e.reconcile(sess, env)
		} else {
			e.downgrade(sess, "submit_answer", err)
		}
	}

	sess.Recalculate()
	sess.Touch()
	if saveErr := e.store.Save(sess); saveErr != nil {
		return nil, saveErr
	}

	e.metrics.IncrementAnswersSubmitted()
	return sess, nil
}

// Advance переходит к следующему вопросу.
// В удаленном режиме индекс и статус сервера принимаются как есть,
// в локальном индекс растет до последнего вопроса и дальше не двигается.
func (e *Engine) Advance(id string) (*session.InterviewSession, error) {
	sess, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if sess.Status != session.StatusInProgress {
		return nil, session.NewValidationError("advance",
			"переход к следующему вопросу возможен только в активной сессии, текущий статус: %s", sess.Status)
	}

	if sess.Mode == session.ModeRemote && sess.RemoteID != 0 {
		var env *api.SessionEnvelope
		err = e.remote(func(cred api.Credential) error {
			var callErr error
			env, callErr = e.api.Advance(cred, sess.RemoteID)
			return callErr
		})
		if err == nil {
			e.reconcile(sess, env)
		} else {
			e.downgrade(sess, "advance", err)
			advanceLocally(sess)
		}
	} else {
		advanceLocally(sess)
	}

	sess.Recalculate()
	sess.Touch()
	if saveErr := e.store.Save(sess); saveErr != nil {
		return nil, saveErr
	}
	return sess, nil
}

// Pause ставит сессию на паузу. Сервер уведомляется по возможности:
// неудачное уведомление игнорируется и не меняет режим сессии.
func (e *Engine) Pause(id string) (*session.InterviewSession, error) {
	return e.toggle(id, "pause", session.StatusInProgress, session.StatusPaused, e.api.Pause)
}

// Resume снимает сессию с паузы. Уведомление сервера — по возможности.
func (e *Engine) Resume(id string) (*session.InterviewSession, error) {
	return e.toggle(id, "resume", session.StatusPaused, session.StatusInProgress, e.api.Resume)
}

func (e *Engine) toggle(id, op string, from, to session.Status, notify func(api.Credential, int64) (*api.SessionEnvelope, error)) (*session.InterviewSession, error) {
	sess, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if sess.Status != from {
		return nil, session.NewValidationError(op,
			"переход %s → %s невозможен, текущий статус: %s", from, to, sess.Status)
	}

	if sess.Mode == session.ModeRemote && sess.RemoteID != 0 {
		notifyErr := e.remote(func(cred api.Credential) error {
			_, callErr := notify(cred, sess.RemoteID)
			return callErr
		})
		if notifyErr != nil {
			log.Printf("уведомление сервера (%s) не доставлено: %v", op, notifyErr)
		}
	}

	sess.Status = to
	sess.Touch()
	if saveErr := e.store.Save(sess); saveErr != nil {
		return nil, saveErr
	}
	return sess, nil
}

// Finish завершает сессию. Завершение тотально: при недоступном сервере
// итоговая оценка считается локально, и сессия все равно доходит до
// статуса completed с непустым отчетом.
func (e *Engine) Finish(id string) (*session.InterviewSession, error) {
	sess, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if sess.Status != session.StatusInProgress && sess.Status != session.StatusPaused {
		return nil, session.NewValidationError("finish",
			"завершить можно активную или приостановленную сессию, текущий статус: %s", sess.Status)
	}

	if sess.Mode == session.ModeRemote && sess.RemoteID != 0 {
		var env *api.SessionEnvelope
		err = e.remote(func(cred api.Credential) error {
			var callErr error
			env, callErr = e.api.Finish(cred, sess.RemoteID)
			return callErr
		})
		if err == nil {
			e.reconcile(sess, env)
			if sess.Review == nil {
				e.downgrade(sess, "finish", fmt.Errorf("сервер не вернул итоговый отчет"))
			}
		} else {
			e.downgrade(sess, "finish", err)
		}
	}

	// режим local означает, что отчет посчитан локально
	if sess.Review == nil {
		sess.Review = e.localReview(sess)
	}

	sess.Status = session.StatusCompleted
	sess.Recalculate()
	sess.Touch()
	if saveErr := e.store.Save(sess); saveErr != nil {
		return nil, saveErr
	}

	e.metrics.IncrementSessionsCompleted()
	return sess, nil
}

// Cancel отменяет сессию. Отмена выполняется только локально:
// у сервера нет операции отмены, запись остается в истории.
func (e *Engine) Cancel(id string) (*session.InterviewSession, error) {
	sess, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if sess.Status.Terminal() {
		return nil, session.NewValidationError("cancel",
			"сессия уже в финальном статусе: %s", sess.Status)
	}

	sess.Status = session.StatusCancelled
	sess.Touch()
	if saveErr := e.store.Save(sess); saveErr != nil {
		return nil, saveErr
	}
	return sess, nil
}

// Recover возвращает сессию из статуса failed в последнее корректное
// состояние: completed, если итоговый отчет уже есть, иначе in_progress
func (e *Engine) Recover(id string) (*session.InterviewSession, error) {
	sess, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if sess.Status != session.StatusFailed {
		return nil, session.NewValidationError("recover",
			"восстановление возможно только из статуса failed, текущий статус: %s", sess.Status)
	}

	if sess.Review != nil {
		sess.Status = session.StatusCompleted
	} else {
		sess.Status = session.StatusInProgress
	}
	sess.Touch()
	if saveErr := e.store.Save(sess); saveErr != nil {
		return nil, saveErr
	}
	return sess, nil
}

// Get возвращает сессию из локального хранилища
func (e *Engine) Get(id string) (*session.InterviewSession, error) {
	return e.store.Get(id)
}

// Detail возвращает сессию, по возможности освежив серверные поля.
// Чтение необязательное: ошибка сервера не понижает режим сессии,
// локальная запись возвращается как есть.
func (e *Engine) Detail(id string) (*session.InterviewSession, error) {
	sess, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if sess.Mode != session.ModeRemote || sess.RemoteID == 0 {
		return sess, nil
	}

	var env *api.SessionEnvelope
	readErr := e.remote(func(cred api.Credential) error {
		var callErr error
		env, callErr = e.api.GetSession(cred, sess.RemoteID)
		return callErr
	})
	if readErr != nil {
		log.Printf("серверная запись сессии %s недоступна, показана локальная: %v", sess.ID, readErr)
		return sess, nil
	}

	e.reconcile(sess, env)
	sess.Touch()
	if saveErr := e.store.Save(sess); saveErr != nil {
		return nil, saveErr
	}
	return sess, nil
}

// List возвращает сессии из локального хранилища, новые сверху
func (e *Engine) List(status session.Status) []*session.InterviewSession {
	return e.store.List(status)
}

// SyncHistory подтягивает список сессий с сервера и вливает его в
// локальное хранилище. Вызов необязательный: его ошибка не влияет на
// текущие сессии, а локальные записи сервером не затираются.
func (e *Engine) SyncHistory() error {
	var envelopes []*api.SessionEnvelope
	err := e.remote(func(cred api.Credential) error {
		var callErr error
		envelopes, callErr = e.api.ListSessions(cred)
		return callErr
	})
	if err != nil {
		return fmt.Errorf("ошибка синхронизации истории: %w", err)
	}

	incoming := make([]*session.InterviewSession, 0, len(envelopes))
	for _, env := range envelopes {
		if env.Session.ID == 0 {
			continue
		}
		incoming = append(incoming, sessionFromEnvelope(env))
	}
	return e.store.MergeRemote(incoming)
}

// remote выполняет удаленный вызов через клиент авторизации и ведет
// счетчики обращений к серверу
func (e *Engine) remote(op func(api.Credential) error) error {
	err := e.auth.Do(op)
	e.metrics.IncrementRemoteCall(err == nil)
	return err
}

// downgrade переводит сессию в локальный режим. Переход монотонный:
// обратного пути в удаленный режим у сессии нет.
func (e *Engine) downgrade(sess *session.InterviewSession, op string, err error) {
	if sess.Mode == session.ModeLocal {
		return
	}
	sess.Mode = session.ModeLocal
	e.metrics.IncrementFallbackDowngrades()

	if reason, ok := auth.ReasonOf(err); ok {
		log.Printf("сервер отклонил авторизацию (%s), сессия %s продолжается локально (%s)", reason, sess.ID, op)
	} else {
		log.Printf("сервер недоступен, сессия %s продолжается локально (%s): %v", sess.ID, op, err)
	}
}

// reconcile переносит в сессию только серверные поля: статус, индекс,
// новые вопросы и итоговый отчет. Текст ответов пользователя сервером
// никогда не перезаписывается.
func (e *Engine) reconcile(sess *session.InterviewSession, env *api.SessionEnvelope) {
	if env.Session.ID != 0 {
		sess.RemoteID = env.Session.ID
	}
	sess.Status = env.Session.Status
	sess.CurrentIndex = env.Session.CurrentIndex

	for _, q := range env.Questions {
		sess.AppendQuestion(toQuestion(q))
	}
	if env.NextQuestion != nil {
		sess.AppendQuestion(toQuestion(*env.NextQuestion))
	}

	if env.Review != nil {
		sess.Review = env.Review
	}

	sess.Recalculate()
}

// localReview считает детерминированную локальную оценку сессии
func (e *Engine) localReview(sess *session.InterviewSession) *session.Review {
	role := fallback.InferRole(sess.JobText)
	return fallback.Review(role, sess.AnsweredCount, fallback.AverageAnswerLength(sess))
}

// advanceLocally двигает индекс вперед, останавливаясь на последнем вопросе
func advanceLocally(sess *session.InterviewSession) {
	if sess.CurrentIndex < len(sess.Questions)-1 {
		sess.CurrentIndex++
	}
}

// toQuestion переводит серверный вопрос в модель.
// Идентичность серверного вопроса определяется его индексом.
func toQuestion(q api.RemoteQuestion) session.Question {
	return session.Question{
		ID:       fmt.Sprintf("q%d", q.Index),
		Prompt:   q.Prompt,
		Tips:     q.Tips,
		Category: q.Category,
		Focus:    q.Focus,
		Position: q.Index,
	}
}

// sessionFromEnvelope строит локальную запись для серверной сессии,
// которой еще нет в хранилище. Серверный список не содержит текстов
// ответов, поэтому для такой записи счетчики берутся серверными как
// есть: AnsweredCount отражает ответы, данные на сервере, а карта
// Answers остается пустой до первого локального изменения
func sessionFromEnvelope(env *api.SessionEnvelope) *session.InterviewSession {
	sess := &session.InterviewSession{
		ID:            uuid.New().String(),
		RemoteID:      env.Session.ID,
		Mode:          session.ModeRemote,
		Status:        env.Session.Status,
		Questions:     []session.Question{},
		Answers:       map[string]string{},
		Review:        env.Review,
		CreatedAt:     env.Session.CreatedAt,
		UpdatedAt:     env.Session.UpdatedAt,
		CurrentIndex:  env.Session.CurrentIndex,
		AnsweredCount: env.Session.AnsweredCount,
		TotalCount:    env.Session.QuestionCount,
	}
	for _, q := range env.Questions {
		sess.AppendQuestion(toQuestion(q))
	}
	return sess
}
