package store

import (
	"testing"
	"time"

	"career-hero-practice/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, job string) *session.InterviewSession {
	t.Helper()
	s := session.New(job, "")
	s.Questions = []session.Question{{ID: "q1", Prompt: "Вопрос"}}
	s.Recalculate()
	return s
}

func TestSaveAndReloadAcrossRestart(t *testing.T) {
	dir := t.TempDir()

	svc, err := New(dir, 10)
	require.NoError(t, err)

	sess := newSession(t, "Go разработчик")
	sess.Answers["q1"] = "ответ"
	sess.Recalculate()
	require.NoError(t, svc.Save(sess))

	// новый экземпляр читает тот же файл
	reopened, err := New(dir, 10)
	require.NoError(t, err)

	loaded, err := reopened.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go разработчик", loaded.JobText)
	assert.Equal(t, "ответ", loaded.Answers["q1"])
	assert.Equal(t, 1, loaded.AnsweredCount)
}

func TestGetReturnsCopy(t *testing.T) {
	svc, err := New(t.TempDir(), 10)
	require.NoError(t, err)

	sess := newSession(t, "Go разработчик")
	require.NoError(t, svc.Save(sess))

	loaded, err := svc.Get(sess.ID)
	require.NoError(t, err)
	loaded.Answers["q1"] = "мутация снаружи"

	again, err := svc.Get(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Answers["q1"])
}

func TestGetUnknownSession(t *testing.T) {
	svc, err := New(t.TempDir(), 10)
	require.NoError(t, err)

	_, err = svc.Get("нет-такой")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestHistoryLimitEvictsOldest(t *testing.T) {
	svc, err := New(t.TempDir(), 3)
	require.NoError(t, err)

	var oldest *session.InterviewSession
	for i := 0; i < 4; i++ {
		sess := newSession(t, "Роль")
		sess.UpdatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		if i == 0 {
			oldest = sess
		}
		require.NoError(t, svc.Save(sess))
	}

	all := svc.List("")
	require.Len(t, all, 3)
	_, err = svc.Get(oldest.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSupersedeByRemoteID(t *testing.T) {
	svc, err := New(t.TempDir(), 10)
	require.NoError(t, err)

	older := newSession(t, "Роль")
	older.RemoteID = 42
	older.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, svc.Save(older))

	newer := newSession(t, "Роль")
	newer.RemoteID = 42
	newer.UpdatedAt = time.Now().UTC()
	require.NoError(t, svc.Save(newer))

	all := svc.List("")
	require.Len(t, all, 1)
	assert.Equal(t, newer.ID, all[0].ID)
}

func TestMergeRemoteLastWriteWins(t *testing.T) {
	svc, err := New(t.TempDir(), 10)
	require.NoError(t, err)

	local := newSession(t, "Роль")
	local.RemoteID = 7
	local.Mode = session.ModeLocal
	local.Answers["q1"] = "локальный ответ"
	local.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	local.Recalculate()
	require.NoError(t, svc.Save(local))

	remote := newSession(t, "Роль")
	remote.RemoteID = 7
	remote.Status = session.StatusCompleted
	remote.UpdatedAt = time.Now().UTC()
	require.NoError(t, svc.MergeRemote([]*session.InterviewSession{remote}))

	merged, err := svc.Get(local.ID)
	require.NoError(t, err)
	// статус пришел с сервера, а режим и ответ пользователя не затерты
	assert.Equal(t, session.StatusCompleted, merged.Status)
	assert.Equal(t, session.ModeLocal, merged.Mode)
	assert.Equal(t, "локальный ответ", merged.Answers["q1"])
}

func TestMergeRemoteIgnoresStale(t *testing.T) {
	svc, err := New(t.TempDir(), 10)
	require.NoError(t, err)

	local := newSession(t, "Роль")
	local.RemoteID = 9
	local.Status = session.StatusCompleted
	local.UpdatedAt = time.Now().UTC()
	require.NoError(t, svc.Save(local))

	stale := newSession(t, "Роль")
	stale.RemoteID = 9
	stale.Status = session.StatusInProgress
	stale.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, svc.MergeRemote([]*session.InterviewSession{stale}))

	kept, err := svc.Get(local.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusCompleted, kept.Status)
}
