package bot

import (
	"sync"

	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

type sessionState string

const (
	stateNone sessionState = ""

	// мастер «Создать кнопку»
	stateCreateText  sessionState = "create_text"
	stateCreateLabel sessionState = "create_label"
	stateCreateURL   sessionState = "create_url"

	// подарок: ждём получателя
	stateGiftTarget sessionState = "gift_target"

	// привязка канала: ждём форвард
	stateLinkForward sessionState = "link_forward"

	// админские шаги
	stateAdminUnbind    sessionState = "admin_unbind"
	stateAdminBroadcast sessionState = "admin_broadcast"
	stateAdminGrantUser sessionState = "admin_grant_user"
	stateAdminGrantPlan sessionState = "admin_grant_plan"
)

// session — состояние диалога с одним пользователем (в памяти процесса).
type session struct {
	State sessionState
	Plan  subscription.Plan

	// черновик кнопки
	Text  string
	Label string

	// цель админской выдачи
	TargetID int64
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

func (s *sessionStore) get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &session{}
		s.sessions[chatID] = sess
	}
	return sess
}

func (s *sessionStore) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
