package dialog

import "sync"

// Store — сессии в памяти по chatID. Цикл обработки апдейтов однопоточный,
// мьютекс защищает только от фонового HTTP-обработчика и будущих
// параллельных потребителей.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get возвращает сессию пользователя или nil, если он в покое.
func (s *Store) Get(chatID int64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[chatID]
}

func (s *Store) Set(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ChatID] = sess
}

// Delete завершает диалог: следующий апдейт пользователя начнёт с нуля.
func (s *Store) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Len — количество активных диалогов (метрики).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
