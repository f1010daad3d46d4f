package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// userQueues очередь обновлений на каждого пользователя. Одна горутина разбирает
// очередь пользователя в порядке поступления и завершается, когда очередь пуста.
type userQueues struct {
	handle func(tgbotapi.Update)

	mu     sync.Mutex
	queues map[int64][]tgbotapi.Update
	wg     sync.WaitGroup
}

func newUserQueues(handle func(tgbotapi.Update)) *userQueues {
	return &userQueues{handle: handle, queues: make(map[int64][]tgbotapi.Update)}
}

// Push ставит обновление в очередь пользователя и запускает обработчик, если он не работает.
// Вызывается из одной горутины цикла опроса.
func (q *userQueues) Push(userID int64, update tgbotapi.Update) {
	q.mu.Lock()
	pending, running := q.queues[userID]
	q.queues[userID] = append(pending, update)
	if !running {
		q.wg.Add(1)
	}
	q.mu.Unlock()

	if !running {
		go q.drain(userID)
	}
}

// Wait ждёт, пока все очереди опустеют
func (q *userQueues) Wait() {
	q.wg.Wait()
}

func (q *userQueues) drain(userID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		pending := q.queues[userID]
		if len(pending) == 0 {
			delete(q.queues, userID)
			q.mu.Unlock()
			return
		}
		next := pending[0]
		q.queues[userID] = pending[1:]
		q.mu.Unlock()

		q.handle(next)
	}
}

func (q *userQueues) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queues)
}
