// Package metrics — счётчики Prometheus для цикла обработки апдейтов.
// Публикуются через /metrics инфраструктурного HTTP-сервера.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skladbot_updates_total",
		Help: "Обработанные апдейты Telegram по типам.",
	}, []string{"kind"}) // message | callback

	StoreErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skladbot_store_errors_total",
		Help: "Ошибки операций с книгой-хранилищем.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skladbot_active_sessions",
		Help: "Количество незавершённых диалогов в памяти.",
	})
)
