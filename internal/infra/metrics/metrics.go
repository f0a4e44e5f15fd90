package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BotUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolbot_updates_total",
		Help: "Обработанные обновления Telegram.",
	})

	Evaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolbot_economics_evaluations_total",
		Help: "Расчёты экономики букинга.",
	})

	ReportExports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolbot_report_exports_total",
		Help: "Сформированные Excel-отчёты.",
	})
)
