package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP метрики (ops-сервер)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)

	// Telegram метрики
	UpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of Telegram updates handled",
		},
		[]string{"kind"},
	)
	ButtonsParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_buttons_parsed_total",
			Help: "Total number of link buttons extracted from messages",
		},
	)
	MessagesRendered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_messages_rendered_total",
			Help: "Total number of messages republished with a button keyboard",
		},
	)

	// Платежи/подписки
	InvoicesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_invoices_issued_total",
			Help: "Total number of invoices sent",
		},
		[]string{"plan", "type"},
	)
	PaymentsConfirmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_payments_confirmed_total",
			Help: "Total number of successful payments",
		},
		[]string{"type"},
	)
	GrantsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_grants_issued_total",
			Help: "Total number of subscription grants",
		},
		[]string{"plan"},
	)
	BroadcastMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_broadcast_messages_total",
			Help: "Broadcast delivery outcomes",
		},
		[]string{"status"},
	)
)

func InitMetrics() {
	// Регистрация HTTP метрик
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)

	// Регистрация Telegram метрик
	prometheus.MustRegister(UpdatesTotal)
	prometheus.MustRegister(ButtonsParsed)
	prometheus.MustRegister(MessagesRendered)

	// Регистрация платёжных метрик
	prometheus.MustRegister(InvoicesIssued)
	prometheus.MustRegister(PaymentsConfirmed)
	prometheus.MustRegister(GrantsIssued)
	prometheus.MustRegister(BroadcastMessages)

	// Стандартные метрики Go
	prometheus.MustRegister(prometheus.NewGoCollector())
	prometheus.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
}
